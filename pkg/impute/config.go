package impute

import (
	"math"
	"strings"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// Strategy names how a column's fill statistic is computed.
type Strategy string

const (
	Mean         Strategy = "mean"
	Median       Strategy = "median"
	MostFrequent Strategy = "most_frequent"
	Constant     Strategy = "constant"
)

// Strategies lists the accepted strategy names.
var Strategies = []Strategy{Mean, Median, MostFrequent, Constant}

func (s Strategy) valid() bool {
	for _, v := range Strategies {
		if s == v {
			return true
		}
	}
	return false
}

// DefaultMissingFill is the constant fill for non-numeric tables when
// FillValue is unset.
const DefaultMissingFill = "missing_value"

// Config holds the imputer options. The zero value of each field selects
// its default: NaN sentinel, mean strategy, fill value resolved per table,
// categorical fill of -1.
type Config struct {
	MissingValues        any      `json:"missing_values" yaml:"missing_values" toml:"missing_values"`
	Strategy             Strategy `json:"strategy" yaml:"strategy" toml:"strategy"`
	FillValue            any      `json:"fill_value" yaml:"fill_value" toml:"fill_value"`
	CategoricalFillValue any      `json:"categorical_fill_value" yaml:"categorical_fill_value" toml:"categorical_fill_value"`
	AddIndicator         bool     `json:"add_indicator" yaml:"add_indicator" toml:"add_indicator"`
	// Verbose > 0 logs one debug record per column.
	Verbose int `json:"verbose" yaml:"verbose" toml:"verbose"`
}

// DefaultConfig returns the documented defaults with every field set.
func DefaultConfig() Config {
	return Config{
		MissingValues:        math.NaN(),
		Strategy:             Mean,
		CategoricalFillValue: -1,
	}
}

func (c Config) withDefaults() Config {
	if c.MissingValues == nil {
		c.MissingValues = math.NaN()
	}
	if c.Strategy == "" {
		c.Strategy = Mean
	}
	if c.CategoricalFillValue == nil {
		c.CategoricalFillValue = -1
	}
	c.MissingValues = NormalizeSentinel(c.MissingValues)
	c.FillValue = normalizeNumber(c.FillValue)
	c.CategoricalFillValue = normalizeNumber(c.CategoricalFillValue)
	return c
}

// NormalizeSentinel maps the text forms "nan"/"NaN" to NaN and numbers of any
// width to float64, so sentinels decoded from JSON, YAML or TOML compare alike.
func NormalizeSentinel(v any) any {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "nan") {
		return math.NaN()
	}
	return normalizeNumber(v)
}

// normalizeNumber widens numbers to float64. Bools keep their type.
func normalizeNumber(v any) any {
	if _, ok := v.(bool); ok || v == nil || !table.IsReal(v) {
		return v
	}
	f, _ := table.ToFloat(v)
	return f
}

// resolveFill returns the effective fill value: the configured one, else 0 for
// numeric tables, else DefaultMissingFill.
func (c Config) resolveFill(numeric bool) any {
	if c.FillValue != nil {
		return c.FillValue
	}
	if numeric {
		return 0.0
	}
	return DefaultMissingFill
}
