package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/dtimpute/pkg/impute"
	iox "github.com/wdm0006/dtimpute/pkg/io/ioutils"
)

type InputConfig struct {
	Path      string   `json:"path" yaml:"path" toml:"path" validate:"required"`
	Type      string   `json:"type" yaml:"type" toml:"type" validate:"omitempty,oneof=csv jsonl parquet xlsx"` // default: from the extension
	HasHeader bool     `json:"has_header" yaml:"has_header" toml:"has_header"`
	Delimiter string   `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"omitempty,len=1"`
	Sheet     string   `json:"sheet" yaml:"sheet" toml:"sheet"`
	NAValues  []string `json:"na_values" yaml:"na_values" toml:"na_values"`
}

type OutputConfig struct {
	Path      string `json:"path" yaml:"path" toml:"path" validate:"required"`
	Type      string `json:"type" yaml:"type" toml:"type" validate:"omitempty,oneof=csv jsonl parquet xlsx"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"omitempty,len=1"`
}

type DifferenceConfig struct {
	Left   string `json:"left" yaml:"left" toml:"left" validate:"required"`
	Right  string `json:"right" yaml:"right" toml:"right" validate:"required"`
	Output string `json:"output" yaml:"output" toml:"output"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" toml:"format" validate:"omitempty,oneof=text json"`
}

type Config struct {
	Input       InputConfig        `json:"input" yaml:"input" toml:"input"`
	Output      OutputConfig       `json:"output" yaml:"output" toml:"output"`
	Differences []DifferenceConfig `json:"differences" yaml:"differences" toml:"differences" validate:"dive"`
	Imputer     impute.Config      `json:"imputer" yaml:"imputer" toml:"imputer"`
	Logging     LoggingConfig      `json:"logging" yaml:"logging" toml:"logging"`
}

// envOverrides are read from DTIMPUTE_* variables and win over the file.
type envOverrides struct {
	Strategy  string `envconfig:"STRATEGY"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// loadConfig decodes path as JSON, YAML or TOML by extension, applies the
// environment overrides and validates the result.
func loadConfig(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch iox.Ext(path) {
	case "yaml", "yml":
		err = yaml.Unmarshal(b, &cfg)
	case "toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		err = json.Unmarshal(b, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	if err := validateConfig(cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("dtimpute", &env); err != nil {
		return err
	}
	if env.Strategy != "" {
		cfg.Imputer.Strategy = impute.Strategy(env.Strategy)
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Logging.Format = env.LogFormat
	}
	return nil
}

func (c *Config) fillDefaults() {
	if c.Input.Type == "" {
		c.Input.Type = typeFromPath(c.Input.Path)
	}
	if c.Output.Type == "" {
		c.Output.Type = typeFromPath(c.Output.Path)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func typeFromPath(path string) string {
	switch iox.Ext(path) {
	case "jsonl", "ndjson":
		return "jsonl"
	case "parquet":
		return "parquet"
	case "xlsx":
		return "xlsx"
	default:
		return "csv"
	}
}

var validate = validator.New()

func validateConfig(c Config) error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	names := make([]string, len(impute.Strategies))
	for i, s := range impute.Strategies {
		names[i] = string(s)
	}
	if err := validate.Var(string(c.Imputer.Strategy), "omitempty,oneof="+strings.Join(names, " ")); err != nil {
		return fmt.Errorf("imputer.strategy %q: %w", c.Imputer.Strategy, err)
	}
	return nil
}

func delimiter(s string) rune {
	if s == "" {
		return 0
	}
	return rune(s[0])
}
