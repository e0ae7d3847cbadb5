package impute

import (
	"io"
	"log/slog"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// Option customizes a DTypeImputer.
type Option func(*DTypeImputer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(d *DTypeImputer) {
		if l != nil {
			d.log = l
		}
	}
}

// WithStatisticComputer replaces BaseStatistics.
func WithStatisticComputer(c StatisticComputer) Option {
	return func(d *DTypeImputer) {
		if c != nil {
			d.stats = c
		}
	}
}

// WithNumericKinds replaces table.IsNumericKind as the test for a numeric
// table dtype.
func WithNumericKinds(fn func(table.Kind) bool) Option {
	return func(d *DTypeImputer) {
		if fn != nil {
			d.numeric = fn
		}
	}
}

// WithCategoricalPredicate replaces IsCategorical.
func WithCategoricalPredicate(p CategoricalPredicate) Option {
	return func(d *DTypeImputer) {
		if p != nil {
			d.isCategorical = p
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
