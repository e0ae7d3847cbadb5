// Package impute fits per-column fill statistics for missing values, with a
// fixed fill value forced onto categorical columns.
package impute

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// DTypeImputer computes one fill statistic per column using a Strategy, then
// replaces the statistic of every categorical column with
// Config.CategoricalFillValue.
//
// A DTypeImputer is not safe for concurrent use. Callers must serialize Fit
// and Transform on the same instance.
type DTypeImputer struct {
	cfg           Config
	stats         StatisticComputer
	numeric       func(table.Kind) bool
	isCategorical CategoricalPredicate
	log           *slog.Logger

	statistics  []any
	indicator   *MissingIndicator
	categorical []bool
	names       []string
	fitted      bool
}

// New returns an unfitted imputer. Unset Config fields take their defaults.
func New(cfg Config, opts ...Option) *DTypeImputer {
	d := &DTypeImputer{
		cfg:           cfg.withDefaults(),
		stats:         BaseStatistics{},
		numeric:       table.IsNumericKind,
		isCategorical: IsCategorical,
		log:           discardLogger(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Config returns the effective configuration.
func (d *DTypeImputer) Config() Config { return d.cfg }

// Statistics returns the fill value per column, in input column order. After
// a PartialStateError it holds the statistics computed before the
// categorical override.
func (d *DTypeImputer) Statistics() []any { return append([]any(nil), d.statistics...) }

// Indicator returns the fitted missing indicator, or nil when AddIndicator is off.
func (d *DTypeImputer) Indicator() *MissingIndicator { return d.indicator }

// Categorical reports which columns were classified categorical.
func (d *DTypeImputer) Categorical() []bool { return append([]bool(nil), d.categorical...) }

// ColumnNames returns the names of the columns seen by the last fit.
func (d *DTypeImputer) ColumnNames() []string { return append([]string(nil), d.names...) }

// Fitted reports whether the last Fit completed.
func (d *DTypeImputer) Fitted() bool { return d.fitted }

// Fit computes the statistics for t and returns the imputer for chaining.
//
// Validation, configuration and sparse-input errors are returned before any
// state changes. Once statistics are computed they are stored; if the
// categorical predicate then fails, Fit returns a PartialStateError and the
// imputer stays unfitted until the next successful Fit.
//
// Categorical detection masks NaN cells only, not cells equal to
// Config.MissingValues. With a non-NaN sentinel, sentinel cells take part in
// classification.
func (d *DTypeImputer) Fit(ctx context.Context, t table.Table) (*DTypeImputer, error) {
	numeric, err := d.validate(t)
	if err != nil {
		return nil, err
	}
	fill := d.cfg.resolveFill(numeric)
	if d.cfg.Strategy == Constant && numeric && !table.IsReal(fill) {
		return nil, configError("fill_value %v invalid for numerical data: expected a real number", fill)
	}

	var stats []any
	if sp, ok := t.(table.SparseTable); ok {
		if table.IsZero(d.cfg.MissingValues) {
			return nil, newError(KindUnsupportedOperation, nil,
				"imputation not possible when missing_values == 0 and input is sparse; provide a dense table instead")
		}
		stats, err = d.stats.SparseFit(ctx, sp, d.cfg.Strategy, d.cfg.MissingValues, fill)
	} else {
		stats, err = d.stats.DenseFit(ctx, t, d.cfg.Strategy, d.cfg.MissingValues, fill)
	}
	if err != nil {
		return nil, typed(ctx, err)
	}
	_, cols := t.Dims()
	if len(stats) != cols {
		return nil, configError("statistic computer returned %d values for %d columns", len(stats), cols)
	}

	var indicator *MissingIndicator
	if d.cfg.AddIndicator {
		if indicator, err = NewMissingIndicator(d.cfg.MissingValues).Fit(t); err != nil {
			return nil, err
		}
	}

	d.fitted = false
	d.statistics = append([]any(nil), stats...)
	d.indicator = indicator
	d.categorical = make([]bool, cols)
	d.names = table.ColumnNames(t)

	for j := 0; j < cols; j++ {
		if err := ctx.Err(); err != nil {
			return nil, newError(KindPartialState, err, "fit interrupted before column %s", d.names[j])
		}
		cat, err := d.isCategorical(nanMask(t, j))
		if err != nil {
			return nil, newError(KindPartialState, err, "categorical detection failed for column %s", d.names[j])
		}
		if cat {
			d.categorical[j] = true
			d.statistics[j] = d.cfg.CategoricalFillValue
		}
		if d.cfg.Verbose > 0 {
			d.log.Debug("column fitted",
				slog.String("column", d.names[j]),
				slog.String("kind", t.ColumnKind(j).String()),
				slog.Bool("categorical", cat),
				slog.Any("statistic", d.statistics[j]))
		}
	}
	d.fitted = true

	rows, _ := t.Dims()
	d.log.Info("imputer fitted",
		slog.String("strategy", string(d.cfg.Strategy)),
		slog.Int("rows", rows),
		slog.Int("columns", cols),
		slog.Int("categorical", countTrue(d.categorical)),
		slog.Bool("sparse", table.IsSparse(t)),
		slog.Bool("indicator", indicator != nil))
	return d, nil
}

// validate checks t against the configuration and reports whether t has a
// numeric dtype.
func (d *DTypeImputer) validate(t table.Table) (bool, error) {
	if !d.cfg.Strategy.valid() {
		return false, configError("strategy must be one of %v, got %q", Strategies, d.cfg.Strategy)
	}
	if t == nil {
		return false, validationError("nil table")
	}
	rows, cols := t.Dims()
	if rows == 0 || cols == 0 {
		return false, validationError("empty table: %d rows, %d columns", rows, cols)
	}
	for j := 0; j < cols; j++ {
		k := t.ColumnKind(j)
		if k == table.KindInvalid {
			return false, validationError("column %s has an invalid kind", t.ColumnName(j))
		}
		if d.cfg.Strategy == Mean || d.cfg.Strategy == Median {
			if k == table.KindString || k == table.KindTime {
				return false, validationError("cannot use %s strategy with non-numeric column %s (%s)",
					d.cfg.Strategy, t.ColumnName(j), k)
			}
		}
	}
	numeric := table.NumericDType(t, d.numeric)
	if numeric && !table.IsReal(d.cfg.MissingValues) {
		return false, validationError("table and missing_values types are expected to be both numerical, got missing_values=%v", d.cfg.MissingValues)
	}
	if !table.IsNaN(d.cfg.MissingValues) {
		if err := checkFinite(t); err != nil {
			return false, err
		}
	}
	return numeric, nil
}

// checkFinite rejects NaN and infinite cells. It applies when the sentinel is
// not NaN, since a NaN cell could then never be imputed.
func checkFinite(t table.Table) error {
	rows, cols := t.Dims()
	for j := 0; j < cols; j++ {
		if sp, ok := t.(table.SparseTable); ok {
			_, vals := sp.ColumnNonZero(j)
			for _, v := range vals {
				if err := finite(v, t.ColumnName(j)); err != nil {
					return err
				}
			}
			continue
		}
		for i := 0; i < rows; i++ {
			if err := finite(t.At(i, j), t.ColumnName(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func finite(v any, column string) error {
	if table.IsNaN(v) {
		return validationError("column %s contains NaN while missing_values is not NaN", column)
	}
	if f, ok := v.(float64); ok && math.IsInf(f, 0) {
		return validationError("column %s contains infinity", column)
	}
	return nil
}

// typed wraps errors from a StatisticComputer that are not already *Error.
func typed(ctx context.Context, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if ctx.Err() != nil {
		return newError(KindCanceled, err, "fit canceled")
	}
	return newError(KindValidation, err, "statistic computation failed")
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
