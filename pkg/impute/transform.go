package impute

import (
	"context"
	"log/slog"

	"github.com/wdm0006/dtimpute/pkg/table"
)

var _ table.Transform = (*DTypeImputer)(nil)

func (d *DTypeImputer) Name() string { return "impute_dtype" }

// Apply fits on f and fills it, so the imputer can run as a pipeline step.
func (d *DTypeImputer) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	if _, err := d.Fit(ctx, f); err != nil {
		return nil, err
	}
	return d.Transform(ctx, f)
}

// Transform replaces missing cells of f with the fitted statistics. Cells are
// written in place; the returned frame shares f's columns, minus columns whose
// statistic is NaN, plus indicator columns when AddIndicator is set.
func (d *DTypeImputer) Transform(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	keep, err := d.checkTransform(f)
	if err != nil {
		return nil, err
	}
	var ind *table.Frame
	if d.indicator != nil {
		if ind, err = d.indicator.Transform(f); err != nil {
			return nil, err
		}
	}
	rows := f.Rows()
	for _, j := range keep {
		if err := ctx.Err(); err != nil {
			return nil, newError(KindCanceled, err, "transform canceled at column %s", f.ColumnName(j))
		}
		stat := d.statistics[j]
		col := f.Column(j)
		for i := 0; i < rows; i++ {
			if !table.IsMissing(col.Value(i), d.cfg.MissingValues) {
				continue
			}
			if err := col.SetValue(i, stat); err == nil {
				continue
			}
			// kind cannot hold stat, e.g. text on an int column
			col = f.WidenColumn(j)
			d.log.Debug("column widened to mixed values",
				slog.String("column", col.Name()),
				slog.Any("statistic", stat))
			if err := col.SetValue(i, stat); err != nil {
				return nil, validationError("column %s: %v", col.Name(), err)
			}
		}
	}
	out := f.Select(keep)
	if ind != nil {
		for j := 0; j < ind.Cols(); j++ {
			if err := out.AddColumn(ind.Column(j), false); err != nil {
				return nil, validationError("indicator: %v", err)
			}
		}
	}
	return out, nil
}

// TransformSparse fills stored missing entries of s. Implicit zeros are
// never missing.
func (d *DTypeImputer) TransformSparse(ctx context.Context, s table.SparseTable) (*table.Sparse, error) {
	keep, err := d.checkTransform(s)
	if err != nil {
		return nil, err
	}
	rows, _ := s.Dims()
	var ts []table.Triplet
	names := make([]string, 0, len(keep))
	for out, j := range keep {
		if err := ctx.Err(); err != nil {
			return nil, newError(KindCanceled, err, "transform canceled at column %s", s.ColumnName(j))
		}
		fill, ok := table.ToFloat(d.statistics[j])
		if !ok {
			return nil, validationError("column %s: statistic %v is not numeric", s.ColumnName(j), d.statistics[j])
		}
		idx, vals := s.ColumnNonZero(j)
		for k, v := range vals {
			if table.IsMissing(v, d.cfg.MissingValues) {
				v = fill
			}
			ts = append(ts, table.Triplet{I: idx[k], J: out, V: v})
		}
		names = append(names, s.ColumnName(j))
	}
	if d.indicator != nil {
		ind, err := d.indicator.Transform(s)
		if err != nil {
			return nil, err
		}
		for j := 0; j < ind.Cols(); j++ {
			c := ind.Column(j).(*table.BoolColumn)
			for i := 0; i < rows; i++ {
				if v, _ := c.Get(i); v {
					ts = append(ts, table.Triplet{I: i, J: len(names), V: 1})
				}
			}
			names = append(names, c.Name())
		}
	}
	return table.NewSparseFromTriplets(rows, len(names), ts, names...), nil
}

// checkTransform returns the indices of the columns that survive imputation.
func (d *DTypeImputer) checkTransform(t table.Table) ([]int, error) {
	if !d.fitted {
		return nil, &Error{Kind: KindNotFitted, Message: "imputer is not fitted; call Fit first"}
	}
	if t == nil {
		return nil, validationError("nil table")
	}
	_, cols := t.Dims()
	if cols != len(d.statistics) {
		return nil, validationError("table has %d columns, imputer was fitted on %d", cols, len(d.statistics))
	}
	keep := make([]int, 0, cols)
	for j, s := range d.statistics {
		if d.cfg.Strategy != Constant && table.IsNaN(s) {
			d.log.Warn("skipping column with no observed values",
				slog.String("column", t.ColumnName(j)),
				slog.String("strategy", string(d.cfg.Strategy)))
			continue
		}
		keep = append(keep, j)
	}
	return keep, nil
}
