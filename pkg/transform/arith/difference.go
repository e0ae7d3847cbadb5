// Package arith holds elementwise column arithmetic transforms.
package arith

import (
	"context"
	"fmt"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// Difference writes Left - Right into Output, row by row. A null on either
// side gives a null result. Int columns subtract as int64; any other numeric
// pairing produces a float column.
type Difference struct {
	Left   string
	Right  string
	Output string // defaults to "<Left>_minus_<Right>"
}

func (t *Difference) Name() string { return "column_difference" }

func (t *Difference) output() string {
	if t.Output != "" {
		return t.Output
	}
	return t.Left + "_minus_" + t.Right
}

func (t *Difference) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	c, err := ColumnDifference(f, t.Left, t.Right, t.output())
	if err != nil {
		return nil, err
	}
	if err := f.ReplaceColumn(c); err != nil {
		return nil, fmt.Errorf("column_difference: %w", err)
	}
	return f, nil
}

// ColumnDifference returns left - right as a new column called name.
func ColumnDifference(f *table.Frame, left, right, name string) (table.Column, error) {
	l, ok := f.ColumnByName(left)
	if !ok {
		return nil, fmt.Errorf("column_difference: unknown column %s", left)
	}
	r, ok := f.ColumnByName(right)
	if !ok {
		return nil, fmt.Errorf("column_difference: unknown column %s", right)
	}
	for _, c := range []table.Column{l, r} {
		if !table.IsNumericKind(c.Kind()) {
			return nil, fmt.Errorf("column_difference: column %s is %s, want a numeric column", c.Name(), c.Kind())
		}
	}
	n := f.Rows()
	if li, ok := l.(*table.IntColumn); ok {
		if ri, ok := r.(*table.IntColumn); ok {
			out := table.NewIntColumn(name, n)
			for i := 0; i < n; i++ {
				a, aok := li.Get(i)
				b, bok := ri.Get(i)
				if !aok || !bok {
					out.SetNull(i)
					continue
				}
				out.Set(i, a-b)
			}
			return out, nil
		}
	}
	out := table.NewFloatColumn(name, n)
	for i := 0; i < n; i++ {
		if l.IsNull(i) || r.IsNull(i) {
			out.SetNull(i)
			continue
		}
		a, _ := table.ToFloat(l.Value(i))
		b, _ := table.ToFloat(r.Value(i))
		out.Set(i, a-b)
	}
	return out, nil
}
