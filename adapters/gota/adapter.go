// Package gota converts between Frames and github.com/go-gota/gota
// DataFrames.
package gota

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// FromDataFrame copies df into a Frame. NA elements become nulls.
func FromDataFrame(df dataframe.DataFrame) (*table.Frame, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	names, types := df.Names(), df.Types()
	schema := table.Schema{Columns: make([]table.ColumnSchema, len(names))}
	for i, n := range names {
		schema.Columns[i] = table.ColumnSchema{Name: n, Type: kindOf(types[i]), Nullable: true}
	}
	f := table.NewFrame(schema)
	nrows := df.Nrow()
	for r := 0; r < nrows; r++ {
		f.AppendNullRow()
	}
	for c, n := range names {
		s := df.Col(n)
		col := f.Column(c)
		for r := 0; r < nrows; r++ {
			e := s.Elem(r)
			if e.IsNA() {
				continue
			}
			var v any
			switch types[c] {
			case series.Int:
				x, err := e.Int()
				if err != nil {
					return nil, fmt.Errorf("gota: column %s row %d: %w", n, r, err)
				}
				v = int64(x)
			case series.Float:
				v = e.Float()
			case series.Bool:
				x, err := e.Bool()
				if err != nil {
					return nil, fmt.Errorf("gota: column %s row %d: %w", n, r, err)
				}
				v = x
			default:
				v = e.String()
			}
			if err := col.SetValue(r, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// ToDataFrame copies f into a DataFrame. Uint columns become Int series;
// time and mixed columns become String series.
func ToDataFrame(f *table.Frame) dataframe.DataFrame {
	rows, cols := f.Dims()
	ss := make([]series.Series, cols)
	for c := 0; c < cols; c++ {
		col := f.Column(c)
		vals := make([]string, rows)
		for r := 0; r < rows; r++ {
			if col.IsNull(r) {
				vals[r] = "NaN"
				continue
			}
			vals[r] = table.FormatValue(col.Value(r))
		}
		ss[c] = series.New(vals, seriesType(col.Kind()), col.Name())
	}
	return dataframe.New(ss...)
}

func kindOf(t series.Type) table.Kind {
	switch t {
	case series.Int:
		return table.KindInt
	case series.Float:
		return table.KindFloat
	case series.Bool:
		return table.KindBool
	default:
		return table.KindString
	}
}

func seriesType(k table.Kind) series.Type {
	switch k {
	case table.KindInt, table.KindUint:
		return series.Int
	case table.KindFloat:
		return series.Float
	case table.KindBool:
		return series.Bool
	default:
		return series.String
	}
}
