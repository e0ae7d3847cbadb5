// Package golearn converts between Frames and
// github.com/sjwhitworth/golearn/base DenseInstances, and applies fitted
// imputation statistics to instances in place.
package golearn

import (
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/base"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// ToDenseInstances converts a Frame into golearn DenseInstances. Numeric and
// bool columns become float attributes with NaN for nulls; everything else
// becomes categorical with "" for nulls. classColumn, when not empty, is set
// as the class attribute.
func ToDenseInstances(f *table.Frame, classColumn string) (*base.DenseInstances, error) {
	rows, cols := f.Dims()
	attrs := make([]base.Attribute, cols)
	for c := 0; c < cols; c++ {
		name := f.ColumnName(c)
		switch f.ColumnKind(c) {
		case table.KindFloat, table.KindInt, table.KindUint, table.KindBool:
			attrs[c] = base.NewFloatAttribute(name)
		default:
			ca := new(base.CategoricalAttribute)
			ca.SetName(name)
			attrs[c] = ca
		}
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, cols)
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(rows); err != nil {
		return nil, err
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			col := f.Column(c)
			if attrs[c].GetType() == base.Float64Type {
				v := math.NaN()
				if !col.IsNull(r) {
					v, _ = table.ToFloat(col.Value(r))
				}
				inst.Set(specs[c], r, base.PackFloatToBytes(v))
				continue
			}
			s := ""
			if !col.IsNull(r) {
				s = table.FormatValue(col.Value(r))
			}
			inst.Set(specs[c], r, attrs[c].GetSysValFromString(s))
		}
	}
	if classColumn != "" {
		j := f.ColumnIndex(classColumn)
		if j < 0 {
			return nil, fmt.Errorf("golearn: unknown class column %s", classColumn)
		}
		if err := inst.AddClassAttribute(attrs[j]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// FromDenseInstances converts golearn DenseInstances into a Frame. NaN floats
// and empty categories become nulls.
func FromDenseInstances(inst *base.DenseInstances) (*table.Frame, error) {
	attrs := inst.AllAttributes()
	schema := table.Schema{Columns: make([]table.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := table.KindString
		if a.GetType() == base.Float64Type {
			k = table.KindFloat
		}
		schema.Columns[i] = table.ColumnSchema{Name: a.GetName(), Type: k, Nullable: true}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	f := table.NewFrame(schema)
	_, nrows := inst.Size()
	for r := 0; r < nrows; r++ {
		f.AppendNullRow()
		for c, cs := range schema.Columns {
			raw := inst.Get(specs[c], r)
			if cs.Type == table.KindFloat {
				if v := base.UnpackBytesToFloat(raw); !math.IsNaN(v) {
					f.Column(c).(*table.FloatColumn).Set(r, v)
				}
				continue
			}
			if s := attrs[c].GetStringFromSysVal(raw); s != "" {
				f.Column(c).(*table.StringColumn).Set(r, s)
			}
		}
	}
	return f, nil
}
