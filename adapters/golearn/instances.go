package golearn

import (
	"math"

	"github.com/sjwhitworth/golearn/base"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// Instances exposes DenseInstances as a table.Table so an imputer can fit on
// them without copying. Float attributes read as float64 (NaN when missing);
// categorical attributes read as strings, with "" read as NaN.
type Instances struct {
	inst  *base.DenseInstances
	attrs []base.Attribute
	specs []base.AttributeSpec
	rows  int
}

var _ table.Table = (*Instances)(nil)

func NewInstances(inst *base.DenseInstances) (*Instances, error) {
	attrs := inst.AllAttributes()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		s, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = s
	}
	_, rows := inst.Size()
	return &Instances{inst: inst, attrs: attrs, specs: specs, rows: rows}, nil
}

func (t *Instances) Dims() (int, int)        { return t.rows, len(t.attrs) }
func (t *Instances) ColumnName(j int) string { return t.attrs[j].GetName() }

func (t *Instances) ColumnKind(j int) table.Kind {
	if t.attrs[j].GetType() == base.Float64Type {
		return table.KindFloat
	}
	return table.KindString
}

func (t *Instances) At(i, j int) any {
	raw := t.inst.Get(t.specs[j], i)
	if t.attrs[j].GetType() == base.Float64Type {
		return base.UnpackBytesToFloat(raw)
	}
	if s := t.attrs[j].GetStringFromSysVal(raw); s != "" {
		return s
	}
	return math.NaN()
}
