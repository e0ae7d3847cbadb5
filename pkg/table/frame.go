package table

import (
	"fmt"
	"math"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	// Value returns the cell as a plain Go value, NaN when null.
	Value(i int) any
	// SetValue coerces v to the column type; nil sets null.
	SetValue(i int, v any) error
	AppendNull()
}

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: make([]bool, n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.nulls[i] = true }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

func (c *BoolColumn) Value(i int) any {
	if c.nulls[i] {
		return math.NaN()
	}
	return c.data[i]
}

func (c *BoolColumn) SetValue(i int, v any) error {
	switch t := v.(type) {
	case nil:
		c.SetNull(i)
	case bool:
		c.Set(i, t)
	default:
		if f, ok := ToFloat(v); ok {
			c.Set(i, f >= 0.5)
			return nil
		}
		return fmt.Errorf("column %s expects bool, got %T", c.name, v)
	}
	return nil
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{name: name, data: make([]int64, n), nulls: make([]bool, n)}
}
func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) SetNull(i int)           { c.nulls[i] = true }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) Set(i int, v int64)      { c.data[i] = v; c.nulls[i] = false }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

func (c *IntColumn) Value(i int) any {
	if c.nulls[i] {
		return math.NaN()
	}
	return c.data[i]
}

func (c *IntColumn) SetValue(i int, v any) error {
	if v == nil {
		c.SetNull(i)
		return nil
	}
	f, ok := ToFloat(v)
	if !ok {
		return fmt.Errorf("column %s expects int/int64, got %T", c.name, v)
	}
	if math.IsNaN(f) {
		c.SetNull(i)
		return nil
	}
	if n, ok := v.(int64); ok {
		c.Set(i, n)
		return nil
	}
	c.Set(i, int64(math.Round(f)))
	return nil
}

type UintColumn struct {
	name  string
	data  []uint64
	nulls []bool
}

func NewUintColumn(name string, n int) *UintColumn {
	return &UintColumn{name: name, data: make([]uint64, n), nulls: make([]bool, n)}
}
func (c *UintColumn) Name() string             { return c.name }
func (c *UintColumn) Kind() Kind               { return KindUint }
func (c *UintColumn) Len() int                 { return len(c.data) }
func (c *UintColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *UintColumn) SetNull(i int)            { c.nulls[i] = true }
func (c *UintColumn) Get(i int) (uint64, bool) { return c.data[i], !c.nulls[i] }
func (c *UintColumn) Set(i int, v uint64)      { c.data[i] = v; c.nulls[i] = false }
func (c *UintColumn) AppendNull()              { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *UintColumn) Append(v uint64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

func (c *UintColumn) Value(i int) any {
	if c.nulls[i] {
		return math.NaN()
	}
	return c.data[i]
}

func (c *UintColumn) SetValue(i int, v any) error {
	if v == nil {
		c.SetNull(i)
		return nil
	}
	if n, ok := v.(uint64); ok {
		c.Set(i, n)
		return nil
	}
	f, ok := ToFloat(v)
	if !ok || f < 0 {
		return fmt.Errorf("column %s expects a non-negative integer, got %v", c.name, v)
	}
	if math.IsNaN(f) {
		c.SetNull(i)
		return nil
	}
	c.Set(i, uint64(math.Round(f)))
	return nil
}

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{name: name, data: make([]float64, n), nulls: make([]bool, n)}
}
func (c *FloatColumn) Name() string              { return c.name }
func (c *FloatColumn) Kind() Kind                { return KindFloat }
func (c *FloatColumn) Len() int                  { return len(c.data) }
func (c *FloatColumn) IsNull(i int) bool         { return c.nulls[i] }
func (c *FloatColumn) SetNull(i int)             { c.nulls[i] = true }
func (c *FloatColumn) Get(i int) (float64, bool) { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) Set(i int, v float64)      { c.data[i] = v; c.nulls[i] = false }
func (c *FloatColumn) AppendNull()               { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *FloatColumn) Append(v float64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

// Value keeps stored NaN values as NaN, indistinguishable from nulls.
func (c *FloatColumn) Value(i int) any {
	if c.nulls[i] {
		return math.NaN()
	}
	return c.data[i]
}

func (c *FloatColumn) SetValue(i int, v any) error {
	if v == nil {
		c.SetNull(i)
		return nil
	}
	f, ok := ToFloat(v)
	if !ok {
		return fmt.Errorf("column %s expects float64, got %T", c.name, v)
	}
	c.Set(i, f)
	return nil
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{name: name, data: make([]string, n), nulls: make([]bool, n)}
}
func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) SetNull(i int)            { c.nulls[i] = true }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

func (c *StringColumn) Value(i int) any {
	if c.nulls[i] {
		return math.NaN()
	}
	return c.data[i]
}

// SetValue formats non-string values, so a numeric fill lands as text.
func (c *StringColumn) SetValue(i int, v any) error {
	switch t := v.(type) {
	case nil:
		c.SetNull(i)
	case string:
		c.Set(i, t)
	default:
		c.Set(i, FormatValue(v))
	}
	return nil
}

type TimeColumn struct {
	name  string
	data  []time.Time
	nulls []bool
}

func NewTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{name: name, data: make([]time.Time, n), nulls: make([]bool, n)}
}
func (c *TimeColumn) Name() string                { return c.name }
func (c *TimeColumn) Kind() Kind                  { return KindTime }
func (c *TimeColumn) Len() int                    { return len(c.data) }
func (c *TimeColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *TimeColumn) SetNull(i int)               { c.nulls[i] = true }
func (c *TimeColumn) Get(i int) (time.Time, bool) { return c.data[i], !c.nulls[i] }
func (c *TimeColumn) Set(i int, v time.Time)      { c.data[i] = v; c.nulls[i] = false }
func (c *TimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.nulls = append(c.nulls, true)
}
func (c *TimeColumn) Append(v time.Time) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}

func (c *TimeColumn) Value(i int) any {
	if c.nulls[i] {
		return math.NaN()
	}
	return c.data[i]
}

func (c *TimeColumn) SetValue(i int, v any) error {
	switch t := v.(type) {
	case nil:
		c.SetNull(i)
	case time.Time:
		c.Set(i, t)
	case string:
		ts, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return fmt.Errorf("column %s: %w", c.name, err)
		}
		c.Set(i, ts)
	default:
		return fmt.Errorf("column %s expects time.Time, got %T", c.name, v)
	}
	return nil
}

// AnyColumn stores heterogeneous values.
type AnyColumn struct {
	name  string
	data  []any
	nulls []bool
}

func NewAnyColumn(name string, n int) *AnyColumn {
	return &AnyColumn{name: name, data: make([]any, n), nulls: make([]bool, n)}
}
func (c *AnyColumn) Name() string          { return c.name }
func (c *AnyColumn) Kind() Kind            { return KindAny }
func (c *AnyColumn) Len() int              { return len(c.data) }
func (c *AnyColumn) IsNull(i int) bool     { return c.nulls[i] }
func (c *AnyColumn) SetNull(i int)         { c.data[i] = nil; c.nulls[i] = true }
func (c *AnyColumn) Get(i int) (any, bool) { return c.data[i], !c.nulls[i] }
func (c *AnyColumn) Set(i int, v any)      { c.data[i] = v; c.nulls[i] = v == nil }
func (c *AnyColumn) AppendNull()           { c.data = append(c.data, nil); c.nulls = append(c.nulls, true) }
func (c *AnyColumn) Append(v any)          { c.data = append(c.data, v); c.nulls = append(c.nulls, v == nil) }

func (c *AnyColumn) Value(i int) any {
	if c.nulls[i] {
		return math.NaN()
	}
	return c.data[i]
}

func (c *AnyColumn) SetValue(i int, v any) error {
	c.Set(i, v)
	return nil
}

// ToAnyColumn copies c into an AnyColumn with the same name and nulls.
func ToAnyColumn(c Column) *AnyColumn {
	out := NewAnyColumn(c.Name(), c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			out.SetNull(i)
			continue
		}
		out.Set(i, c.Value(i))
	}
	return out
}

// NewColumn allocates an empty column of kind k.
func NewColumn(name string, k Kind, n int) (Column, error) {
	switch k {
	case KindBool:
		return NewBoolColumn(name, n), nil
	case KindInt:
		return NewIntColumn(name, n), nil
	case KindUint:
		return NewUintColumn(name, n), nil
	case KindFloat:
		return NewFloatColumn(name, n), nil
	case KindString:
		return NewStringColumn(name, n), nil
	case KindTime:
		return NewTimeColumn(name, n), nil
	case KindAny:
		return NewAnyColumn(name, n), nil
	default:
		return nil, fmt.Errorf("invalid column kind %d for %s", k, name)
	}
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		c, err := NewColumn(cs.Name, cs.Type, 0)
		if err != nil {
			panic(err)
		}
		f.cols[i] = c
		f.index[cs.Name] = i
	}
	return f
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) Dims() (int, int)        { return f.nrows, len(f.cols) }
func (f *Frame) At(i, j int) any         { return f.cols[j].Value(i) }
func (f *Frame) ColumnKind(j int) Kind   { return f.cols[j].Kind() }
func (f *Frame) ColumnName(j int) string { return f.cols[j].Name() }
func (f *Frame) Column(j int) Column     { return f.cols[j] }

func (f *Frame) ColumnIndex(name string) int {
	if i, ok := f.index[name]; ok {
		return i
	}
	return -1
}

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// AddColumn appends c, which must match the frame's row count.
func (f *Frame) AddColumn(c Column, nullable bool) error {
	if c.Len() != f.nrows {
		return fmt.Errorf("column %s has %d rows, frame has %d", c.Name(), c.Len(), f.nrows)
	}
	if _, ok := f.index[c.Name()]; ok {
		return fmt.Errorf("duplicate column: %s", c.Name())
	}
	f.index[c.Name()] = len(f.cols)
	f.cols = append(f.cols, c)
	f.schema.Columns = append(f.schema.Columns, ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: nullable})
	return nil
}

// ReplaceColumn swaps the column named c.Name(), or appends it when absent.
func (f *Frame) ReplaceColumn(c Column) error {
	i, ok := f.index[c.Name()]
	if !ok {
		return f.AddColumn(c, true)
	}
	if c.Len() != f.nrows {
		return fmt.Errorf("column %s has %d rows, frame has %d", c.Name(), c.Len(), f.nrows)
	}
	f.cols[i] = c
	f.schema.Columns[i].Type = c.Kind()
	return nil
}

// WidenColumn converts column j to an AnyColumn, keeping its values, and
// returns the new column.
func (f *Frame) WidenColumn(j int) Column {
	c := f.cols[j]
	if c.Kind() == KindAny {
		return c
	}
	w := ToAnyColumn(c)
	f.cols[j] = w
	f.schema.Columns[j].Type = KindAny
	return w
}

// Select returns a frame holding the columns at idx. Columns are shared, not copied.
func (f *Frame) Select(idx []int) *Frame {
	out := &Frame{index: make(map[string]int, len(idx)), nrows: f.nrows}
	for _, j := range idx {
		out.index[f.cols[j].Name()] = len(out.cols)
		out.cols = append(out.cols, f.cols[j])
		out.schema.Columns = append(out.schema.Columns, f.schema.Columns[j])
	}
	return out
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		c.AppendNull()
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	return f.cols[i].SetValue(row, v)
}

// FromRecords builds a frame from row-major values, inferring one kind per column.
func FromRecords(names []string, rows [][]any) (*Frame, error) {
	kinds := make([]Kind, len(names))
	for j := range names {
		vals := make([]any, 0, len(rows))
		for r, row := range rows {
			if len(row) != len(names) {
				return nil, fmt.Errorf("row %d has %d values, want %d", r, len(row), len(names))
			}
			vals = append(vals, row[j])
		}
		kinds[j] = InferKindFromValues(vals)
	}
	s := Schema{Columns: make([]ColumnSchema, len(names))}
	for j, n := range names {
		s.Columns[j] = ColumnSchema{Name: n, Type: kinds[j], Nullable: true}
	}
	f := NewFrame(s)
	for r, row := range rows {
		f.AppendNullRow()
		for j, v := range row {
			if err := f.cols[j].SetValue(r, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
