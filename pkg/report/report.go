// Package report summarizes a table's missing values and the fill values an
// imputer chose for it.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wdm0006/dtimpute/pkg/table"
)

type NumStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
}

type ColumnReport struct {
	Name        string
	Kind        table.Kind
	Count       int
	Missing     int
	Num         *NumStats
	Freqs       map[string]int
	Fitted      bool
	Categorical bool
	Statistic   any
}

// Dropped reports whether the imputer will drop the column.
func (c ColumnReport) Dropped() bool { return c.Fitted && table.IsNaN(c.Statistic) }

// FitResult is the part of a fitted imputer the report reads.
type FitResult interface {
	ColumnNames() []string
	Statistics() []any
	Categorical() []bool
}

type Collector struct {
	cols    []ColumnReport
	index   map[string]int
	missing any
	topK    int
}

// NewCollector counts cells equal to missing as missing. topK bounds the
// value frequencies kept for text columns.
func NewCollector(schema table.Schema, missing any, topK int) *Collector {
	c := &Collector{index: make(map[string]int), missing: missing, topK: topK}
	c.cols = make([]ColumnReport, len(schema.Columns))
	for i, cs := range schema.Columns {
		cr := ColumnReport{Name: cs.Name, Kind: cs.Type}
		switch cs.Type {
		case table.KindFloat, table.KindInt, table.KindUint:
			cr.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		case table.KindString, table.KindAny:
			cr.Freqs = make(map[string]int)
		}
		c.cols[i] = cr
		c.index[cs.Name] = i
	}
	return c
}

func (c *Collector) ConsumeFrame(f *table.Frame) {
	rows, cols := f.Dims()
	for j := 0; j < cols; j++ {
		idx, ok := c.index[f.ColumnName(j)]
		if !ok {
			continue
		}
		cr := &c.cols[idx]
		col := f.Column(j)
		for i := 0; i < rows; i++ {
			v := col.Value(i)
			if table.IsMissing(v, c.missing) || col.IsNull(i) {
				cr.Missing++
				continue
			}
			cr.Count++
			if cr.Num != nil {
				x, _ := table.ToFloat(v)
				cr.Num.Count++
				cr.Num.Min = math.Min(cr.Num.Min, x)
				cr.Num.Max = math.Max(cr.Num.Max, x)
				cr.Num.Sum += x
			}
			if cr.Freqs != nil && c.topK > 0 {
				cr.Freqs[table.FormatValue(v)]++
			}
		}
	}
}

// AddFit records the imputer's statistics by column name.
func (c *Collector) AddFit(r FitResult) {
	stats, cat := r.Statistics(), r.Categorical()
	for j, name := range r.ColumnNames() {
		idx, ok := c.index[name]
		if !ok || j >= len(stats) {
			continue
		}
		cr := &c.cols[idx]
		cr.Fitted = true
		cr.Statistic = stats[j]
		cr.Categorical = j < len(cat) && cat[j]
	}
}

func (c *Collector) Columns() []ColumnReport { return append([]ColumnReport(nil), c.cols...) }

func (c *Collector) ReportText() string {
	var b strings.Builder
	b.WriteString("Imputation Summary\n")
	for _, cr := range c.cols {
		fmt.Fprintf(&b, "- %s (%v): count=%d missing=%d", cr.Name, cr.Kind, cr.Count, cr.Missing)
		if cr.Num != nil && cr.Num.Count > 0 {
			fmt.Fprintf(&b, " min=%.6g max=%.6g mean=%.6g", cr.Num.Min, cr.Num.Max, cr.Num.Sum/float64(cr.Num.Count))
		}
		switch {
		case !cr.Fitted:
		case cr.Dropped():
			b.WriteString(" fill=<dropped>")
		case cr.Categorical:
			fmt.Fprintf(&b, " fill=%s (categorical)", table.FormatValue(cr.Statistic))
		default:
			fmt.Fprintf(&b, " fill=%s", table.FormatValue(cr.Statistic))
		}
		b.WriteString("\n")
		for _, e := range c.top(cr.Freqs) {
			fmt.Fprintf(&b, "  * %q: %d\n", e.Value, e.Count)
		}
	}
	return b.String()
}

type FreqEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// top sorts by count descending, then value.
func (c *Collector) top(freqs map[string]int) []FreqEntry {
	if len(freqs) == 0 {
		return nil
	}
	arr := make([]FreqEntry, 0, len(freqs))
	for k, v := range freqs {
		arr = append(arr, FreqEntry{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Value < arr[j].Value
	})
	if c.topK > 0 && c.topK < len(arr) {
		arr = arr[:c.topK]
	}
	return arr
}

type JSONReport struct {
	Columns []JSONColumn `json:"columns"`
}

// JSONColumn renders the statistic as text so NaN survives encoding.
type JSONColumn struct {
	Name        string      `json:"name"`
	Kind        string      `json:"kind"`
	Count       int         `json:"count"`
	Missing     int         `json:"missing"`
	Num         *NumStats   `json:"num,omitempty"`
	Top         []FreqEntry `json:"top,omitempty"`
	Categorical bool        `json:"categorical"`
	Dropped     bool        `json:"dropped"`
	Statistic   string      `json:"statistic,omitempty"`
}

func (c *Collector) ReportJSON() JSONReport {
	out := JSONReport{Columns: make([]JSONColumn, 0, len(c.cols))}
	for _, cr := range c.cols {
		jc := JSONColumn{
			Name:        cr.Name,
			Kind:        cr.Kind.String(),
			Count:       cr.Count,
			Missing:     cr.Missing,
			Top:         c.top(cr.Freqs),
			Categorical: cr.Categorical,
			Dropped:     cr.Dropped(),
		}
		if cr.Num != nil && cr.Num.Count > 0 {
			jc.Num = cr.Num
		}
		if cr.Fitted {
			jc.Statistic = table.FormatValue(cr.Statistic)
		}
		out.Columns = append(out.Columns, jc)
	}
	return out
}
