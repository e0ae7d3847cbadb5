package report

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/wdm0006/dtimpute/pkg/impute"
	"github.com/wdm0006/dtimpute/pkg/table"
)

func sampleFrame(t *testing.T) *table.Frame {
	t.Helper()
	f, err := table.FromRecords([]string{"x", "s", "empty"}, [][]any{
		{1.0, "a", nil},
		{nil, "b", nil},
		{3.0, "a", nil},
	})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCollector(t *testing.T) {
	f := sampleFrame(t)
	c := NewCollector(f.Schema(), math.NaN(), 5)
	c.ConsumeFrame(f)

	imp, err := impute.New(impute.Config{Strategy: impute.MostFrequent}).Fit(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	c.AddFit(imp)

	cols := c.Columns()
	if cols[0].Missing != 1 || cols[0].Count != 2 {
		t.Fatalf("x: count=%d missing=%d", cols[0].Count, cols[0].Missing)
	}
	if !cols[1].Categorical || cols[1].Statistic != -1.0 {
		t.Fatalf("s: categorical=%v statistic=%v", cols[1].Categorical, cols[1].Statistic)
	}
	if !cols[2].Dropped() {
		t.Fatal("all-missing column should be reported as dropped")
	}

	txt := c.ReportText()
	for _, want := range []string{"- x (float): count=2 missing=1", "fill=-1 (categorical)", "fill=<dropped>", `"a": 2`} {
		if !strings.Contains(txt, want) {
			t.Fatalf("text report missing %q:\n%s", want, txt)
		}
	}
}

func TestReportJSONEncodesNaN(t *testing.T) {
	f := sampleFrame(t)
	c := NewCollector(f.Schema(), math.NaN(), 0)
	c.ConsumeFrame(f)
	imp, err := impute.New(impute.Config{}).Fit(context.Background(), f.Select([]int{0, 2}))
	if err != nil {
		t.Fatal(err)
	}
	c.AddFit(imp)

	b, err := json.Marshal(c.ReportJSON())
	if err != nil {
		t.Fatal(err)
	}
	var got JSONReport
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.Columns[0].Statistic != "2" {
		t.Fatalf("x statistic = %q", got.Columns[0].Statistic)
	}
	if got.Columns[1].Statistic != "" || got.Columns[1].Top != nil {
		t.Fatalf("unfitted string column: %+v", got.Columns[1])
	}
	if !got.Columns[2].Dropped || got.Columns[2].Statistic != "NaN" {
		t.Fatalf("empty column: %+v", got.Columns[2])
	}
}
