package arith

import (
	"context"
	"testing"

	"github.com/wdm0006/dtimpute/pkg/table"
)

func intFrame(t *testing.T, names []string, rows [][]int64) *table.Frame {
	t.Helper()
	s := table.Schema{}
	for _, n := range names {
		s.Columns = append(s.Columns, table.ColumnSchema{Name: n, Type: table.KindInt, Nullable: true})
	}
	f := table.NewFrame(s)
	for i, row := range rows {
		f.AppendNullRow()
		for j, v := range row {
			f.Column(j).(*table.IntColumn).Set(i, v)
		}
	}
	return f
}

func TestColumnDifference(t *testing.T) {
	cases := []struct {
		name    string
		rows    [][]int64
		columns []string
		want    []int64
	}{
		{"common", [][]int64{{1, 2}, {3, 4}}, []string{"A", "B"}, []int64{-1, -1}},
		{"mixed signs", [][]int64{{5, 3}, {10, 14}, {0, -8}}, []string{"A", "B"}, []int64{2, -4, 8}},
		{"third column", [][]int64{{1, 2, 100}, {3, 4, 200}}, []string{"A", "B", "C"}, []int64{-1, -1}},
		{"column of zeros", [][]int64{{1, 0}, {3, 0}}, []string{"A", "B"}, []int64{1, 3}},
		{"empty frame", nil, []string{"A", "B"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := intFrame(t, tc.columns, tc.rows)
			out, err := (&Difference{Left: "A", Right: "B"}).Apply(context.Background(), f)
			if err != nil {
				t.Fatal(err)
			}
			col, ok := out.ColumnByName("A_minus_B")
			if !ok {
				t.Fatalf("missing output column, have %v", table.ColumnNames(out))
			}
			c := col.(*table.IntColumn)
			if c.Len() != len(tc.want) {
				t.Fatalf("got %d rows, want %d", c.Len(), len(tc.want))
			}
			for i, w := range tc.want {
				if v, _ := c.Get(i); v != w {
					t.Fatalf("row %d: got %d, want %d", i, v, w)
				}
			}
			if out.Cols() != len(tc.columns)+1 {
				t.Fatalf("got %d columns, want %d", out.Cols(), len(tc.columns)+1)
			}
		})
	}
}

func TestColumnDifferenceFloatAndNulls(t *testing.T) {
	f, err := table.FromRecords([]string{"a", "b"}, [][]any{
		{1.5, 1},
		{nil, 2},
		{4.0, nil},
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := (&Difference{Left: "a", Right: "b", Output: "d"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.ColumnByName("d")
	c, ok := col.(*table.FloatColumn)
	if !ok {
		t.Fatalf("want float output, got %s", col.Kind())
	}
	if v, ok := c.Get(0); !ok || v != 0.5 {
		t.Fatalf("row 0: got %v %v", v, ok)
	}
	if !c.IsNull(1) || !c.IsNull(2) {
		t.Fatal("null operands must give null results")
	}
}

func TestColumnDifferenceReplacesOutput(t *testing.T) {
	f := intFrame(t, []string{"A", "B"}, [][]int64{{4, 1}})
	d := &Difference{Left: "A", Right: "B", Output: "A"}
	if _, err := d.Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if f.Cols() != 2 {
		t.Fatalf("got %d columns, want 2", f.Cols())
	}
	if v, _ := f.Column(0).(*table.IntColumn).Get(0); v != 3 {
		t.Fatalf("got %d, want 3", v)
	}
}

func TestColumnDifferenceErrors(t *testing.T) {
	f, _ := table.FromRecords([]string{"n", "s"}, [][]any{{1, "x"}})
	if _, err := (&Difference{Left: "n", Right: "missing"}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected error for unknown column")
	}
	if _, err := (&Difference{Left: "n", Right: "s"}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected error for string column")
	}
}
