package impute

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/dtimpute/pkg/table"
)

var nan = math.NaN()

func fit(t *testing.T, cfg Config, tbl table.Table, opts ...Option) *DTypeImputer {
	t.Helper()
	d, err := New(cfg, opts...).Fit(context.Background(), tbl)
	require.NoError(t, err)
	return d
}

func dense(t testing.TB, rows [][]float64, names ...string) *table.Matrix {
	t.Helper()
	m, err := table.NewMatrixFromRows(rows, names...)
	require.NoError(t, err)
	return m
}

func sparseRows(t testing.TB, rows [][]float64, names ...string) *table.Sparse {
	t.Helper()
	s, err := table.NewSparseFromRows(rows, names...)
	require.NoError(t, err)
	return s
}

func records(t *testing.T, names []string, rows ...[]any) *table.Frame {
	t.Helper()
	f, err := table.FromRecords(names, rows)
	require.NoError(t, err)
	return f
}

func TestFitMeanDense(t *testing.T) {
	m := dense(t, [][]float64{{1, 2}, {3, 4}})
	d := fit(t, Config{Strategy: Mean}, m)
	assert.Equal(t, []any{2.0, 3.0}, d.Statistics())
	assert.Equal(t, []bool{false, false}, d.Categorical())
	assert.Nil(t, d.Indicator())
	assert.True(t, d.Fitted())
}

func TestFitMostFrequentForcesCategoricalFill(t *testing.T) {
	f := records(t, []string{"s", "n"},
		[]any{"a", 1},
		[]any{"a", 2},
		[]any{"b", 2},
	)
	d := fit(t, Config{Strategy: MostFrequent}, f)
	assert.Equal(t, []any{-1.0, int64(2)}, d.Statistics())
	assert.Equal(t, []bool{true, false}, d.Categorical())
}

func TestFitCategoricalFillValueOverride(t *testing.T) {
	f := records(t, []string{"s"}, []any{"x"}, []any{"y"})
	d := fit(t, Config{Strategy: MostFrequent, CategoricalFillValue: "unknown"}, f)
	assert.Equal(t, []any{"unknown"}, d.Statistics())
}

func TestFitConstantNonRealFillOnNumericTable(t *testing.T) {
	m := dense(t, [][]float64{{1, nan}, {3, 4}})
	_, err := New(Config{Strategy: Constant, FillValue: "abc"}).Fit(context.Background(), m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "fill_value")
}

func TestFitConstant(t *testing.T) {
	m := dense(t, [][]float64{{1, nan}, {nan, nan}})
	d := fit(t, Config{Strategy: Constant, FillValue: 7}, m)
	assert.Equal(t, []any{7.0, 7.0}, d.Statistics())

	d = fit(t, Config{Strategy: Constant}, m)
	assert.Equal(t, []any{0.0, 0.0}, d.Statistics())

	f := records(t, []string{"s", "b"}, []any{"a", true}, []any{nil, false})
	d = fit(t, Config{Strategy: Constant}, f)
	// bool columns are not categorical and keep the resolved fill
	assert.Equal(t, []any{-1.0, DefaultMissingFill}, d.Statistics())
}

func TestFitMedian(t *testing.T) {
	m := dense(t, [][]float64{{1, 1}, {nan, 2}, {5, 3}, {2, 4}})
	d := fit(t, Config{Strategy: Median}, m)
	assert.Equal(t, []any{2.0, 2.5}, d.Statistics())
}

func TestFitAllMissingColumnYieldsNaN(t *testing.T) {
	m := dense(t, [][]float64{{nan, 1}, {nan, 3}})
	d := fit(t, Config{}, m)
	stats := d.Statistics()
	require.Len(t, stats, 2)
	assert.True(t, table.IsNaN(stats[0]))
	assert.Equal(t, 2.0, stats[1])
}

func TestFitValidation(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		cfg  Config
		tbl  table.Table
		want error
	}{
		{"nil table", Config{}, nil, ErrValidation},
		{"empty table", Config{}, dense(t, nil), ErrValidation},
		{"zero rows", Config{}, table.NewFrame(table.Schema{Columns: []table.ColumnSchema{{Name: "x", Type: table.KindFloat}}}), ErrValidation},
		{"mean on strings", Config{Strategy: Mean}, records(t, []string{"s"}, []any{"a"}), ErrValidation},
		{"median on times", Config{Strategy: Median}, records(t, []string{"t"}, []any{time.Unix(0, 0)}), ErrValidation},
		{"mean on mixed values", Config{Strategy: Mean}, records(t, []string{"a"}, []any{1}, []any{"x"}), ErrValidation},
		{"string sentinel on numeric table", Config{MissingValues: "?"}, dense(t, [][]float64{{1}}), ErrValidation},
		{"unknown strategy", Config{Strategy: "mode"}, dense(t, [][]float64{{1}}), ErrInvalidConfiguration},
		{"zero sentinel on sparse", Config{MissingValues: 0}, sparseRows(t, [][]float64{{1, 0}, {0, 2}}), ErrUnsupportedOperation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := New(tc.cfg).Fit(ctx, tc.tbl)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFitFailureBeforeStatisticsLeavesStateUntouched(t *testing.T) {
	imp := New(Config{Strategy: Mean})
	_, err := imp.Fit(context.Background(), dense(t, [][]float64{{1, 2}, {3, 4}}))
	require.NoError(t, err)

	_, err = imp.Fit(context.Background(), records(t, []string{"s"}, []any{"a"}))
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []any{2.0, 3.0}, imp.Statistics())
	assert.True(t, imp.Fitted())
}

func TestFitPartialState(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	f := records(t, []string{"n", "t"},
		[]any{1, ts},
		[]any{1, ts},
		[]any{2, nil},
	)
	imp := New(Config{Strategy: MostFrequent})
	d, err := imp.Fit(context.Background(), f)
	require.Error(t, err)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrPartialState)
	assert.True(t, errors.Is(err, ErrUnsupportedElement))

	assert.Equal(t, []any{int64(1), ts}, imp.Statistics())
	assert.False(t, imp.Fitted())

	_, err = imp.Transform(context.Background(), f)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestFitCategoricalMaskIgnoresSentinel(t *testing.T) {
	f := records(t, []string{"a"}, []any{1}, []any{2}, []any{"?"})
	d := fit(t, Config{Strategy: MostFrequent, MissingValues: "?"}, f)
	assert.Equal(t, []bool{true}, d.Categorical())
	assert.Equal(t, []any{-1.0}, d.Statistics())
}

func TestFitNaNSentinelFromText(t *testing.T) {
	m := dense(t, [][]float64{{1}, {nan}, {3}})
	d := fit(t, Config{MissingValues: "NaN"}, m)
	assert.Equal(t, []any{2.0}, d.Statistics())
}

func TestFitIsIdempotent(t *testing.T) {
	mixed := records(t, []string{"x", "s"},
		[]any{1.5, "a"},
		[]any{nil, "b"},
		[]any{1.5, nil},
		[]any{4.0, "b"},
	)
	numeric := records(t, []string{"x"}, []any{1.5}, []any{nil}, []any{4.0})
	for _, s := range Strategies {
		t.Run(string(s), func(t *testing.T) {
			f := mixed
			if s == Mean || s == Median {
				f = numeric
			}
			imp := New(Config{Strategy: s})
			first, err := imp.Fit(context.Background(), f)
			require.NoError(t, err)
			a := first.Statistics()
			second, err := imp.Fit(context.Background(), f)
			require.NoError(t, err)
			assert.Equal(t, a, second.Statistics())
			_, cols := f.Dims()
			assert.Len(t, a, cols)
		})
	}
}

func TestFitWithIndicator(t *testing.T) {
	m := dense(t, [][]float64{{1, 2}, {nan, 4}, {3, 6}})
	d := fit(t, Config{AddIndicator: true}, m)
	require.NotNil(t, d.Indicator())
	assert.Equal(t, []int{0}, d.Indicator().FeatureIndices())
}

func TestFitSparse(t *testing.T) {
	s := sparseRows(t, [][]float64{
		{1, 0},
		{nan, 3},
		{0, 0},
		{1, 0},
		{0, 5},
	})
	t.Run("mean counts implicit zeros", func(t *testing.T) {
		d := fit(t, Config{Strategy: Mean}, s)
		assert.Equal(t, []any{0.5, 1.6}, d.Statistics())
	})
	t.Run("median", func(t *testing.T) {
		d := fit(t, Config{Strategy: Median}, s)
		assert.Equal(t, []any{0.5, 0.0}, d.Statistics())
	})
	t.Run("most frequent prefers zero on ties", func(t *testing.T) {
		d := fit(t, Config{Strategy: MostFrequent}, s)
		assert.Equal(t, []any{0.0, 0.0}, d.Statistics())
	})
	t.Run("negative sentinel", func(t *testing.T) {
		neg := sparseRows(t, [][]float64{{-1}, {4}, {0}})
		d := fit(t, Config{Strategy: Mean, MissingValues: -1}, neg)
		assert.Equal(t, []any{2.0}, d.Statistics())
	})
}

type fixedStats struct{ out []any }

func (f fixedStats) DenseFit(context.Context, table.Table, Strategy, any, any) ([]any, error) {
	return f.out, nil
}

func (f fixedStats) SparseFit(context.Context, table.SparseTable, Strategy, any, any) ([]any, error) {
	return f.out, nil
}

func TestOptions(t *testing.T) {
	m := dense(t, [][]float64{{1, 2}, {3, 4}})

	t.Run("statistic computer", func(t *testing.T) {
		d := fit(t, Config{}, m, WithStatisticComputer(fixedStats{out: []any{9.0, 8.0}}))
		assert.Equal(t, []any{9.0, 8.0}, d.Statistics())

		_, err := New(Config{}, WithStatisticComputer(fixedStats{out: []any{1.0}})).Fit(context.Background(), m)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("categorical predicate", func(t *testing.T) {
		all := func([]any) (bool, error) { return true, nil }
		d := fit(t, Config{CategoricalFillValue: 0}, m, WithCategoricalPredicate(all))
		assert.Equal(t, []any{0.0, 0.0}, d.Statistics())
	})

	t.Run("numeric kinds", func(t *testing.T) {
		none := func(table.Kind) bool { return false }
		d := fit(t, Config{MissingValues: "?"}, m, WithNumericKinds(none))
		assert.Equal(t, []any{2.0, 3.0}, d.Statistics())
	})

	t.Run("logger", func(t *testing.T) {
		var buf bytes.Buffer
		l := slogJSON(&buf)
		fit(t, Config{Verbose: 1}, m, WithLogger(l))
		assert.Contains(t, buf.String(), `"msg":"imputer fitted"`)
		assert.Contains(t, buf.String(), `"msg":"column fitted"`)
		assert.Contains(t, buf.String(), `"column":"x1"`)
	})
}

func TestFitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, tbl := range map[string]table.Table{
		"dense":  dense(t, [][]float64{{1}}),
		"sparse": sparseRows(t, [][]float64{{1}}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(Config{}).Fit(ctx, tbl)
			assert.ErrorIs(t, err, context.Canceled)
			assert.ErrorIs(t, err, ErrCanceled)
			var e *Error
			assert.ErrorAs(t, err, &e)
		})
	}
}

type failingStats struct{ err error }

func (f failingStats) DenseFit(context.Context, table.Table, Strategy, any, any) ([]any, error) {
	return nil, f.err
}

func (f failingStats) SparseFit(context.Context, table.SparseTable, Strategy, any, any) ([]any, error) {
	return nil, f.err
}

func TestFitWrapsComputerErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(Config{}, WithStatisticComputer(failingStats{err: boom})).Fit(context.Background(), dense(t, [][]float64{{1}}))
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFitCopiesComputerStatistics(t *testing.T) {
	f := records(t, []string{"s", "n"}, []any{"a", 1.0}, []any{"b", 2.0})
	shared := []any{"a", 1.0}
	d := fit(t, Config{Strategy: MostFrequent}, f, WithStatisticComputer(fixedStats{out: shared}))
	assert.Equal(t, []any{-1.0, 1.0}, d.Statistics())
	assert.Equal(t, []any{"a", 1.0}, shared)
}

func TestFitRejectsNaNWithNonNaNSentinel(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		tbl  table.Table
	}{
		{"null cell", records(t, []string{"x", "y"},
			[]any{1.0, 1.0},
			[]any{nil, 2.0},
			[]any{-1.0, 3.0},
			[]any{5.0, -1.0},
		)},
		{"dense NaN", dense(t, [][]float64{{1}, {nan}, {-1}})},
		{"dense Inf", dense(t, [][]float64{{1}, {math.Inf(1)}})},
		{"sparse NaN", sparseRows(t, [][]float64{{1}, {nan}, {-1}})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			imp := New(Config{Strategy: Mean, MissingValues: -1})
			_, err := imp.Fit(ctx, tc.tbl)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), "x")
			assert.False(t, imp.Fitted())
		})
	}
}

func TestFitAcceptsBoolFillOnNumericTable(t *testing.T) {
	m := dense(t, [][]float64{{1, nan}, {3, 4}})
	d := fit(t, Config{Strategy: Constant, FillValue: true}, m)
	assert.Equal(t, []any{true, true}, d.Statistics())
}

func TestFitMostFrequentMergesNumberWidths(t *testing.T) {
	f := records(t, []string{"a"}, []any{int64(1)}, []any{1.0}, []any{2.0}, []any{"z"})
	// mixed column is categorical, so check the raw statistic directly
	got, err := BaseStatistics{}.DenseFit(context.Background(), f, MostFrequent, nan, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1)}, got)
}

func slogJSON(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
