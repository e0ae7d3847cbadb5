package impute

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{[]float64{3}, 3},
		{[]float64{4, 1, 3}, 3},
		{[]float64{4, 1, 3, 2}, 2.5},
		{[]float64{-1, -1}, -1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, median(tc.in), "%v", tc.in)
	}
	assert.True(t, math.IsNaN(median(nil)))
	assert.True(t, math.IsNaN(median([]float64{1, math.NaN()})))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, mean([]float64{1, 2, 3}))
	assert.True(t, math.IsNaN(mean(nil)))
}

func TestMostFrequent(t *testing.T) {
	cases := []struct {
		name   string
		vals   []any
		extra  any
		nExtra int
		want   any
	}{
		{"single mode", []any{1.0, 2.0, 2.0}, nil, 0, 2.0},
		{"tie takes smallest", []any{3.0, 1.0, 3.0, 1.0}, nil, 0, 1.0},
		{"strings", []any{"b", "a", "b"}, nil, 0, "b"},
		{"string tie", []any{"b", "a"}, nil, 0, "a"},
		{"numbers before strings", []any{"a", 5.0}, nil, 0, 5.0},
		{"extra wins on count", []any{1.0, 1.0}, 0.0, 3, 0.0},
		{"extra wins tie when smaller", []any{1.0, 1.0}, 0.0, 2, 0.0},
		{"extra loses tie when larger", []any{-2.0, -2.0}, 0.0, 2, -2.0},
		{"only extra", nil, 0.0, 4, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mostFrequent(tc.vals, tc.extra, tc.nExtra))
		})
	}
	assert.True(t, math.IsNaN(mostFrequent(nil, nil, 0).(float64)))
}

func TestToFloatsRejectsText(t *testing.T) {
	_, err := toFloats([]any{1, "x"}, "c")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	xs, err := toFloats([]any{int64(1), uint8(2), true}, "c")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 1}, xs)
}

func TestIsCategorical(t *testing.T) {
	cases := []struct {
		name string
		in   []any
		want bool
	}{
		{"empty", nil, false},
		{"numbers", []any{1, 2.5, int64(3)}, false},
		{"bools", []any{true, false}, false},
		{"strings", []any{"a"}, true},
		{"mixed", []any{1, "a"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IsCategorical(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
	_, err := IsCategorical([]any{time.Now()})
	assert.True(t, errors.Is(err, ErrUnsupportedElement))
}

func TestNormalizeSentinel(t *testing.T) {
	assert.True(t, math.IsNaN(NormalizeSentinel("nan").(float64)))
	assert.True(t, math.IsNaN(NormalizeSentinel(" NaN ").(float64)))
	assert.Equal(t, 0.0, NormalizeSentinel(0))
	assert.Equal(t, -1.0, NormalizeSentinel(int64(-1)))
	assert.Equal(t, "?", NormalizeSentinel("?"))
	assert.Equal(t, true, NormalizeSentinel(true))
	assert.Nil(t, NormalizeSentinel(nil))
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	assert.Equal(t, Mean, c.Strategy)
	assert.True(t, math.IsNaN(c.MissingValues.(float64)))
	assert.Equal(t, -1.0, c.CategoricalFillValue)
	assert.Nil(t, c.FillValue)
	assert.Equal(t, 0.0, c.resolveFill(true))
	assert.Equal(t, DefaultMissingFill, c.resolveFill(false))

	d := DefaultConfig()
	assert.Equal(t, Mean, d.Strategy)
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("boom")
	err := newError(KindPartialState, cause, "column %s", "c")
	assert.ErrorIs(t, err, ErrPartialState)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "impute: column c: boom", err.Error())

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindPartialState, e.Kind)
	assert.Equal(t, "impute: VALIDATION", ErrValidation.Error())
}
