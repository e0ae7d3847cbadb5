package impute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/dtimpute/pkg/table"
)

func TestMissingIndicator(t *testing.T) {
	m := dense(t, [][]float64{{1, 2, nan}, {nan, 4, 5}, {3, 6, 7}}, "a", "b", "c")

	t.Run("missing-only", func(t *testing.T) {
		ind, err := NewMissingIndicator(nan).Fit(m)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 2}, ind.FeatureIndices())

		out, err := ind.Transform(m)
		require.NoError(t, err)
		assert.Equal(t, []string{"missingindicator_a", "missingindicator_c"}, table.ColumnNames(out))
		assert.Equal(t, true, out.At(1, 0))
		assert.Equal(t, false, out.At(0, 0))
		assert.Equal(t, true, out.At(0, 1))
	})

	t.Run("all", func(t *testing.T) {
		ind := NewMissingIndicator("nan")
		ind.Features = AllFeatures
		_, err := ind.Fit(m)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, ind.FeatureIndices())
	})

	t.Run("new missing column", func(t *testing.T) {
		ind, err := NewMissingIndicator(nan).Fit(m)
		require.NoError(t, err)
		other := dense(t, [][]float64{{1, nan, 1}}, "a", "b", "c")
		_, err = ind.Transform(other)
		assert.ErrorIs(t, err, ErrValidation)

		ind.ErrorOnNew = false
		out, err := ind.Transform(other)
		require.NoError(t, err)
		assert.Equal(t, 2, out.Cols())
	})

	t.Run("unfitted", func(t *testing.T) {
		_, err := NewMissingIndicator(nan).Transform(m)
		assert.ErrorIs(t, err, ErrNotFitted)
	})

	t.Run("bad features", func(t *testing.T) {
		ind := NewMissingIndicator(nan)
		ind.Features = "some"
		_, err := ind.Fit(m)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("sparse zero sentinel", func(t *testing.T) {
		_, err := NewMissingIndicator(0).Fit(sparseRows(t, [][]float64{{1}}))
		assert.ErrorIs(t, err, ErrUnsupportedOperation)
	})
}
