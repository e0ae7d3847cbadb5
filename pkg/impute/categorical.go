package impute

import (
	"errors"
	"fmt"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// CategoricalPredicate classifies a column from its unmasked values.
type CategoricalPredicate func(values []any) (bool, error)

// ErrUnsupportedElement is returned by IsCategorical for values it cannot classify.
var ErrUnsupportedElement = errors.New("unsupported element type")

// IsCategorical treats a column as categorical when any value is a string.
// Numbers and bools are not categorical; any other type is an error.
func IsCategorical(values []any) (bool, error) {
	categorical := false
	for _, v := range values {
		switch v.(type) {
		case string:
			categorical = true
		case bool:
		default:
			if _, ok := table.ToFloat(v); !ok {
				return false, fmt.Errorf("%w: %T", ErrUnsupportedElement, v)
			}
		}
	}
	return categorical, nil
}

// nanMask returns the values of column j that are not NaN, whatever the
// configured missing sentinel is.
func nanMask(t table.Table, j int) []any {
	rows, _ := t.Dims()
	out := make([]any, 0, rows)
	for i := 0; i < rows; i++ {
		if v := t.At(i, j); !table.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
