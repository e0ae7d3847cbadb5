package impute

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// StatisticComputer produces one fill statistic per column for a strategy.
// Implementations must return exactly one value per column, in column order.
type StatisticComputer interface {
	DenseFit(ctx context.Context, t table.Table, strategy Strategy, missing, fill any) ([]any, error)
	SparseFit(ctx context.Context, t table.SparseTable, strategy Strategy, missing, fill any) ([]any, error)
}

// BaseStatistics computes mean, median, most_frequent and constant
// statistics. Columns with no usable values get NaN, except under the
// constant strategy.
type BaseStatistics struct{}

var _ StatisticComputer = BaseStatistics{}

func (BaseStatistics) DenseFit(ctx context.Context, t table.Table, strategy Strategy, missing, fill any) ([]any, error) {
	rows, cols := t.Dims()
	out := make([]any, cols)
	for j := 0; j < cols; j++ {
		if err := ctx.Err(); err != nil {
			return nil, newError(KindCanceled, err, "fit canceled at column %s", t.ColumnName(j))
		}
		if strategy == Constant {
			out[j] = fill
			continue
		}
		vals := make([]any, 0, rows)
		for i := 0; i < rows; i++ {
			if v := t.At(i, j); !table.IsMissing(v, missing) {
				vals = append(vals, v)
			}
		}
		switch strategy {
		case Mean, Median:
			xs, err := toFloats(vals, t.ColumnName(j))
			if err != nil {
				return nil, err
			}
			if strategy == Mean {
				out[j] = mean(xs)
			} else {
				out[j] = median(xs)
			}
		case MostFrequent:
			out[j] = mostFrequent(vals, nil, 0)
		default:
			return nil, configError("unknown strategy %q", strategy)
		}
	}
	return out, nil
}

// SparseFit counts implicit zeros as present values. Only stored entries can
// be missing.
func (BaseStatistics) SparseFit(ctx context.Context, t table.SparseTable, strategy Strategy, missing, fill any) ([]any, error) {
	rows, cols := t.Dims()
	out := make([]any, cols)
	for j := 0; j < cols; j++ {
		if err := ctx.Err(); err != nil {
			return nil, newError(KindCanceled, err, "fit canceled at column %s", t.ColumnName(j))
		}
		if strategy == Constant {
			out[j] = fill
			continue
		}
		_, stored := t.ColumnNonZero(j)
		xs := make([]float64, 0, len(stored))
		for _, v := range stored {
			if !table.IsMissing(v, missing) {
				xs = append(xs, v)
			}
		}
		nMissing := len(stored) - len(xs)
		nZeros := rows - len(stored)
		switch strategy {
		case Mean:
			if rows-nMissing == 0 {
				out[j] = math.NaN()
			} else {
				out[j] = floats.Sum(xs) / float64(rows-nMissing)
			}
		case Median:
			out[j] = median(append(xs, make([]float64, nZeros)...))
		case MostFrequent:
			vals := make([]any, len(xs))
			for i, x := range xs {
				vals[i] = x
			}
			out[j] = mostFrequent(vals, 0.0, nZeros)
		default:
			return nil, configError("unknown strategy %q", strategy)
		}
	}
	return out, nil
}

func toFloats(vals []any, column string) ([]float64, error) {
	xs := make([]float64, len(vals))
	for i, v := range vals {
		f, ok := table.ToFloat(v)
		if !ok {
			return nil, validationError("column %s: non-numeric value %v", column, v)
		}
		xs[i] = f
	}
	return xs, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// median averages the two middle values of an even-length sample. Any NaN
// in the sample makes the result NaN.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	for _, x := range xs {
		if math.IsNaN(x) {
			return math.NaN()
		}
	}
	vals := append([]float64(nil), xs...)
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2
	}
	return vals[mid]
}

type nanKey struct{}

// countKey maps equal values to one map key. Numbers of any width count as
// their float64 value; bools stay distinct.
func countKey(v any) any {
	if table.IsNaN(v) {
		return nanKey{}
	}
	if _, ok := v.(bool); !ok {
		if f, ok := table.ToFloat(v); ok {
			return f
		}
	}
	if v != nil && !reflect.TypeOf(v).Comparable() {
		return fmt.Sprintf("%T:%v", v, v)
	}
	return v
}

// mostFrequent returns the most common value, counting extra nExtra more
// times. Ties resolve to the smallest value under table.Less. An empty
// sample yields NaN.
func mostFrequent(vals []any, extra any, nExtra int) any {
	counts := make(map[any]int, len(vals))
	first := make(map[any]any, len(vals))
	for _, v := range vals {
		k := countKey(v)
		if _, ok := first[k]; !ok {
			first[k] = v
		}
		counts[k]++
	}
	var best any = math.NaN()
	bestc := 0
	for k, n := range counts {
		v := first[k]
		if n > bestc || (n == bestc && table.Less(v, best)) {
			best, bestc = v, n
		}
	}
	if nExtra > bestc || (nExtra > 0 && nExtra == bestc && table.Less(extra, best)) {
		return extra
	}
	return best
}
