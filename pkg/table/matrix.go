package table

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Matrix exposes a dense gonum matrix as a float Table.
type Matrix struct {
	m     mat.Matrix
	names []string
}

// NewMatrix wraps m. Missing names default to x0, x1, ...
func NewMatrix(m mat.Matrix, names ...string) *Matrix {
	_, c := m.Dims()
	return &Matrix{m: m, names: defaultNames(c, names)}
}

// NewMatrixFromRows copies row-major data into a dense matrix. Every row
// must have the width of the first.
func NewMatrixFromRows(rows [][]float64, names ...string) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return &Matrix{m: &mat.Dense{}, names: defaultNames(0, names)}, nil
	}
	c, err := rowWidth(rows)
	if err != nil {
		return nil, err
	}
	data := make([]float64, 0, len(rows)*c)
	for _, r := range rows {
		data = append(data, r...)
	}
	return NewMatrix(mat.NewDense(len(rows), c, data), names...), nil
}

func rowWidth(rows [][]float64) (int, error) {
	c := len(rows[0])
	for i, r := range rows {
		if len(r) != c {
			return 0, fmt.Errorf("row %d has %d values, want %d", i, len(r), c)
		}
	}
	return c, nil
}

func (m *Matrix) Dims() (int, int)        { return m.m.Dims() }
func (m *Matrix) At(i, j int) any         { return m.m.At(i, j) }
func (m *Matrix) ColumnKind(int) Kind     { return KindFloat }
func (m *Matrix) ColumnName(j int) string { return m.names[j] }

// Raw returns the wrapped matrix.
func (m *Matrix) Raw() mat.Matrix { return m.m }

func defaultNames(n int, names []string) []string {
	out := make([]string, n)
	for j := range out {
		if j < len(names) && names[j] != "" {
			out[j] = names[j]
		} else {
			out[j] = "x" + strconv.Itoa(j)
		}
	}
	return out
}
