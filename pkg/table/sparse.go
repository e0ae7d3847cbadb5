package table

import (
	"github.com/james-bowman/sparse"
)

// Sparse exposes a compressed sparse column matrix as a float Table.
// Stored entries are indexed per column once, at construction.
type Sparse struct {
	m     *sparse.CSC
	names []string
	rows  [][]int
	vals  [][]float64
}

// NewSparse wraps m.
func NewSparse(m *sparse.CSC, names ...string) *Sparse {
	r, c := m.Dims()
	s := &Sparse{m: m, names: defaultNames(c, names), rows: make([][]int, c), vals: make([][]float64, c)}
	if r == 0 {
		return s
	}
	m.DoNonZero(func(i, j int, v float64) {
		s.rows[j] = append(s.rows[j], i)
		s.vals[j] = append(s.vals[j], v)
	})
	return s
}

// NewSparseFromRows builds a CSC matrix from row-major data, storing only
// non-zero cells. NaN cells are stored. Every row must have the width of
// the first.
func NewSparseFromRows(rows [][]float64, names ...string) (*Sparse, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return &Sparse{m: sparse.NewCSC(0, 0, []int{0}, nil, nil), names: defaultNames(0, names)}, nil
	}
	c, err := rowWidth(rows)
	if err != nil {
		return nil, err
	}
	dok := sparse.NewDOK(len(rows), c)
	for i, r := range rows {
		for j, v := range r {
			if v != 0 {
				dok.Set(i, j, v)
			}
		}
	}
	return NewSparse(dok.ToCSC(), names...), nil
}

// Triplet is one stored entry of a sparse matrix.
type Triplet struct {
	I, J int
	V    float64
}

// NewSparseFromTriplets builds an r x c matrix from stored entries.
func NewSparseFromTriplets(r, c int, ts []Triplet, names ...string) *Sparse {
	if r == 0 || c == 0 {
		return &Sparse{m: sparse.NewCSC(0, 0, []int{0}, nil, nil), names: defaultNames(0, names)}
	}
	dok := sparse.NewDOK(r, c)
	for _, t := range ts {
		dok.Set(t.I, t.J, t.V)
	}
	return NewSparse(dok.ToCSC(), names...)
}

func (s *Sparse) Dims() (int, int) {
	if len(s.names) == 0 {
		return 0, 0
	}
	return s.m.Dims()
}
func (s *Sparse) At(i, j int) any         { return s.m.At(i, j) }
func (s *Sparse) ColumnKind(int) Kind     { return KindFloat }
func (s *Sparse) ColumnName(j int) string { return s.names[j] }

func (s *Sparse) ColumnNonZero(j int) ([]int, []float64) { return s.rows[j], s.vals[j] }

// NNZ is the number of stored entries.
func (s *Sparse) NNZ() int { return s.m.NNZ() }

// Raw returns the wrapped matrix.
func (s *Sparse) Raw() *sparse.CSC { return s.m }
