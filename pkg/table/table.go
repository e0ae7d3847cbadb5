package table

// Table is a read-only view of a two-dimensional dataset. Rows are samples,
// columns are features. At returns NaN for null cells.
type Table interface {
	Dims() (rows, cols int)
	At(i, j int) any
	ColumnKind(j int) Kind
	ColumnName(j int) string
}

// SparseTable is a Table with implicit zeros. Only stored entries are
// reported by ColumnNonZero; every other cell reads as 0.
type SparseTable interface {
	Table
	ColumnNonZero(j int) (rows []int, vals []float64)
}

// IsSparse reports whether t uses a sparse representation.
func IsSparse(t Table) bool {
	_, ok := t.(SparseTable)
	return ok
}

// ColumnValues copies column j of t into a slice.
func ColumnValues(t Table, j int) []any {
	rows, _ := t.Dims()
	out := make([]any, rows)
	for i := 0; i < rows; i++ {
		out[i] = t.At(i, j)
	}
	return out
}

// ColumnNames returns the column names of t in order.
func ColumnNames(t Table) []string {
	_, cols := t.Dims()
	out := make([]string, cols)
	for j := range out {
		out[j] = t.ColumnName(j)
	}
	return out
}
