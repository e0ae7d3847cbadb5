package impute

import (
	"github.com/wdm0006/dtimpute/pkg/table"
)

// IndicatorFeatures selects which columns get an indicator.
type IndicatorFeatures string

const (
	// MissingOnly keeps columns that had missing values during fit.
	MissingOnly IndicatorFeatures = "missing-only"
	AllFeatures IndicatorFeatures = "all"
)

// IndicatorPrefix is prepended to source column names in Transform output.
const IndicatorPrefix = "missingindicator_"

// MissingIndicator records which cells hold the missing sentinel.
type MissingIndicator struct {
	MissingValues any
	Features      IndicatorFeatures
	// ErrorOnNew fails Transform when a column outside the fitted features
	// has missing values. Only applies to MissingOnly.
	ErrorOnNew bool

	features []int
	nCols    int
	fitted   bool
}

// NewMissingIndicator returns an indicator with MissingOnly features and
// ErrorOnNew set.
func NewMissingIndicator(missing any) *MissingIndicator {
	return &MissingIndicator{MissingValues: NormalizeSentinel(missing), Features: MissingOnly, ErrorOnNew: true}
}

// Fit records the feature columns. It returns the indicator for chaining.
func (m *MissingIndicator) Fit(t table.Table) (*MissingIndicator, error) {
	if err := m.check(t); err != nil {
		return nil, err
	}
	mask := missingMask(t, m.MissingValues)
	_, cols := t.Dims()
	m.features = m.features[:0]
	for j := 0; j < cols; j++ {
		if m.Features == AllFeatures || anyTrue(mask[j]) {
			m.features = append(m.features, j)
		}
	}
	m.nCols = cols
	m.fitted = true
	return m, nil
}

// FeatureIndices returns the fitted feature columns.
func (m *MissingIndicator) FeatureIndices() []int {
	return append([]int(nil), m.features...)
}

// Transform returns one bool column per fitted feature, true where the
// source cell is missing.
func (m *MissingIndicator) Transform(t table.Table) (*table.Frame, error) {
	if !m.fitted {
		return nil, &Error{Kind: KindNotFitted, Message: "missing indicator is not fitted"}
	}
	if err := m.check(t); err != nil {
		return nil, err
	}
	rows, cols := t.Dims()
	if cols != m.nCols {
		return nil, validationError("table has %d columns, indicator was fitted on %d", cols, m.nCols)
	}
	mask := missingMask(t, m.MissingValues)
	if m.Features == MissingOnly && m.ErrorOnNew {
		fitted := make(map[int]bool, len(m.features))
		for _, j := range m.features {
			fitted[j] = true
		}
		for j := 0; j < cols; j++ {
			if !fitted[j] && anyTrue(mask[j]) {
				return nil, validationError("column %s has missing values in transform but not in fit", t.ColumnName(j))
			}
		}
	}
	out := table.NewFrame(table.Schema{})
	for i := 0; i < rows; i++ {
		out.AppendNullRow()
	}
	for _, j := range m.features {
		c := table.NewBoolColumn(IndicatorPrefix+t.ColumnName(j), rows)
		for i := 0; i < rows; i++ {
			c.Set(i, mask[j][i])
		}
		if err := out.AddColumn(c, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *MissingIndicator) check(t table.Table) error {
	if t == nil {
		return validationError("nil table")
	}
	if m.Features != MissingOnly && m.Features != AllFeatures {
		return configError("features must be %q or %q, got %q", MissingOnly, AllFeatures, m.Features)
	}
	if table.IsSparse(t) && table.IsZero(m.MissingValues) {
		return newError(KindUnsupportedOperation, nil, "sparse input with missing_values == 0 is not supported")
	}
	return nil
}

// missingMask is column-major: mask[j][i] is true when cell (i, j) matches
// the sentinel. Sparse tables only inspect stored entries.
func missingMask(t table.Table, missing any) [][]bool {
	rows, cols := t.Dims()
	mask := make([][]bool, cols)
	sp, sparse := t.(table.SparseTable)
	for j := 0; j < cols; j++ {
		mask[j] = make([]bool, rows)
		if sparse {
			idx, vals := sp.ColumnNonZero(j)
			for k, v := range vals {
				if table.IsMissing(v, missing) {
					mask[j][idx[k]] = true
				}
			}
			continue
		}
		for i := 0; i < rows; i++ {
			mask[j][i] = table.IsMissing(t.At(i, j), missing)
		}
	}
	return mask
}

func anyTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}
