// Package xlsxio reads and writes Excel workbooks with excelize.
package xlsxio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wdm0006/dtimpute/pkg/table"
)

type ReaderOptions struct {
	Sheet     string // default: first sheet
	HasHeader bool
	// NAValues lists cell texts read as null. nil selects the csvio defaults.
	NAValues []string
}

var defaultNAValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "#N/A"}

// ReadAll loads one sheet into a Frame. Cell kinds are inferred from the
// whole sheet.
func ReadAll(path string, opt ReaderOptions) (*table.Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wb.Close() }()
	sheet := opt.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx %s: no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx %s: %w", path, err)
	}
	na := opt.NAValues
	if na == nil {
		na = defaultNAValues
	}
	isNA := make(map[string]bool, len(na))
	for _, v := range na {
		isNA[v] = true
	}

	ncol := 0
	for _, r := range rows {
		ncol = max(ncol, len(r))
	}
	var names []string
	if opt.HasHeader && len(rows) > 0 {
		names = make([]string, ncol)
		for i := range names {
			if i < len(rows[0]) && strings.TrimSpace(rows[0][i]) != "" {
				names[i] = strings.TrimSpace(rows[0][i])
			} else {
				names[i] = "col_" + strconv.Itoa(i)
			}
		}
		rows = rows[1:]
	} else {
		names = make([]string, ncol)
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	schema := table.Schema{Columns: make([]table.ColumnSchema, ncol)}
	for c := 0; c < ncol; c++ {
		vals := make([]string, 0, len(rows))
		for _, r := range rows {
			if c < len(r) && !isNA[strings.TrimSpace(r[c])] {
				vals = append(vals, r[c])
			}
		}
		schema.Columns[c] = table.ColumnSchema{Name: names[c], Type: table.InferKindFromStrings(vals), Nullable: true}
	}
	f := table.NewFrame(schema)
	for i, r := range rows {
		f.AppendNullRow()
		for c := 0; c < ncol && c < len(r); c++ {
			val := strings.TrimSpace(r[c])
			if isNA[val] {
				continue
			}
			if v, ok := table.ParseCell(schema.Columns[c].Type, val); ok {
				if err := f.Column(c).SetValue(i, v); err != nil {
					return nil, err
				}
			}
		}
	}
	return f, nil
}
