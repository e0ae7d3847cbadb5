package xlsxio

import (
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/wdm0006/dtimpute/pkg/table"
)

// WriteAll writes f to the first sheet of a new workbook, header row first.
// Nulls are left as empty cells.
func WriteAll(path string, f *table.Frame) error {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()
	sheet := wb.GetSheetName(0)
	rows, cols := f.Dims()
	header := make([]any, cols)
	for c := 0; c < cols; c++ {
		header[c] = f.ColumnName(c)
	}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for r := 0; r < rows; r++ {
		vals := make([]any, cols)
		for c := 0; c < cols; c++ {
			col := f.Column(c)
			if col.IsNull(r) {
				continue
			}
			switch v := col.Value(r).(type) {
			case float64:
				if !math.IsNaN(v) {
					vals[c] = v
				}
			case int64, uint64, bool, string:
				vals[c] = v
			default:
				vals[c] = table.FormatValue(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &vals); err != nil {
			return err
		}
	}
	return wb.SaveAs(path)
}
