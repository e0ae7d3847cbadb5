package csvio

import (
	"encoding/csv"

	iox "github.com/wdm0006/dtimpute/pkg/io/ioutils"
	"github.com/wdm0006/dtimpute/pkg/table"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a Frame to a CSV file with headers. Nulls are written as
// empty cells; a ".gz" path is gzip compressed and "-" writes to stdout.
func WriteAll(path string, f *table.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}

	rows, cols := f.Dims()
	if err := w.Write(table.ColumnNames(f)); err != nil {
		_ = out.Close()
		return err
	}
	row := make([]string, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			col := f.Column(c)
			if col.IsNull(r) {
				row[c] = ""
				continue
			}
			row[c] = table.FormatValue(col.Value(r))
		}
		if err := w.Write(row); err != nil {
			_ = out.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
