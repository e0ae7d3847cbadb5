package jsonlio

import (
	"encoding/json"
	"math"

	iox "github.com/wdm0006/dtimpute/pkg/io/ioutils"
	"github.com/wdm0006/dtimpute/pkg/table"
)

// WriteAll writes one JSON object per row. Null cells and NaN floats are
// omitted from the object.
func WriteAll(path string, f *table.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	rows, cols := f.Dims()
	for r := 0; r < rows; r++ {
		m := make(map[string]any, cols)
		for c := 0; c < cols; c++ {
			col := f.Column(c)
			if col.IsNull(r) {
				continue
			}
			v := col.Value(r)
			if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
				continue
			}
			m[col.Name()] = v
		}
		if err := enc.Encode(m); err != nil {
			_ = out.Close()
			return err
		}
	}
	return out.Close()
}
