package parquetio

import (
	"encoding/json"
	"fmt"
	"math"

	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/wdm0006/dtimpute/pkg/table"
)

func parquetSchemaJSON(s table.Schema) string {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case table.KindFloat:
			tag += "DOUBLE"
		case table.KindInt:
			tag += "INT64"
		case table.KindUint:
			tag += "INT64, convertedtype=UINT_64"
		case table.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// WriteAll writes a Frame to a Parquet file using the parquet-go JSONWriter.
// Time and mixed columns are stored as text; NaN floats are stored as null.
func WriteAll(path string, f *table.Frame) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	writer, err := pw.NewJSONWriter(parquetSchemaJSON(f.Schema()), fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	rows, cols := f.Dims()
	for r := 0; r < rows; r++ {
		rec := make(map[string]any, cols)
		for c := 0; c < cols; c++ {
			col := f.Column(c)
			if col.IsNull(r) {
				continue
			}
			switch v := col.Value(r).(type) {
			case float64:
				if !math.IsNaN(v) && !math.IsInf(v, 0) {
					rec[col.Name()] = v
				}
			case int64, uint64, bool:
				rec[col.Name()] = v
			default:
				rec[col.Name()] = table.FormatValue(v)
			}
		}
		b, err := json.Marshal(rec)
		if err != nil {
			_ = fw.Close()
			return fmt.Errorf("parquet encode row %d: %w", r, err)
		}
		if err := writer.Write(string(b)); err != nil {
			_ = fw.Close()
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	if err := writer.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet finish: %w", err)
	}
	return fw.Close()
}
