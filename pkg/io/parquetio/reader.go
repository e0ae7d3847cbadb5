// Package parquetio reads Parquet files with segmentio/parquet-go and writes
// them with xitongsys/parquet-go.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	parquet "github.com/segmentio/parquet-go"

	"github.com/wdm0006/dtimpute/pkg/table"
)

type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[map[string]any]
	schema table.Schema
}

// OpenReader infers column kinds from the first sampleRows rows, then
// restarts for a full read. Columns keep the file's field order.
func OpenReader(path string, sampleRows int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("parquet %s: %w", path, err)
	}
	if sampleRows <= 0 {
		sampleRows = 100
	}
	r := parquet.NewGenericReader[map[string]any](pf, pf.Schema())
	rows := newRows(sampleRows)
	n, err := r.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		_ = r.Close()
		_ = f.Close()
		return nil, err
	}
	schema := inferSchema(fieldNames(pf), rows[:n])
	// segmentio readers can't unread, so start over
	if err := r.Close(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Reader{file: f, reader: parquet.NewGenericReader[map[string]any](pf, pf.Schema()), schema: schema}, nil
}

func (r *Reader) Close() error {
	_ = r.reader.Close()
	return r.file.Close()
}

func (r *Reader) Schema() table.Schema { return r.schema }

func (r *Reader) ReadAll() (*table.Frame, error) {
	f := table.NewFrame(r.schema)
	buf := newRows(1024)
	for {
		for _, m := range buf {
			clear(m)
		}
		n, err := r.reader.Read(buf)
		for i := 0; i < n; i++ {
			if err := setRow(f, buf[i]); err != nil {
				return nil, err
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return f, nil
}

// newRows allocates non-nil maps; the reader fills existing maps in place.
func newRows(n int) []map[string]any {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = make(map[string]any)
	}
	return rows
}

func fieldNames(pf *parquet.File) []string {
	fields := pf.Schema().Fields()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name()
	}
	return names
}

// inferSchema types the named columns from sampled rows. Keys found only in
// the rows are appended in sorted order.
func inferSchema(names []string, rows []map[string]any) table.Schema {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	var extra []string
	for _, m := range rows {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	keys := append(append([]string(nil), names...), extra...)
	schema := table.Schema{Columns: make([]table.ColumnSchema, len(keys))}
	for i, k := range keys {
		vals := make([]any, 0, len(rows))
		for _, m := range rows {
			vals = append(vals, normalize(m[k]))
		}
		schema.Columns[i] = table.ColumnSchema{Name: k, Type: table.InferKindFromValues(vals), Nullable: true}
	}
	return schema
}

// normalize maps parquet physical values onto the Go types columns accept.
func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	}
	return v
}

func setRow(f *table.Frame, m map[string]any) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	for j := 0; j < f.Cols(); j++ {
		col := f.Column(j)
		v := normalize(m[col.Name()])
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && col.Kind() != table.KindString && col.Kind() != table.KindAny {
			if strings.TrimSpace(s) == "" {
				continue
			}
			p, ok := table.ParseCell(col.Kind(), strings.TrimSpace(s))
			if !ok {
				col = f.WidenColumn(j)
				p = s
			}
			v = p
		}
		if err := col.SetValue(row, v); err != nil {
			return fmt.Errorf("parquet row %d: %w", row, err)
		}
	}
	return nil
}
