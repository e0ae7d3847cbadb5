package jsonlio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	iox "github.com/wdm0006/dtimpute/pkg/io/ioutils"
	"github.com/wdm0006/dtimpute/pkg/table"
)

type ReaderOptions struct {
	SampleRows int
	// NAValues lists string values read as null, e.g. "NA".
	NAValues []string
}

type Reader struct {
	dec  *json.Decoder
	rc   io.Closer
	opt  ReaderOptions
	buf  []map[string]any
	keys []string
}

// Open opens a JSON Lines file, gzip or plain, or stdin for "-".
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	r := NewReaderFrom(rc, opt)
	r.rc = rc
	return r, nil
}

func NewReaderFrom(rd io.Reader, opt ReaderOptions) *Reader {
	dec := json.NewDecoder(rd)
	dec.UseNumber()
	return &Reader{dec: dec, opt: opt}
}

func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	return r.rc.Close()
}

// InferSchema samples records and returns one column per key seen, sorted
// by name.
func (r *Reader) InferSchema() (table.Schema, error) {
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	keysSet := map[string]struct{}{}
	for len(r.buf) < max {
		m, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return table.Schema{}, err
		}
		r.buf = append(r.buf, m)
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	r.keys = make([]string, 0, len(keysSet))
	for k := range keysSet {
		r.keys = append(r.keys, k)
	}
	sort.Strings(r.keys)
	schema := table.Schema{Columns: make([]table.ColumnSchema, len(r.keys))}
	for i, k := range r.keys {
		vals := make([]any, 0, len(r.buf))
		for _, m := range r.buf {
			vals = append(vals, m[k])
		}
		schema.Columns[i] = table.ColumnSchema{Name: k, Type: table.InferKindFromValues(vals), Nullable: true}
	}
	return schema, nil
}

func (r *Reader) ReadAll(schema table.Schema) (*table.Frame, error) {
	f := table.NewFrame(schema)
	// drain buffer
	for len(r.buf) > 0 {
		m := r.buf[0]
		r.buf = r.buf[1:]
		if err := setRowFromMap(f, m); err != nil {
			return nil, err
		}
	}
	for {
		m, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := setRowFromMap(f, m); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// next decodes one record with numbers narrowed to int64 or float64 and NA
// strings mapped to nil.
func (r *Reader) next() (map[string]any, error) {
	var m map[string]any
	if err := r.dec.Decode(&m); err != nil {
		return nil, err
	}
	for k, v := range m {
		switch t := v.(type) {
		case json.Number:
			if n, err := t.Int64(); err == nil {
				m[k] = n
			} else if x, err := t.Float64(); err == nil {
				m[k] = x
			}
		case string:
			for _, na := range r.opt.NAValues {
				if strings.TrimSpace(t) == na {
					m[k] = nil
					break
				}
			}
		case map[string]any, []any:
			b, _ := json.Marshal(t)
			m[k] = string(bytes.TrimSpace(b))
		}
	}
	return m, nil
}

func setRowFromMap(f *table.Frame, m map[string]any) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	for j := 0; j < f.Cols(); j++ {
		col := f.Column(j)
		v, ok := m[col.Name()]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && col.Kind() != table.KindString && col.Kind() != table.KindAny {
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
			return fmt.Errorf("jsonl row %d: %w", row, err)
		}
	}
	return nil
}
