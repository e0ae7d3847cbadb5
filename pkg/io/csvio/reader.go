package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	iox "github.com/wdm0006/dtimpute/pkg/io/ioutils"
	"github.com/wdm0006/dtimpute/pkg/table"
)

// DefaultNAValues are the cells read as null when ReaderOptions.NAValues is nil.
var DefaultNAValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL"}

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records
	// NAValues lists cell texts read as null. nil selects DefaultNAValues.
	NAValues []string
}

type Reader struct {
	r   *csv.Reader
	rc  io.Closer
	opt ReaderOptions
	na  map[string]bool
	buf [][]string
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// Open opens a CSV file, gzip or plain, or stdin for "-".
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	r := NewReaderFrom(rc, opt)
	r.rc = rc
	if opt.Delimiter == 0 && path != "-" && path != "" {
		if d, lazy, err := sniffDelimiterAndQuotes(path); err == nil && d != 0 {
			r.r.Comma = d
			r.r.LazyQuotes = lazy
		}
	}
	return r, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(rd io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(rd)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	na := opt.NAValues
	if na == nil {
		na = DefaultNAValues
	}
	r := &Reader{r: rr, opt: opt, na: make(map[string]bool, len(na))}
	for _, v := range na {
		r.na[v] = true
	}
	return r
}

func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	return r.rc.Close()
}

// InferSchema reads header (if present) and samples rows to determine column kinds.
func (r *Reader) InferSchema() (table.Schema, []string, error) {
	var names []string
	rec, err := r.r.Read()
	if err != nil {
		return table.Schema{}, nil, err
	}
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.ToValidUTF8(rec[i], "?")
		}
		// strip BOM on first header cell if present
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
		rec, err = r.r.Read()
		if err == io.EOF {
			return r.schema(names, nil), names, nil
		}
		if err != nil {
			return table.Schema{}, nil, err
		}
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	sample := [][]string{copyRecord(rec)}
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for i := 1; i < max; i++ {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return table.Schema{}, nil, err
		}
		sample = append(sample, copyRecord(rr))
	}
	// retain sampled rows for subsequent ReadAll
	r.buf = append(r.buf, sample...)
	return r.schema(names, sample), names, nil
}

func (r *Reader) schema(names []string, sample [][]string) table.Schema {
	schema := table.Schema{Columns: make([]table.ColumnSchema, len(names))}
	for c := range names {
		vals := make([]string, 0, len(sample))
		for _, row := range sample {
			if c < len(row) && !r.na[strings.TrimSpace(row[c])] {
				vals = append(vals, row[c])
			}
		}
		schema.Columns[c] = table.ColumnSchema{Name: names[c], Type: table.InferKindFromStrings(vals), Nullable: true}
	}
	return schema
}

// ReadAll loads the rest of the CSV into a Frame. A cell that does not parse
// as its column kind widens the column to KindAny and is kept as text.
func (r *Reader) ReadAll(schema table.Schema) (*table.Frame, error) {
	f := table.NewFrame(schema)
	// drain buffered records from inference (if any)
	for len(r.buf) > 0 {
		rec := r.buf[0]
		r.buf = r.buf[1:]
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) appendRecord(f *table.Frame, schema table.Schema, rec []string) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	if len(rec) > len(schema.Columns) {
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv long record at row %d: need %d fields, got %d", row, len(schema.Columns), len(rec))
		}
	}
	for i := range schema.Columns {
		if i >= len(rec) {
			r.shortRecords++
			if r.opt.Strict {
				return fmt.Errorf("csv short record at row %d: need %d fields, got %d", row, len(schema.Columns), len(rec))
			}
			break
		}
		val := strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		if val == "" || r.na[val] {
			continue
		}
		col := f.Column(i)
		v, ok := table.ParseCell(col.Kind(), val)
		if !ok {
			col = f.WidenColumn(i)
			v, _ = table.ParseCell(table.KindAny, val)
		}
		if err := col.SetValue(row, v); err != nil {
			return err
		}
	}
	return nil
}

func copyRecord(rec []string) []string { return append([]string(nil), rec...) }

// sniffDelimiterAndQuotes peeks at the file head to guess the delimiter.
func sniffDelimiterAndQuotes(path string) (rune, bool, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = rc.Close() }()
	br := bufio.NewReader(rc)
	sample, _ := br.Peek(4096)
	if len(sample) == 0 {
		return ',', false, nil
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	// unbalanced quotes in the sample usually mean bare quotes inside fields
	quoteCount := 0
	for _, b := range sample {
		if b == '"' {
			quoteCount++
		}
	}
	return rune(best), quoteCount%2 != 0, nil
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
