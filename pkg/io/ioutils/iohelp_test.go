package ioutils

import (
	"io"
	"path/filepath"
	"testing"
)

func TestGzipRoundTrip(t *testing.T) {
	for _, name := range []string{"plain.txt", "packed.txt.gz"} {
		p := filepath.Join(t.TempDir(), name)
		w, err := CreateMaybeCompressed(p)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, "a,b\n1,2\n"); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		r, err := OpenMaybeCompressed(p)
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != "a,b\n1,2\n" {
			t.Fatalf("%s: got %q", name, b)
		}
	}
}

func TestExt(t *testing.T) {
	cases := map[string]string{
		"data.csv":        "csv",
		"data.CSV.gz":     "csv",
		"dir/x.jsonl":     "jsonl",
		"out.parquet":     "parquet",
		"noext":           "",
		"book.sheet.xlsx": "xlsx",
	}
	for in, want := range cases {
		if got := Ext(in); got != want {
			t.Fatalf("Ext(%q) = %q, want %q", in, got, want)
		}
	}
}
