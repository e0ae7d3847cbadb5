// Package ioutils opens and creates data files, transparently handling gzip
// and the "-" stdin/stdout convention.
package ioutils

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OpenMaybeCompressed opens a file path or stdin ("-") and returns a reader.
// If the input appears to be gzip (by extension or magic), it wraps with gzip.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return wrapGzip(bufio.NewReader(os.Stdin), func() error { return nil })
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return wrapGzip(bufio.NewReader(f), f.Close)
}

func wrapGzip(br *bufio.Reader, closeFn func() error) (io.ReadCloser, error) {
	b, err := br.Peek(2)
	if err == nil && b[0] == 0x1f && b[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = closeFn()
			return nil, err
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return closeFn() }}, nil
	}
	return readCloser{Reader: br, closeFn: closeFn}, nil
}

// CreateMaybeCompressed creates a file (or stdout if path is "-") and
// returns a writer. If the path ends in .gz, the writer is gzip compressed.
// Close flushes buffered output and reports the first error.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return &writeCloser{bw: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		zw := gzip.NewWriter(bw)
		return &writeCloser{w: zw, bw: bw, closers: []func() error{zw.Close, bw.Flush, f.Close}}, nil
	}
	return &writeCloser{bw: bw, closers: []func() error{bw.Flush, f.Close}}, nil
}

// Ext returns the lower-cased data extension of path, ignoring a trailing ".gz".
func Ext(path string) string {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, ".gz")
	return strings.TrimPrefix(filepath.Ext(p), ".")
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error { return r.closeFn() }

type writeCloser struct {
	w       io.Writer
	bw      *bufio.Writer
	closers []func() error
}

func (w *writeCloser) Write(p []byte) (int, error) {
	if w.w != nil {
		return w.w.Write(p)
	}
	return w.bw.Write(p)
}

func (w *writeCloser) Close() error {
	if w.closers == nil {
		return w.bw.Flush()
	}
	var first error
	for _, c := range w.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
