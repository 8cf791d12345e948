// Package iox opens CUR exports for reading and writing, transparently
// handling gzip-compressed ".gz" files.
package iox

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ErrNotFound is matched (errors.Is) by OpenAuto when the input is missing.
var ErrNotFound = errors.New("file not found")

// IsGzip reports whether path names a gzip-compressed file.
func IsGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

func OpenAuto(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	if IsGzip(path) {
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &rc{Reader: gr, Closers: []io.Closer{gr, f}}, nil
	}
	return f, nil
}

// CreateAuto creates or truncates path, making its parent directory if needed.
func CreateAuto(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if IsGzip(path) {
		gw := gzip.NewWriter(f)
		return &wc{Writer: gw, Closers: []io.Closer{gw, f}}, nil
	}
	return f, nil
}

type rc struct {
	io.Reader
	Closers []io.Closer
}

func (r *rc) Close() error {
	var err error
	for i := range r.Closers {
		if e := r.Closers[i].Close(); err == nil && e != nil {
			err = e
		}
	}
	return err
}

type wc struct {
	io.Writer
	Closers []io.Closer
}

func (w *wc) Close() error {
	var err error
	for i := range w.Closers {
		if e := w.Closers[i].Close(); err == nil && e != nil {
			err = e
		}
	}
	return err
}
