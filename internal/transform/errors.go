package transform

import (
	"errors"
	"fmt"

	"curfmt/internal/iox"
)

// Kind classifies a per-file failure.
type Kind string

const (
	KindNotFound Kind = "not_found"
	KindIO       Kind = "io"
	KindEmpty    Kind = "empty"
	KindConfig   Kind = "config"
	KindCanceled Kind = "canceled"
)

// FileError is returned by File. A failed file never aborts a batch.
type FileError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

func fileErr(path string, kind Kind, err error) *FileError {
	if errors.Is(err, iox.ErrNotFound) {
		kind = KindNotFound
	}
	return &FileError{Path: path, Kind: kind, Err: err}
}

// KindOf returns the Kind carried by err, or KindIO for foreign errors.
func KindOf(err error) Kind {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindIO
}
