// Package storage owns the binary assets attached to records: it writes them
// to a backend, derives their public URLs and removes them again.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when no object exists under a name.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidName is returned for names that do not reduce to a plain
	// file name (empty, ".", "..", "/").
	ErrInvalidName = errors.New("invalid file name")
)

// Object is an opened stored asset. Body must be closed by the caller.
type Object struct {
	Name    string
	Size    int64
	ModTime time.Time
	Body    io.ReadSeekCloser
}

// Backend is the place where asset bytes live. Names passed to a Backend are
// already sanitized base names.
type Backend interface {
	// Put stores r under name. size is -1 when unknown.
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	// Open returns the object or ErrNotFound.
	Open(ctx context.Context, name string) (*Object, error)
	// Exists reports whether name is stored.
	Exists(ctx context.Context, name string) (bool, error)
	// Delete removes name; it returns ErrNotFound when absent.
	Delete(ctx context.Context, name string) error
}
