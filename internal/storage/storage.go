// Package storage persists uploaded document binaries.
package storage

import (
	"context"
	"io"
)

// Stored identifies a saved binary. Path is what Delete takes; Filename is
// what Open takes.
type Stored struct {
	Path     string
	Filename string
}

type Storage interface {
	Save(ctx context.Context, originalName string, content io.Reader) (Stored, error)
	// Open returns apperr NotFound when the file does not exist.
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
	// Delete ignores missing files.
	Delete(ctx context.Context, path string) error
}
