package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doctrack/backend/internal/apperr"
)

const filePrefix = "documents"

// Local keeps files in a directory on disk.
type Local struct {
	dir string
	now func() time.Time
}

// NewLocal creates dir if it is missing.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Local{dir: abs, now: time.Now}, nil
}

func (l *Local) Dir() string { return l.dir }

// StoredName builds documents-<unix millis>-<random>.<ext> from the original name.
func StoredName(originalName string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%d%s", filePrefix, now.UnixMilli(), rand.Intn(1e9), strings.ToLower(filepath.Ext(originalName)))
}

func (l *Local) Save(_ context.Context, originalName string, content io.Reader) (Stored, error) {
	name := StoredName(originalName, l.now())
	path := filepath.Join(l.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Stored{}, fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return Stored{}, fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return Stored{}, fmt.Errorf("close %s: %w", name, err)
	}
	return Stored{Path: path, Filename: name}, nil
}

func (l *Local) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	clean := filepath.Base(filepath.Clean("/" + filename))
	if clean == "/" || clean == "." || clean != filename {
		return nil, apperr.NotFound("File")
	}
	f, err := os.Open(filepath.Join(l.dir, clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.NotFound("File")
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", clean, err)
	}
	return f, nil
}

func (l *Local) Delete(_ context.Context, path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("remove %s: %w", path, err)
}
