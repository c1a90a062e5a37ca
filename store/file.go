package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CorruptDataError is returned when a data file exists but does not hold a
// well-formed JSON array.
type CorruptDataError struct {
	Path string
	Err  error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data file %s: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

// JSONFile persists a collection as a pretty-printed JSON array.
type JSONFile[T any] struct {
	Path string
}

// NewJSONFile returns a backend bound to path.
func NewJSONFile[T any](path string) *JSONFile[T] {
	return &JSONFile[T]{Path: path}
}

// Load reads the file. A missing file yields an empty collection.
func (f *JSONFile[T]) Load() ([]T, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &CorruptDataError{Path: f.Path, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Persist replaces the file with items. The data is written to a temporary
// file in the same directory, synced and renamed over the target, so readers
// never observe a truncated file.
func (f *JSONFile[T]) Persist(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f.Path, err)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", f.Path, err)
	}
	return nil
}
