package store

import (
	"fmt"
	"sync"
)

// Backend loads and persists a whole collection.
type Backend[T any] interface {
	Load() ([]T, error)
	Persist(items []T) error
}

// Collection is the authoritative in-memory copy of a record set. Every
// mutation runs under the write lock and is persisted before it becomes
// visible, so read-modify-write-persist sequences never interleave.
type Collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	backend Backend[T]
}

// Open loads the collection from its backend.
func Open[T any](backend Backend[T]) (*Collection[T], error) {
	items, err := backend.Load()
	if err != nil {
		return nil, err
	}
	return &Collection[T]{items: items, backend: backend}, nil
}

// Snapshot returns a copy of the current items in insertion order.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// MutateFunc receives a private copy of the items and returns the new items
// and whether anything changed.
type MutateFunc[T any] func(items []T) ([]T, bool, error)

// Mutate applies fn under the write lock. When fn reports a change the new
// items are persisted first; on a persist error the in-memory state is left
// untouched.
func (c *Collection[T]) Mutate(fn MutateFunc[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	working := make([]T, len(c.items))
	copy(working, c.items)

	next, changed, err := fn(working)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := c.backend.Persist(next); err != nil {
		return fmt.Errorf("persisting collection: %w", err)
	}
	c.items = next
	return nil
}
