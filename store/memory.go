package store

import (
	"sync"
)

// Memory is an in-memory Backend. It is used by tests and by tools that need
// a throwaway store.
type Memory[T any] struct {
	mu      sync.Mutex
	items   []T
	writes  int
	failErr error
}

// NewMemory returns a Memory backend seeded with items.
func NewMemory[T any](items ...T) *Memory[T] {
	return &Memory[T]{items: append([]T{}, items...)}
}

func (m *Memory[T]) Load() ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T{}, m.items...), nil
}

func (m *Memory[T]) Persist(items []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.items = append([]T{}, items...)
	m.writes++
	return nil
}

// Writes returns how many successful Persist calls happened.
func (m *Memory[T]) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailWith makes subsequent Persist calls return err. Pass nil to recover.
func (m *Memory[T]) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Items returns what was last persisted.
func (m *Memory[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T{}, m.items...)
}
