package store

import (
	"path/filepath"

	"github.com/cppla/inkwell/models"
)

// Store groups the two collections the application runs on.
type Store struct {
	Users *Collection[models.User]
	Posts *Collection[models.Post]
}

// New opens a Store over arbitrary backends.
func New(users Backend[models.User], posts Backend[models.Post]) (*Store, error) {
	u, err := Open(users)
	if err != nil {
		return nil, err
	}
	p, err := Open(posts)
	if err != nil {
		return nil, err
	}
	return &Store{Users: u, Posts: p}, nil
}

// OpenFiles opens the JSON file backed store under dir.
func OpenFiles(dir, usersFile, postsFile string) (*Store, error) {
	return New(
		NewJSONFile[models.User](filepath.Join(dir, usersFile)),
		NewJSONFile[models.Post](filepath.Join(dir, postsFile)),
	)
}

// NewInMemory returns a Store backed by Memory backends seeded with the given
// records, plus the backends so callers can inspect writes.
func NewInMemory(users []models.User, posts []models.Post) (*Store, *Memory[models.User], *Memory[models.Post]) {
	ub := NewMemory(users...)
	pb := NewMemory(posts...)
	st, _ := New(ub, pb) // memory backends never fail to load
	return st, ub, pb
}
