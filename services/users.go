package services

import (
	"strings"

	"github.com/cppla/inkwell/models"
	"github.com/cppla/inkwell/store"
	"github.com/cppla/inkwell/utils"
)

// dummyHash keeps Authenticate's timing similar for unknown usernames.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z9QyqHMDbWiyZaK0cn0QFpCy"

// UserService registers and authenticates users.
type UserService struct {
	users *store.Collection[models.User]
}

// NewUserService creates a UserService.
func NewUserService(users *store.Collection[models.User]) *UserService {
	return &UserService{users: users}
}

// Register stores a new user with a bcrypt hash of password. Usernames are
// stored as submitted and compared exactly; blank ones are rejected.
func (s *UserService) Register(username, password string) (models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return models.User{}, ErrInvalidInput
	}

	// hash outside the lock; bcrypt is slow on purpose
	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{Username: username, PasswordHash: hash}

	err = s.users.Mutate(func(users []models.User) ([]models.User, bool, error) {
		for _, u := range users {
			if u.Username == username {
				return nil, false, ErrDuplicateUser
			}
		}
		return append(users, user), true, nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate returns the user when password matches the stored hash.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	user, ok := s.Find(username)
	if !ok {
		utils.CheckPassword(dummyHash, password)
		return models.User{}, ErrInvalidCredentials
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Find looks a user up by exact username.
func (s *UserService) Find(username string) (models.User, bool) {
	for _, u := range s.users.Snapshot() {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}
