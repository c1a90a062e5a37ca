package services

import "errors"

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPostNotFound       = errors.New("post not found")
	// ErrForbidden is returned when the session identity does not own the post.
	ErrForbidden = errors.New("you can only modify your own posts")
)
