package services

import "github.com/cppla/inkwell/models"

// RequireOwnership allows an operation on post only for its author.
func RequireOwnership(post models.Post, identity string) error {
	if identity == "" || post.Author != identity {
		return ErrForbidden
	}
	return nil
}
