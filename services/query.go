package services

import (
	"strings"

	"github.com/cppla/inkwell/models"
)

// DefaultPageSize is the number of posts shown per feed page.
const DefaultPageSize = 6

// Search returns the posts whose title or content contains query, ignoring
// case. An empty query matches everything. Order is preserved.
func Search(posts []models.Post, query string) []models.Post {
	if query == "" {
		out := make([]models.Post, len(posts))
		copy(out, posts)
		return out
	}
	needle := strings.ToLower(query)
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Content), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Paginate returns the page-th slice of pageSize posts. Pages past the end
// are empty.
func Paginate(posts []models.Post, page, pageSize int) []models.Post {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	start := (page - 1) * pageSize
	if start >= len(posts) {
		return []models.Post{}
	}
	end := min(start+pageSize, len(posts))
	return posts[start:end]
}

// TotalPages is ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return (count + pageSize - 1) / pageSize
}
