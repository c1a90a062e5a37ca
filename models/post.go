package models

import "time"

// Post represents a blog entry written by a user.
type Post struct {
	ID      int       `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Image   string    `json:"image,omitempty"` // public path like /images/1700000000000.png
	Date    time.Time `json:"date"`
	Author  string    `json:"author"`
}

// HasImage reports whether the post references an uploaded image.
func (p Post) HasImage() bool {
	return p.Image != ""
}
