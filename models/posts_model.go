package models

import (
	"time"
)

// Post is a single blog entry. ImagePath is nil when the post was created
// without an image.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImagePath *string   `json:"imagePath"`
	CreatedAt time.Time `json:"created_at"`
}

// HasImage reports whether the post references a stored upload.
func (p Post) HasImage() bool {
	return p.ImagePath != nil && *p.ImagePath != ""
}
