package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPhoto is stored when a post is created without a photo.
const DefaultPhoto = "default-photo.jpg"

// Post is a blog entry. Username is the author's username copied at creation
// time; ownership checks compare against it, not against a user id.
type Post struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Username    string    `json:"username"`
	Photo       string    `json:"photo"`
	Categories  []string  `json:"categories"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PostFilter selects posts for listing. Username takes precedence over Category.
type PostFilter struct {
	Username string
	Category string
}

// PostPatch lists the post fields a PUT may change. Categories is the raw
// comma-separated string from the request body.
type PostPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Username    *string `json:"username"`
	Photo       *string `json:"photo"`
	Categories  *string `json:"categories"`
}
