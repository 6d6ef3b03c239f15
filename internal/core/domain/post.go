package domain

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
)

// Post is a blog entry. AuthorID never changes after creation and deleted
// posts keep their record with IsDeleted set.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `json:"is_deleted"`
}

// OwnedBy reports whether userID authored the post.
func (p *Post) OwnedBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}
