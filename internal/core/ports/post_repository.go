package ports

import (
	"context"
	"time"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// PostFields carries the mutable parts of a post. Nil fields are left unchanged.
type PostFields struct {
	Title     *string
	Content   *string
	UpdatedAt time.Time
}

// PostRepository defines persistence operations for posts. Reads exclude
// soft-deleted posts unless stated otherwise.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	// FindByID returns domain.ErrPostNotFound for unknown or soft-deleted posts.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// FindIncludingDeleted also returns soft-deleted posts.
	FindIncludingDeleted(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	// Update applies fields to a live post and stores UpdatedAt.
	Update(ctx context.Context, id string, fields PostFields) (*domain.Post, error)
	// SoftDelete sets is_deleted. Calling it on an already deleted post is not an error.
	SoftDelete(ctx context.Context, id string) error
	// SoftDeleteByAuthor flags every post of authorID and returns how many changed.
	SoftDeleteByAuthor(ctx context.Context, authorID string) (int64, error)
}
