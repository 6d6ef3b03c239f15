package ports

import (
	"context"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// CreatePostInput carries a new post. The author is always the caller.
type CreatePostInput struct {
	Title   string
	Content string
	Caller  domain.Principal
}

// UpdatePostInput carries a PUT (both fields set) or PATCH (any subset).
type UpdatePostInput struct {
	ID      string
	Title   *string
	Content *string
	Caller  domain.Principal
}

// PostService defines the post use cases. Update and Delete run the
// ownership gate against the stored post.
type PostService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	UpdatePost(ctx context.Context, input UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id string, caller domain.Principal) error
}
