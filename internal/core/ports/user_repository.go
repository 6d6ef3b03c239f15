package ports

import (
	"context"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create stores user and returns it with its assigned ID.
	// Returns domain.ErrUserExists when the username or email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Delete removes the user record. Returns domain.ErrUserNotFound when absent.
	Delete(ctx context.Context, id string) error
}
