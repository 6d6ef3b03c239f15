package ports

import (
	"context"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// UserService defines the admin-facing user management use cases.
// Access is enforced upstream by the role gate.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// DeleteUser removes the account and soft-deletes every post it authored.
	DeleteUser(ctx context.Context, id string) error
}
