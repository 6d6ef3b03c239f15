package ports

import (
	"context"
	"time"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// RegisterInput carries a registration request. Caller is whoever made the
// request, possibly anonymous; it decides which roles may be requested.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Role     string
	Caller   domain.Principal
}

// TokenResult is returned by a successful login.
type TokenResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*TokenResult, error)
}
