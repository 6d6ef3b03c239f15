package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/quillpress/blog-api/internal/core/authz"
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	tokens *authz.TokenManager
	log    zerolog.Logger

	// allowSelfAssignedRoles lets anonymous callers register as editor or admin.
	allowSelfAssignedRoles bool
}

func NewAuthService(repo ports.UserRepository, tokens *authz.TokenManager, allowSelfAssignedRoles bool, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:                   repo,
		tokens:                 tokens,
		log:                    log,
		allowSelfAssignedRoles: allowSelfAssignedRoles,
	}
}

// Register creates an account. An omitted role means viewer; anything above
// viewer needs an admin caller unless self-assignment is enabled.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := domain.RoleViewer
	if in.Role != "" {
		role = domain.ParseRole(in.Role)
		if !role.Valid() {
			return nil, domain.ErrInvalidRole
		}
	}
	if role != domain.RoleViewer && !s.allowSelfAssignedRoles && !in.Caller.IsAdmin() {
		s.log.Warn().
			Str("username", username).
			Str("requested_role", role.String()).
			Msg("elevated role requested without admin caller")
		return nil, domain.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("user registered")
	return created, nil
}

// Login checks the password and issues an access token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.TokenResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &ports.TokenResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}
