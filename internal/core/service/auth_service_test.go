package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/quillpress/blog-api/internal/core/authz"
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users     map[string]*domain.User // keyed by ID
	nextID    int
	deleteErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("%d", r.nextID)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func newAuthService(repo ports.UserRepository, allowSelfAssigned bool) *AuthService {
	return NewAuthService(repo, authz.NewTokenManager("secret", time.Hour), allowSelfAssigned, discardLogger)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, false)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Password: "pass1234",
		Email:    "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected an ID to be assigned")
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleViewer {
		t.Fatalf("expected default role viewer, got %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), false)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Password: "pass"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass", Role: "superuser"}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for unknown role, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass", Role: "Admin"}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for miscased role, got %v", err)
	}
}

func TestAuthService_Register_ElevatedRoleNeedsAdmin(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), false)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "eve",
		Password: "pass",
		Role:     string(domain.RoleAdmin),
		Caller:   domain.Anonymous(),
	})
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for anonymous admin signup, got %v", err)
	}

	_, err = svc.Register(context.Background(), ports.RegisterInput{
		Username: "eve",
		Password: "pass",
		Role:     string(domain.RoleEditor),
		Caller:   domain.Authenticate("9", domain.RoleEditor),
	})
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for editor-created editor, got %v", err)
	}

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "eve",
		Password: "pass",
		Role:     string(domain.RoleEditor),
		Caller:   domain.Authenticate("1", domain.RoleAdmin),
	})
	if err != nil {
		t.Fatalf("admin caller should be allowed: %v", err)
	}
	if user.Role != domain.RoleEditor {
		t.Fatalf("expected editor, got %s", user.Role)
	}
}

func TestAuthService_Register_SelfAssignedRolesEnabled(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), true)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "root",
		Password: "pass",
		Role:     string(domain.RoleAdmin),
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", user.Role)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), false)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass"})
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass2"}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), true)

	registered, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Password: "s3cret", Role: "admin"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.User == nil || result.User.Username != "carol" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	if !result.ExpiresAt.After(time.Now()) {
		t.Fatalf("expiry should be in the future, got %v", result.ExpiresAt)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != registered.ID {
		t.Fatalf("expected sub %s, got %v", registered.ID, claims["sub"])
	}
	if claims["jti"] == nil || claims["jti"] == "" {
		t.Fatalf("expected a jti claim")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), false)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Password: "goodpass"})
	if _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), false)

	if _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_TrimsUsername(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), false)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: " bob ", Password: "s3cret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), " bob", "s3cret")
	if err != nil {
		t.Fatalf("login with surrounding spaces failed: %v", err)
	}
	if result.User.Username != "bob" {
		t.Fatalf("expected stored username bob, got %q", result.User.Username)
	}
}
