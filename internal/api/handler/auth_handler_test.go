package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.TokenResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.TokenResult, error) {
	return s.loginFn(ctx, username, password)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Role != "" || in.Email != "a@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Caller.Authenticated {
				t.Fatalf("expected anonymous caller, got %+v", in.Caller)
			}
			return &domain.User{ID: "10", Username: in.Username, Email: in.Email, Role: domain.RoleViewer}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"username":"alice","password":"s3cret-pass","email":"a@example.com"}`)
	c, rec := newContext(http.MethodPost, "/api/register/", body, anonymous)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "10" || resp["username"] != "alice" || resp["role"] != "viewer" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password must not be serialised: %+v", resp)
	}
}

func TestAuthHandler_Register_PassesAdminCaller(t *testing.T) {
	var got ports.RegisterInput
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			got = in
			return &domain.User{ID: "11", Username: in.Username, Role: domain.RoleEditor}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"username":"ed","password":"s3cret-pass","role":"editor"}`)
	c, _ := newContext(http.MethodPost, "/api/register/", body, admin)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Role != "editor" || !got.Caller.IsAdmin() {
		t.Fatalf("expected editor request from admin, got %+v", got)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/register/", strings.NewReader(`{"username":"bob","password":"s3cret-pass"}`), anonymous)

	err := handler.Register(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_ValidationFails(t *testing.T) {
	cases := map[string]string{
		"missing password": `{"username":"bob"}`,
		"short password":   `{"username":"bob","password":"short"}`,
		"bad email":        `{"username":"bob","password":"s3cret-pass","email":"nope"}`,
		"unknown role":     `{"username":"bob","password":"s3cret-pass","role":"Admin"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			stub := &stubAuthService{
				registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			c, _ := newContext(http.MethodPost, "/api/register/", strings.NewReader(payload), anonymous)

			err := NewAuthHandler(stub).Register(c)
			if code := httpErrorCode(t, err); code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", code)
			}
		})
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/api/register/", strings.NewReader("not-json"), anonymous)

	err := NewAuthHandler(stub).Register(c)
	if code := httpErrorCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Token_Success(t *testing.T) {
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.TokenResult, error) {
			if username != "alice" || password != "s3cret-pass" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.TokenResult{
				AccessToken: "token123",
				ExpiresAt:   exp,
				User:        &domain.User{ID: "1", Username: "alice", Role: domain.RoleAdmin},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/token/", strings.NewReader(`{"username":"alice","password":"s3cret-pass"}`), anonymous)

	if err := handler.Token(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Access != "token123" || resp.TokenType != "Bearer" || !resp.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	if resp.User.Username != "alice" || resp.User.Role != "admin" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
}

func TestAuthHandler_Token_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.TokenResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newContext(http.MethodPost, "/api/token/", strings.NewReader(`{"username":"alice","password":"bad"}`), anonymous)

	err := NewAuthHandler(stub).Token(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Token_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.TokenResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/api/token/", strings.NewReader("{"), anonymous)

	err := NewAuthHandler(stub).Token(c)
	if code := httpErrorCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
