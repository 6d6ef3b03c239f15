package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

// FailureReason classifies why a request could not be authenticated.
type FailureReason string

const (
	ReasonMissing        FailureReason = "missing_token"
	ReasonMalformed      FailureReason = "malformed_header"
	ReasonInvalidToken   FailureReason = "invalid_token"
	ReasonUnknownSubject FailureReason = "unknown_subject"
	ReasonLookupFailed   FailureReason = "lookup_failed"
)

// AuthFailure is returned by Resolve alongside the anonymous principal.
// It never aborts the request on its own.
type AuthFailure struct {
	Reason FailureReason
	Err    error
}

func (f *AuthFailure) Error() string {
	if f.Err == nil {
		return "authentication failed: " + string(f.Reason)
	}
	return fmt.Sprintf("authentication failed: %s: %v", f.Reason, f.Err)
}

func (f *AuthFailure) Unwrap() error { return f.Err }

// FailureReasonOf extracts the reason from err, or "" when err is not an AuthFailure.
func FailureReasonOf(err error) FailureReason {
	var f *AuthFailure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ""
}

// UserLookup is the slice of the user store the resolver needs.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// IdentityResolver turns an Authorization header into a Principal.
type IdentityResolver struct {
	tokens *TokenManager
	users  UserLookup
	cache  ports.PrincipalCache
	log    zerolog.Logger
}

// NewIdentityResolver wires a resolver. cache may be nil.
func NewIdentityResolver(tokens *TokenManager, users UserLookup, cache ports.PrincipalCache, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users, cache: cache, log: log}
}

// Resolve verifies the bearer token in header and loads the caller's role.
// On any failure it returns the anonymous principal together with an
// *AuthFailure; callers decide whether anonymity is acceptable.
func (r *IdentityResolver) Resolve(ctx context.Context, header string) (domain.Principal, error) {
	if strings.TrimSpace(header) == "" {
		return domain.Anonymous(), &AuthFailure{Reason: ReasonMissing}
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return domain.Anonymous(), &AuthFailure{Reason: ReasonMalformed}
	}

	claims, err := r.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.Anonymous(), &AuthFailure{Reason: ReasonInvalidToken, Err: err}
	}

	role, err := r.roleOf(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Anonymous(), &AuthFailure{Reason: ReasonUnknownSubject, Err: err}
		}
		return domain.Anonymous(), &AuthFailure{Reason: ReasonLookupFailed, Err: err}
	}

	return domain.Authenticate(claims.Subject, role), nil
}

func (r *IdentityResolver) roleOf(ctx context.Context, userID string) (domain.Role, error) {
	if r.cache != nil {
		role, ok, err := r.cache.GetRole(ctx, userID)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return domain.RoleNone, err
		case err != nil:
			r.log.Warn().Err(err).Str("user_id", userID).Msg("principal cache read failed, falling back to store")
		case ok:
			return role, nil
		}
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return domain.RoleNone, err
	}

	if r.cache != nil {
		if err := r.cache.SetRole(ctx, userID, user.Role); err != nil {
			r.log.Warn().Err(err).Str("user_id", userID).Msg("principal cache write failed")
		}
	}
	return user.Role, nil
}
