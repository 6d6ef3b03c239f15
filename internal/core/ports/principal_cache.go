package ports

import (
	"context"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// PrincipalCache keeps recently resolved roles so the identity resolver can
// skip the user store on hot paths.
type PrincipalCache interface {
	// GetRole reports the cached role for userID; ok is false on a miss.
	// It returns domain.ErrUserNotFound while an eviction marker is live.
	GetRole(ctx context.Context, userID string) (role domain.Role, ok bool, err error)
	// SetRole fills an empty entry only; it never replaces an existing role
	// or an eviction marker.
	SetRole(ctx context.Context, userID string, role domain.Role) error
	// Evict marks userID as deleted for at least the cache TTL so that a
	// lookup started before the delete cannot repopulate the entry.
	Evict(ctx context.Context, userID string) error
}
