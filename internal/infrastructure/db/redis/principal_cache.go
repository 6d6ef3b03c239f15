package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillpress/blog-api/internal/core/domain"
)

const (
	defaultPrincipalTTL = 5 * time.Minute

	// evictedMarker replaces the role of a deleted user until the TTL lapses.
	evictedMarker = "!deleted"
)

// PrincipalCache stores resolved user roles in Redis.
// Key format: principal:role:<user_id>
type PrincipalCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPrincipalCache creates a PrincipalCache. A non-positive ttl selects the default.
func NewPrincipalCache(client *redis.Client, ttl time.Duration) *PrincipalCache {
	if ttl <= 0 {
		ttl = defaultPrincipalTTL
	}
	return &PrincipalCache{client: client, ttl: ttl}
}

// GetRole reports the cached role of userID.
func (c *PrincipalCache) GetRole(ctx context.Context, userID string) (domain.Role, bool, error) {
	v, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.RoleNone, false, nil
		}
		return domain.RoleNone, false, fmt.Errorf("principal cache get: %w", err)
	}
	if v == evictedMarker {
		return domain.RoleNone, false, domain.ErrUserNotFound
	}
	return domain.ParseRole(v), true, nil
}

// SetRole caches role for userID until the TTL lapses. SET NX keeps a fill
// that raced a delete from overwriting the eviction marker.
func (c *PrincipalCache) SetRole(ctx context.Context, userID string, role domain.Role) error {
	return c.client.SetNX(ctx, c.key(userID), string(role), c.ttl).Err()
}

// Evict replaces the cached role with the eviction marker for one TTL.
func (c *PrincipalCache) Evict(ctx context.Context, userID string) error {
	return c.client.Set(ctx, c.key(userID), evictedMarker, c.ttl).Err()
}

func (c *PrincipalCache) key(userID string) string {
	return "principal:role:" + userID
}
