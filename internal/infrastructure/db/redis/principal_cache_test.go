package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/quillpress/blog-api/internal/core/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*PrincipalCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPrincipalCache(client, ttl), mr
}

func TestNewPrincipalCache_DefaultTTL(t *testing.T) {
	c := NewPrincipalCache(nil, 0)
	if c.ttl != defaultPrincipalTTL {
		t.Fatalf("expected default ttl, got %v", c.ttl)
	}
	if got := c.key("42"); got != "principal:role:42" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestPrincipalCache_MissOnEmptyKey(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	role, ok, err := c.GetRole(context.Background(), "42")
	if err != nil {
		t.Fatalf("a miss must not be an error: %v", err)
	}
	if ok || role != domain.RoleNone {
		t.Fatalf("expected miss, got ok=%v role=%q", ok, role)
	}
}

func TestPrincipalCache_SetAndGet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.SetRole(ctx, "42", domain.RoleEditor); err != nil {
		t.Fatalf("set: %v", err)
	}

	role, ok, err := c.GetRole(ctx, "42")
	if err != nil || !ok || role != domain.RoleEditor {
		t.Fatalf("expected cached editor, got role=%q ok=%v err=%v", role, ok, err)
	}
	if ttl := mr.TTL("principal:role:42"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.GetRole(ctx, "42"); ok {
		t.Fatal("entry must expire with the ttl")
	}
}

func TestPrincipalCache_SetDoesNotOverwrite(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_ = c.SetRole(ctx, "42", domain.RoleViewer)
	_ = c.SetRole(ctx, "42", domain.RoleAdmin)

	if role, _, _ := c.GetRole(ctx, "42"); role != domain.RoleViewer {
		t.Fatalf("expected first fill to stand, got %q", role)
	}
}

func TestPrincipalCache_UnknownValueIsRoleNone(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	if err := mr.Set("principal:role:42", "superuser"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	role, ok, err := c.GetRole(context.Background(), "42")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if role != domain.RoleNone {
		t.Fatalf("expected RoleNone, got %q", role)
	}
}

func TestPrincipalCache_EvictLeavesMarker(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	_ = c.SetRole(ctx, "42", domain.RoleEditor)

	if err := c.Evict(ctx, "42"); err != nil {
		t.Fatalf("evict: %v", err)
	}

	_, ok, err := c.GetRole(ctx, "42")
	if !errors.Is(err, domain.ErrUserNotFound) || ok {
		t.Fatalf("expected ErrUserNotFound after evict, got ok=%v err=%v", ok, err)
	}

	// A fill from a lookup that started before the delete is ignored.
	if err := c.SetRole(ctx, "42", domain.RoleEditor); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, _, err := c.GetRole(ctx, "42"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("marker must survive a late fill, got %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, err := c.GetRole(ctx, "42"); ok || err != nil {
		t.Fatalf("expected plain miss once the marker expires, got ok=%v err=%v", ok, err)
	}
}

func TestPrincipalCache_UnreachableServerIsAnError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewPrincipalCache(client, time.Minute)

	_, ok, err := c.GetRole(context.Background(), "42")
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if ok {
		t.Fatal("a failed lookup must not report a hit")
	}
}
