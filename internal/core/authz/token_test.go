package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/blog-api/internal/core/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30*time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return now }

	tok, exp, err := tm.Issue(&domain.User{ID: "abc", Username: "alice", Role: domain.RoleEditor})
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), exp)

	claims, err := tm.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "editor", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	a, _, err := tm.Issue(&domain.User{ID: "1"})
	require.NoError(t, err)
	b, _, err := tm.Issue(&domain.User{ID: "1"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenManager_ExpiresAfterTTL(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	start := time.Now()
	tm.now = func() time.Time { return start }

	tok, _, err := tm.Issue(&domain.User{ID: "1"})
	require.NoError(t, err)

	tm.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = tm.Verify(tok)
	assert.Error(t, err)
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	assert.Equal(t, defaultTokenTTL, tm.ttl)
}
