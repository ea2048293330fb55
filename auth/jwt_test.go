package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	t.Parallel()

	tk := NewTokens("secret", "tradejournal", time.Hour)
	raw, err := tk.Issue(Identity{ID: "u1", Email: "a@example.com"})
	require.NoError(t, err)

	id, err := tk.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "u1", Email: "a@example.com"}, id)
}

func TestTokensRejectsAnonymous(t *testing.T) {
	t.Parallel()

	_, err := NewTokens("secret", "tj", time.Hour).Issue(Identity{Email: "x@y.z"})
	assert.Error(t, err)
}

func TestTokensWrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := NewTokens("one", "tj", time.Hour).Issue(Identity{ID: "u1"})
	require.NoError(t, err)

	_, err = NewTokens("two", "tj", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensWrongIssuer(t *testing.T) {
	t.Parallel()

	raw, err := NewTokens("s", "a", time.Hour).Issue(Identity{ID: "u1"})
	require.NoError(t, err)

	_, err = NewTokens("s", "b", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensExpired(t *testing.T) {
	t.Parallel()

	tk := NewTokens("s", "tj", time.Minute)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return issued }

	raw, err := tk.Issue(Identity{ID: "u1"})
	require.NoError(t, err)

	tk.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tk.Verify(raw)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokensGarbage(t *testing.T) {
	t.Parallel()

	_, err := NewTokens("s", "tj", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	_, ok = FromContext(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok)

	id, ok := FromContext(WithIdentity(context.Background(), Identity{ID: "u9", Email: "e"}))
	assert.True(t, ok)
	assert.Equal(t, "u9", id.ID)
}
