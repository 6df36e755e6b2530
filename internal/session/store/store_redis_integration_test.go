//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisperwall/internal/identity"
	"whisperwall/internal/session"
	"whisperwall/pkg/sentinel"
	"whisperwall/pkg/testutil/containers"
)

func TestRedisSessionStore(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	store := NewRedis(rc.Client)

	record := func(token string, ttl time.Duration) session.Record {
		now := time.Now()
		return session.Record{
			Token:     token,
			Principal: identity.Principal{UserID: 1, Username: "alice@example.com"},
			Device:    "Chrome on Mac OS X",
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		}
	}

	t.Run("save and find roundtrip", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		saved := record("tok-1", time.Hour)
		require.NoError(t, store.Save(ctx, saved))

		found, err := store.Find(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, saved.Token, found.Token)
		assert.Equal(t, saved.Principal, found.Principal)
		assert.Equal(t, saved.Device, found.Device)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		_, err := store.Find(ctx, "tok-missing")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("expired record is rejected at save", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		err := store.Save(ctx, record("tok-old", -time.Minute))
		assert.Error(t, err)
	})

	t.Run("redis ttl evicts the session", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, store.Save(ctx, record("tok-short", time.Second)))

		assert.Eventually(t, func() bool {
			_, err := store.Find(ctx, "tok-short")
			return err != nil
		}, 5*time.Second, 200*time.Millisecond)
	})

	t.Run("delete removes the session", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, store.Save(ctx, record("tok-2", time.Hour)))

		require.NoError(t, store.Delete(ctx, "tok-2"))
		_, err := store.Find(ctx, "tok-2")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
