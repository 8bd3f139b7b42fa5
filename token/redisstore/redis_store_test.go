package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/token"
	"github.com/jrsteele09/go-dashboard/token/redisstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Runs against a real Redis when REDIS_ADDR is set.
func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	key := "dashboard:test:" + t.Name()
	store := redisstore.New(client, key)
	require.NoError(t, store.Clear(ctx))

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, errors.ErrNotFound)

	expiresAt := time.UnixMilli(time.Now().Add(time.Hour).UnixMilli())
	require.NoError(t, store.Save(ctx, token.Stored{AccessToken: "abc", ExpiresAt: expiresAt}))

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, 59*time.Minute)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", loaded.AccessToken)
	require.True(t, expiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, store.Save(ctx, token.Stored{AccessToken: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, errors.ErrNotFound)
}
