package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/token"
	"github.com/redis/go-redis/v9"
)

var _ token.Repo = (*RedisStore)(nil)

// RedisStore keeps the token under a single key whose TTL matches the token
// expiry, so Redis drops it on its own once it is useless.
type RedisStore struct {
	client  *redis.Client
	key     string
	nowFunc func() time.Time
}

// New creates a Redis-backed token store.
func New(client *redis.Client, key string) *RedisStore {
	return &RedisStore{
		client:  client,
		key:     key,
		nowFunc: time.Now,
	}
}

func (r *RedisStore) Save(ctx context.Context, stored token.Stored) error {
	if stored.AccessToken == "" {
		return fmt.Errorf("redisstore: missing access token")
	}

	ttl := stored.ExpiresAt.Sub(r.nowFunc())
	if ttl <= 0 {
		// Already expired, nothing worth keeping
		return r.client.Del(ctx, r.key).Err()
	}

	data, err := json.Marshal(token.NewRecord(stored))
	if err != nil {
		return fmt.Errorf("redisstore: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key, data, ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context) (*token.Stored, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if err == redis.Nil {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get: %w", err)
	}

	var rec token.Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("redisstore: failed to unmarshal: %w", err)
	}
	return rec.Stored(), nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
