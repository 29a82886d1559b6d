package blacklist

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis, for multi-process deployments where
// a logout on one instance must take effect on all of them. Keys expire via
// Redis TTL; nothing is ever deleted explicitly.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a blacklist store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Set marks jti as revoked for ttl using SET with expiry.
func (s *RedisStore) Set(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, keyPrefix+jti, marker, ttl).Err()
}

// Get reports whether jti is currently blacklisted. A missing key is not an
// error; any other Redis failure is returned for the caller's fail-open policy.
func (s *RedisStore) Get(ctx context.Context, jti string) (bool, error) {
	_, err := s.client.Get(ctx, keyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
