package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries in Redis with PX expiry.
type RedisStore struct {
	redis redis.UniversalClient
	owned bool
}

// NewRedisStore wraps an existing client. The caller keeps ownership.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{redis: client}
}

// Set implements [Store].
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Get implements [Store].
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return value, true, nil
}

// Drop implements [Store].
func (s *RedisStore) Drop(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the client if this store created it.
func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.redis.Close()
}
