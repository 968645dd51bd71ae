package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ProviderRedis selects [RedisStore].
	ProviderRedis = "redis"
	// ProviderMemory selects [MemoryStore].
	ProviderMemory = "memory"
)

// Store is the TTL-capable key-value backend behind a [Registry].
// Implementations must be safe for concurrent use.
type Store interface {
	// Set stores value under key for ttl. A non-positive ttl must not leave
	// an entry behind.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get reports the value under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Drop removes key. Dropping an absent key is not an error.
	Drop(ctx context.Context, key string) error
}

// CacheConfig describes the backend for NewStore.
type CacheConfig struct {
	// Name is the segment that namespaces every key.
	Name string `yaml:"name" env:"NAME"`
	// Provider is ProviderRedis or ProviderMemory.
	Provider string `yaml:"provider" env:"PROVIDER"`
	// URL is a redis:// URL, used when no client is supplied.
	URL string `yaml:"url" env:"URL"`
	// MaxEntries bounds the memory store. Once that many unexpired entries
	// are held, further revocations fail with ErrFull; existing entries are
	// never displaced.
	MaxEntries int64 `yaml:"max_entries" env:"MAX_ENTRIES"`
}

// NewStore builds the store named by cfg.Provider. For ProviderRedis an
// existing client is used when non-nil; otherwise one is created from
// cfg.URL and closed by the store's Close.
func NewStore(cfg CacheConfig, client redis.UniversalClient) (Store, error) {
	switch cfg.Provider {
	case ProviderRedis:
		if client != nil {
			return NewRedisStore(client), nil
		}
		if cfg.URL == "" {
			return nil, fmt.Errorf("%w: redis provider needs a client or url", ErrStoreUnavailable)
		}
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		s := NewRedisStore(redis.NewClient(opts))
		s.owned = true
		return s, nil
	case ProviderMemory:
		return NewMemoryStore(cfg.MaxEntries)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
