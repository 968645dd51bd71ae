package blacklist

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const defaultMaxEntries = 1 << 20

// MemoryStore keeps entries in a process-local ristretto cache. Every entry
// costs 1, so MaxCost is the entry bound.
//
// A full store refuses new keys with ErrFull instead of letting the cache
// evict a live revocation; entries leave only by TTL or Drop. Size
// maxEntries for the peak number of unexpired revocations.
type MemoryStore struct {
	cache      *ristretto.Cache[string, string]
	maxEntries uint64

	// mu serializes Set so the capacity check and the insert are atomic.
	mu      sync.Mutex
	evicted atomic.Uint64
}

// NewMemoryStore creates a store bounded to maxEntries; a non-positive
// value selects a default of about one million entries.
func NewMemoryStore(maxEntries int64) (*MemoryStore, error) {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	s := &MemoryStore{maxEntries: uint64(maxEntries)}
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
		Metrics:            true,
		OnEvict:            s.onEvict,
	})
	if err != nil {
		return nil, fmt.Errorf("create memory blacklist: %w", err)
	}
	s.cache = cache
	return s, nil
}

// onEvict separates capacity evictions from TTL expiry. Expired items carry
// their past expiration; policy victims carry none.
func (s *MemoryStore) onEvict(item *ristretto.Item[string]) {
	if item.Expiration.IsZero() || item.Expiration.After(time.Now()) {
		s.evicted.Add(1)
	}
}

// Set implements [Store]. The write is visible to Get once Set returns. A
// new key is refused with ErrFull while the store holds maxEntries entries.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		s.cache.Del(key)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache.Get(key); !exists && s.used() >= s.maxEntries {
		// Apply pending deletes before refusing.
		s.cache.Wait()
		if s.used() >= s.maxEntries {
			return ErrFull
		}
	}
	if !s.cache.SetWithTTL(key, value, 1, ttl) {
		return ErrRejected
	}
	s.cache.Wait()
	return nil
}

// used is the cost currently held by the eviction policy, including
// entries that expired but were not yet swept.
func (s *MemoryStore) used() uint64 {
	m := s.cache.Metrics
	added, removed := m.CostAdded(), m.CostEvicted()
	if removed >= added {
		return 0
	}
	return added - removed
}

// Get implements [Store].
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := s.cache.Get(key)
	return value, ok, nil
}

// Drop implements [Store].
func (s *MemoryStore) Drop(_ context.Context, key string) error {
	s.cache.Del(key)
	return nil
}

// Len reports the number of entries held, as counted for ErrFull.
func (s *MemoryStore) Len() int {
	return int(s.used())
}

// Evicted reports entries dropped for capacity before their TTL. It stays
// zero unless the cache evicts behind Set's capacity check.
func (s *MemoryStore) Evicted() uint64 {
	return s.evicted.Load()
}

// Close stops the cache's background goroutines.
func (s *MemoryStore) Close() error {
	s.cache.Close()
	return nil
}
