package blacklist

import (
	"context"
	"time"

	"github.com/MrEthical07/goJWT/clock"
	"github.com/MrEthical07/goJWT/payload"
)

const (
	// ValueBlacklisted marks a revocation bounded by the token's expiry.
	ValueBlacklisted = "blacklisted"
	// ValueForever marks a permanent revocation.
	ValueForever = "forever"

	foreverYears = 10
)

// Options configures a Registry.
type Options struct {
	Enabled bool
	// Segment namespaces keys as "<segment>:<jti>". Empty means no prefix.
	Segment string
	// Clock defaults to clock.System.
	Clock clock.Source
}

// Registry adds, checks and removes revocation entries.
//
// Registry is safe for concurrent use; all shared state lives in the Store.
type Registry struct {
	store   Store
	enabled bool
	segment string
	clock   clock.Source
}

// New returns a registry over store. An enabled registry requires a store.
func New(store Store, opts Options) (*Registry, error) {
	if opts.Enabled && store == nil {
		return nil, ErrNilStore
	}
	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	return &Registry{
		store:   store,
		enabled: opts.Enabled,
		segment: opts.Segment,
		clock:   opts.Clock,
	}, nil
}

// IsEnabled reports whether revocation is active.
func (r *Registry) IsEnabled() bool { return r.enabled }

// IsDisabled reports whether revocation is inactive.
func (r *Registry) IsDisabled() bool { return !r.enabled }

// Add revokes p until its exp claim. A payload without exp is revoked
// permanently. Adding an already revoked payload is a no-op, so the first
// TTL written wins. An exp in the past writes nothing.
func (r *Registry) Add(ctx context.Context, p *payload.Payload) error {
	key, err := r.key(p)
	if err != nil {
		return err
	}
	exp, ok := p.ExpiresAt()
	if !ok {
		return r.Forever(ctx, p)
	}
	revoked, err := r.has(ctx, key)
	if err != nil || revoked {
		return err
	}
	now := clock.Now(r.clock)
	remaining := clock.From(exp).Milliseconds() - now.Milliseconds()
	return r.store.Set(ctx, key, ValueBlacklisted, time.Duration(remaining)*time.Millisecond)
}

// Forever revokes p for ten years regardless of its exp claim.
func (r *Registry) Forever(ctx context.Context, p *payload.Payload) error {
	key, err := r.key(p)
	if err != nil {
		return err
	}
	now := clock.Now(r.clock)
	return r.store.Set(ctx, key, ValueForever, now.AddYears(foreverYears).Sub(now))
}

// Has reports whether p is revoked. A disabled registry reports false.
func (r *Registry) Has(ctx context.Context, p *payload.Payload) (bool, error) {
	if !r.enabled {
		return false, nil
	}
	jti, ok := p.ID()
	if !ok || jti == "" {
		return false, ErrMissingIdentifier
	}
	return r.has(ctx, r.keyFor(jti))
}

// Remove drops any entry for p.
func (r *Registry) Remove(ctx context.Context, p *payload.Payload) error {
	key, err := r.key(p)
	if err != nil {
		return err
	}
	return r.store.Drop(ctx, key)
}

func (r *Registry) has(ctx context.Context, key string) (bool, error) {
	value, found, err := r.store.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if value == ValueForever {
		return true, nil
	}
	return value != "", nil
}

// key validates that the registry accepts writes and resolves p's key.
func (r *Registry) key(p *payload.Payload) (string, error) {
	if !r.enabled {
		return "", ErrDisabled
	}
	jti, ok := p.ID()
	if !ok || jti == "" {
		return "", ErrMissingIdentifier
	}
	return r.keyFor(jti), nil
}

func (r *Registry) keyFor(jti string) string {
	if r.segment == "" {
		return jti
	}
	return r.segment + ":" + jti
}
