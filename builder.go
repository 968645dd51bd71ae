package goJWT

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/MrEthical07/goJWT/blacklist"
	"github.com/MrEthical07/goJWT/clock"
	"github.com/MrEthical07/goJWT/internal/logattr"
	"github.com/MrEthical07/goJWT/jwt"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an Engine. A Builder can be built once.
//
// Builder instances are intended to be configured during initialization and then treated as immutable.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	store  blacklist.Store

	logger    *slog.Logger
	auditSink AuditSink
	clock     clock.Source
	random    io.Reader

	built bool
}

// New returns a Builder holding the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis supplies the client used when the blacklist provider is
// "redis". The engine never closes it.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore supplies a ready blacklist store, bypassing the cache provider
// configuration. The engine never closes it.
func (b *Builder) WithStore(store blacklist.Store) *Builder {
	b.store = store
	return b
}

// WithLogger sets the engine logger. The default discards everything.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink sets where audit events go when auditing is enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock overrides the time source for claims, verification and
// revocation TTLs.
func (b *Builder) WithClock(src clock.Source) *Builder {
	b.clock = src
	return b
}

// WithRandom overrides the entropy source for jti generation.
func (b *Builder) WithRandom(r io.Reader) *Builder {
	b.random = r
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the verify latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns the engine. When the
// blacklist is enabled and no store was supplied, the store is created
// from the blacklist cache configuration and owned by the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = logattr.Discard()
	}
	src := b.clock
	if src == nil {
		src = clock.System
	}

	pcfg := cfg.providerConfig()
	pcfg.Clock = src
	provider, err := jwt.NewProvider(pcfg)
	if err != nil {
		return nil, err
	}
	cfg.Algorithm = string(provider.Algorithm())

	// -------- BLACKLIST --------
	store, owned := b.store, false
	if cfg.Blacklist.Enabled && store == nil {
		store, err = blacklist.NewStore(cfg.Blacklist.Cache, b.redis)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBlacklistCache, err)
		}
		owned = true
	}
	registry, err := blacklist.New(store, blacklist.Options{
		Enabled: cfg.Blacklist.Enabled,
		Segment: cfg.Blacklist.Cache.Name,
		Clock:   src,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:    cfg,
		provider:  provider,
		registry:  registry,
		store:     store,
		ownsStore: owned,
		clock:     src,
		random:    b.random,
		logger:    logger,
		metrics:   NewMetrics(cfg.Metrics),
		audit:     newAuditQueue(cfg.Audit, b.auditSink, logger),
	}

	for _, w := range cfg.warnings() {
		logger.Warn("insecure jwt configuration", slog.String("reason", w), logattr.Algorithm(cfg.Algorithm))
	}
	logger.Info("jwt engine ready",
		logattr.Algorithm(cfg.Algorithm),
		slog.Int("ttl_minutes", cfg.TTL),
		logattr.Group("blacklist",
			slog.Bool("enabled", cfg.Blacklist.Enabled),
			slog.String("provider", cfg.Blacklist.Cache.Provider),
			slog.String("segment", cfg.Blacklist.Cache.Name),
		),
	)

	b.built = true

	return engine, nil
}
