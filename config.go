package goJWT

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goJWT/blacklist"
	"github.com/MrEthical07/goJWT/jwt"
)

const weakSecretLength = 32

// Config is the complete engine configuration.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	// Algorithm names the signing algorithm, case-insensitively.
	Algorithm string `yaml:"algorithm" env:"ALGORITHM"`
	// Secret signs symmetric tokens.
	Secret string `yaml:"secret" env:"SECRET"`
	Keys   KeysConfig `yaml:"keys"`
	// TTL is the token lifetime in minutes.
	TTL int `yaml:"ttl" env:"TTL"`
	// Leeway tolerates clock skew on exp and nbf.
	Leeway time.Duration `yaml:"leeway" env:"LEEWAY"`

	Blacklist BlacklistConfig `yaml:"blacklist" envPrefix:"BLACKLIST_"`
	Audit     AuditConfig     `yaml:"audit" envPrefix:"AUDIT_"`
	Metrics   MetricsConfig   `yaml:"metrics" envPrefix:"METRICS_"`
	Logging   LoggingConfig   `yaml:"logging" envPrefix:"LOG_"`
}

// KeysConfig locates the PEM key pair for asymmetric algorithms.
type KeysConfig struct {
	Public  string `yaml:"public" env:"PUBLIC_KEY_PATH"`
	Private string `yaml:"private" env:"PRIVATE_KEY_PATH"`
}

// BlacklistConfig controls token revocation.
type BlacklistConfig struct {
	Enabled bool                  `yaml:"enabled" env:"ENABLED"`
	Cache   blacklist.CacheConfig `yaml:"cache"`
}

/*
====================================
AMBIENT CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit queue.
type AuditConfig struct {
	Enabled    bool `yaml:"enabled" env:"ENABLED"`
	BufferSize int  `yaml:"buffer_size" env:"BUFFER_SIZE"`
	DropIfFull bool `yaml:"drop_if_full" env:"DROP_IF_FULL"`
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool `yaml:"enabled" env:"ENABLED"`
	EnableLatencyHistograms bool `yaml:"latency_histograms" env:"LATENCY_HISTOGRAMS"`
}

// LoggingConfig selects the level and format for loggers built by NewLogger.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

func defaultConfig() Config {
	return Config{
		Algorithm: string(jwt.HS256),
		TTL:       15,
		Blacklist: BlacklistConfig{
			Cache: blacklist.CacheConfig{
				Name:     "jwt/blacklist",
				Provider: blacklist.ProviderMemory,
			},
		},
		Audit: AuditConfig{
			BufferSize: 1024,
			DropIfFull: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return defaultConfig()
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration without touching the filesystem or the
// network. Key files are read lazily on first use.
func (c *Config) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTTL, c.TTL)
	}

	if err := c.providerConfig().Validate(); err != nil {
		return err
	}

	if c.Blacklist.Enabled {
		if strings.TrimSpace(c.Blacklist.Cache.Name) == "" {
			return fmt.Errorf("%w: cache name is required", ErrInvalidBlacklistCache)
		}
		switch c.Blacklist.Cache.Provider {
		case blacklist.ProviderRedis, blacklist.ProviderMemory:
		default:
			return fmt.Errorf("%w: unknown provider %q", ErrInvalidBlacklistCache, c.Blacklist.Cache.Provider)
		}
	}

	if c.Audit.BufferSize < 0 {
		return fmt.Errorf("audit buffer size must be >= 0")
	}
	return nil
}

// algorithm parses Algorithm, leaving unknown names for Validate to reject.
func (c *Config) algorithm() jwt.Algorithm {
	alg, err := jwt.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return jwt.Algorithm(c.Algorithm)
	}
	return alg
}

func (c *Config) providerConfig() jwt.Config {
	return jwt.Config{
		Algorithm: c.algorithm(),
		Secret:    c.Secret,
		Keys: jwt.KeyPaths{
			Public:  c.Keys.Public,
			Private: c.Keys.Private,
		},
		Leeway: c.Leeway,
	}
}

// warnings lists configurations that are valid but unsafe.
func (c *Config) warnings() []string {
	var out []string
	alg := c.algorithm()
	if alg == jwt.None {
		out = append(out, "algorithm none issues unsigned tokens")
	}
	if alg.Family() == jwt.FamilySymmetric && len(c.Secret) < weakSecretLength {
		out = append(out, fmt.Sprintf("secret is shorter than %d characters", weakSecretLength))
	}
	return out
}
