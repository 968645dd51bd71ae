package goJWT

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrEthical07/goJWT/blacklist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "HS256", cfg.Algorithm)
	assert.Equal(t, 15, cfg.TTL)
	assert.False(t, cfg.Blacklist.Enabled)
	assert.Equal(t, "jwt/blacklist", cfg.Blacklist.Cache.Name)
	assert.Equal(t, blacklist.ProviderMemory, cfg.Blacklist.Cache.Provider)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "zero ttl", mutate: func(c *Config) { c.TTL = 0 }, want: ErrInvalidTTL},
		{name: "unknown algorithm", mutate: func(c *Config) { c.Algorithm = "HS1" }, want: ErrUnsupportedAlgorithm},
		{name: "missing secret", mutate: func(c *Config) { c.Secret = "" }, want: ErrMissingSecret},
		{name: "none without secret", mutate: func(c *Config) {
			c.Algorithm = "none"
			c.Secret = ""
		}, want: ErrMissingSecret},
		{name: "asymmetric without keys", mutate: func(c *Config) { c.Algorithm = "RS256" }, want: ErrMissingKeyPair},
		{name: "blacklist without name", mutate: func(c *Config) {
			c.Blacklist.Enabled = true
			c.Blacklist.Cache.Name = " "
		}, want: ErrInvalidBlacklistCache},
		{name: "blacklist with unknown provider", mutate: func(c *Config) {
			c.Blacklist.Enabled = true
			c.Blacklist.Cache.Provider = "memcached"
		}, want: ErrInvalidBlacklistCache},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}

	cfg := testConfig()
	cfg.Algorithm = "hs512"
	assert.NoError(t, cfg.Validate())

	cfg = testConfig()
	cfg.Blacklist.Cache.Provider = "ignored-while-disabled"
	assert.NoError(t, cfg.Validate())
}

func TestParseConfigYAML(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "from-env-0123456789abcdef0123456789")

	cfg, err := ParseConfig([]byte(`
algorithm: RS256
secret: ${TEST_JWT_SECRET}
keys:
  public: /etc/jwt/key.pub
  private: /etc/jwt/key
ttl: 30
leeway: 30s
blacklist:
  enabled: true
  cache:
    name: revoked
    provider: redis
    url: redis://localhost:6379/0
audit:
  enabled: true
logging:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "RS256", cfg.Algorithm)
	assert.Equal(t, "from-env-0123456789abcdef0123456789", cfg.Secret)
	assert.Equal(t, "/etc/jwt/key.pub", cfg.Keys.Public)
	assert.Equal(t, "/etc/jwt/key", cfg.Keys.Private)
	assert.Equal(t, 30, cfg.TTL)
	assert.Equal(t, 30*time.Second, cfg.Leeway)
	assert.True(t, cfg.Blacklist.Enabled)
	assert.Equal(t, "revoked", cfg.Blacklist.Cache.Name)
	assert.Equal(t, blacklist.ProviderRedis, cfg.Blacklist.Cache.Provider)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 1024, cfg.Audit.BufferSize, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("secret: abc\nttl: 5\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Secret)
	assert.Equal(t, 5, cfg.TTL)
	assert.Equal(t, "HS256", cfg.Algorithm)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("ttl: [unclosed"))
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_ALGORITHM", "HS384")
	t.Setenv("JWT_TTL", "60")
	t.Setenv("JWT_LEEWAY", "5s")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/pub.pem")
	t.Setenv("JWT_BLACKLIST_ENABLED", "true")
	t.Setenv("JWT_BLACKLIST_PROVIDER", "redis")
	t.Setenv("JWT_METRICS_ENABLED", "true")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")

	cfg, err := LoadEnv(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Secret)
	assert.Equal(t, "HS384", cfg.Algorithm)
	assert.Equal(t, 60, cfg.TTL)
	assert.Equal(t, 5*time.Second, cfg.Leeway)
	assert.Equal(t, "/keys/pub.pem", cfg.Keys.Public)
	assert.True(t, cfg.Blacklist.Enabled)
	assert.Equal(t, blacklist.ProviderRedis, cfg.Blacklist.Cache.Provider)
	assert.Equal(t, "jwt/blacklist", cfg.Blacklist.Cache.Name, "unset variables keep the base value")
	assert.Equal(t, "redis://cache:6379/1", cfg.Blacklist.Cache.URL)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadEnvDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_TEST_DOTENV_MARKER=1\nJWT_BLACKLIST_NAME=from-dotenv\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("JWT_TEST_DOTENV_MARKER")
		os.Unsetenv("JWT_BLACKLIST_NAME")
	})

	cfg, err := LoadEnv(DefaultConfig(), path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Blacklist.Cache.Name)
}

func TestLoadEnvRejectsBadValue(t *testing.T) {
	t.Setenv("JWT_TTL", "fifteen")
	_, err := LoadEnv(DefaultConfig())
	assert.Error(t, err)
}
