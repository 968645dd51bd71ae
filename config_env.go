package goJWT

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable LoadEnv reads.
const EnvPrefix = "JWT_"

// LoadEnv overlays JWT_* environment variables onto base. Variables that are
// unset leave the corresponding field untouched. When dotenv paths are given
// they are loaded first; missing files are ignored and variables already set
// in the process environment win.
//
// REDIS_URL is honoured as a fallback for JWT_BLACKLIST_URL.
func LoadEnv(base Config, dotenv ...string) (Config, error) {
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := base
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Blacklist.Cache.URL == "" {
		cfg.Blacklist.Cache.URL = os.Getenv("REDIS_URL")
	}
	return cfg, nil
}
