// Package config loads runtime settings for the floorgen server from the
// environment. A .env file in the working directory is read first; variables
// already set in the process win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

// Environment variables read by Load.
const (
	EnvAddr           = "FLOORGEN_ADDR"
	EnvModelURL       = "FLOORGEN_MODEL_URL"
	EnvModelTimeout   = "FLOORGEN_MODEL_TIMEOUT"
	EnvMaxConcurrency = "FLOORGEN_MAX_CONCURRENCY"
	EnvRedisURL       = "FLOORGEN_REDIS_URL"
	EnvCacheSize      = "FLOORGEN_CACHE_SIZE"
	EnvCatalog        = "FLOORGEN_CATALOG"
	EnvTotalTimeout   = "FLOORGEN_TOTAL_TIMEOUT"
)

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultModelTimeout   = 60 * time.Second
	DefaultTotalTimeout   = 5 * time.Minute
	DefaultMaxConcurrency = 1
	DefaultCacheSize      = 1024
)

// Config holds server settings.
type Config struct {
	Addr string

	// ModelURL is the inference service endpoint. Empty selects the
	// in-process procedural generator.
	ModelURL       string
	ModelTimeout   time.Duration
	MaxConcurrency int

	// RedisURL selects a shared Redis cache; empty uses an in-memory LRU.
	RedisURL  string
	CacheSize int

	// Catalog is a TOML file with room types and adjacency rules; empty
	// uses the built-in tables.
	Catalog string

	TotalTimeout time.Duration
}

// Load reads files (default ".env") and then the process environment.
// Missing env files are not an error.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv without touching files.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		Addr:           firstNonEmpty(get(EnvAddr), DefaultAddr),
		ModelURL:       get(EnvModelURL),
		ModelTimeout:   DefaultModelTimeout,
		MaxConcurrency: DefaultMaxConcurrency,
		RedisURL:       get(EnvRedisURL),
		CacheSize:      DefaultCacheSize,
		Catalog:        get(EnvCatalog),
		TotalTimeout:   DefaultTotalTimeout,
	}
	if !strings.Contains(cfg.Addr, ":") {
		cfg.Addr = ":" + cfg.Addr
	}

	var err error
	if cfg.ModelTimeout, err = duration(get, EnvModelTimeout, cfg.ModelTimeout); err != nil {
		return nil, err
	}
	if cfg.TotalTimeout, err = duration(get, EnvTotalTimeout, cfg.TotalTimeout); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrency, err = positive(get, EnvMaxConcurrency, cfg.MaxConcurrency); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = positive(get, EnvCacheSize, cfg.CacheSize); err != nil {
		return nil, err
	}
	return cfg, nil
}

func duration(get func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := get(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, ferrors.New(ferrors.ErrCodeInvalidConfig, "%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func positive(get func(string) string, key string, def int) (int, error) {
	raw := get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ferrors.New(ferrors.ErrCodeInvalidConfig, "%s: must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// String summarises the configuration without secrets.
func (c *Config) String() string {
	model := "procedural"
	if c.ModelURL != "" {
		model = c.ModelURL
	}
	cache := fmt.Sprintf("memory(%d)", c.CacheSize)
	if c.RedisURL != "" {
		cache = "redis"
	}
	return fmt.Sprintf("addr=%s model=%s concurrency=%d cache=%s", c.Addr, model, c.MaxConcurrency, cache)
}
