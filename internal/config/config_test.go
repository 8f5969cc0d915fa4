package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultModelTimeout, cfg.ModelTimeout)
	assert.Equal(t, DefaultMaxConcurrency, cfg.MaxConcurrency)
	assert.Equal(t, DefaultCacheSize, cfg.CacheSize)
	assert.Empty(t, cfg.ModelURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "addr=:8080 model=procedural concurrency=1 cache=memory(1024)", cfg.String())
}

func TestFromEnvValues(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		EnvAddr:           "9090",
		EnvModelURL:       "http://model:8000/generate",
		EnvModelTimeout:   "90s",
		EnvMaxConcurrency: "4",
		EnvRedisURL:       "redis://localhost:6379/0",
		EnvCatalog:        " rooms.toml ",
		EnvTotalTimeout:   "10m",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 90*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 10*time.Minute, cfg.TotalTimeout)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "rooms.toml", cfg.Catalog)
	assert.Contains(t, cfg.String(), "cache=redis")
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]string{
		EnvModelTimeout:   "soon",
		EnvTotalTimeout:   "-1s",
		EnvMaxConcurrency: "0",
		EnvCacheSize:      "many",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(env(map[string]string{key: val}))
			assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FLOORGEN_MAX_CONCURRENCY=3\nFLOORGEN_ADDR=:7000\n"), 0o644))

	// process environment wins over the file
	t.Setenv(EnvAddr, ":7500")
	t.Setenv(EnvMaxConcurrency, "")
	os.Unsetenv(EnvMaxConcurrency)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7500", cfg.Addr)
	assert.Equal(t, 3, cfg.MaxConcurrency)
}
