package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/regioncache/pkg/expiration"
	"github.com/Sternrassler/regioncache/pkg/logging"
)

func valid() Config {
	return Config{
		Log:    Log{Level: "info"},
		Redis:  Redis{Prefix: "regioncache"},
		Cache:  Cache{Expiration: "absolute", TTL: time.Minute, ClearConcurrency: 4},
		Server: Server{Port: 8080},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "regioncache", cfg.Redis.Prefix)
	assert.Equal(t, "absolute", cfg.Cache.Expiration)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 8, cfg.Cache.ClearConcurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.UseRedis())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_EXPIRATION", "sliding")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CACHE_CLEAR_CONCURRENCY", "2")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, expiration.KindSliding, cfg.ExpirationKind())
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 2, cfg.Cache.ClearConcurrency)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.UseRedis())

	opts := cfg.RedisOptions()
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)

	lc := cfg.Logging()
	assert.Equal(t, logging.LevelDebug, lc.Level)
	assert.True(t, lc.Pretty)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("CACHE_EXPIRATION", "forever")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "none expiration without ttl", mutate: func(c *Config) {
			c.Cache.Expiration = "none"
			c.Cache.TTL = 0
		}},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "unknown expiration", mutate: func(c *Config) { c.Cache.Expiration = "lru" }, wantErr: true},
		{name: "absolute without ttl", mutate: func(c *Config) { c.Cache.TTL = 0 }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.Cache.ClearConcurrency = 0 }, wantErr: true},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "negative redis db", mutate: func(c *Config) { c.Redis.DB = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		content := "log:\n  level: warn\ncache:\n  expiration: none\n  ttl: 0s\n  clear_concurrency: 3\nserver:\n  port: 8181\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, expiration.KindNone, cfg.ExpirationKind())
		assert.Equal(t, 3, cfg.Cache.ClearConcurrency)
		assert.Equal(t, 8181, cfg.Server.Port)
	})

	t.Run("toml", func(t *testing.T) {
		path := filepath.Join(dir, "config.toml")
		content := "[cache]\nexpiration = \"sliding\"\nttl = \"2m\"\nclear_concurrency = 5\n\n[server]\nport = 8282\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, expiration.KindSliding, cfg.ExpirationKind())
		assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, 8282, cfg.Server.Port)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestUsage(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "REDIS_ADDR")
	assert.Contains(t, usage, "CACHE_EXPIRATION")
}
