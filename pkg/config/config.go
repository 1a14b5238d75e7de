// Package config loads regioncache settings from the environment and,
// optionally, a configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/regioncache/pkg/expiration"
	"github.com/Sternrassler/regioncache/pkg/logging"
)

// ErrInvalidConfig indicates a setting is present but unusable.
var ErrInvalidConfig = errors.New("invalid configuration")

// Log configures logging.
type Log struct {
	Level  string `yaml:"level" toml:"level" env:"LOG_LEVEL" env-default:"info" env-description:"debug, info, warn, error or disabled"`
	Pretty bool   `yaml:"pretty" toml:"pretty" env:"LOG_PRETTY" env-default:"false" env-description:"human-readable console output"`
}

// Redis configures the optional Redis backend.
type Redis struct {
	// Addr selects the Redis backend when set. Empty keeps caches in memory.
	Addr   string `yaml:"addr" toml:"addr" env:"REDIS_ADDR" env-description:"Redis address; empty uses in-memory storage"`
	DB     int    `yaml:"db" toml:"db" env:"REDIS_DB" env-default:"0"`
	Prefix string `yaml:"prefix" toml:"prefix" env:"REDIS_PREFIX" env-default:"regioncache"`
}

// Cache configures the default cache policy.
type Cache struct {
	Expiration       string        `yaml:"expiration" toml:"expiration" env:"CACHE_EXPIRATION" env-default:"absolute" env-description:"none, absolute or sliding"`
	TTL              time.Duration `yaml:"ttl" toml:"ttl" env:"CACHE_TTL" env-default:"5m"`
	ClearConcurrency int           `yaml:"clear_concurrency" toml:"clear_concurrency" env:"CACHE_CLEAR_CONCURRENCY" env-default:"8"`
}

// Server configures the sample HTTP server.
type Server struct {
	Port int `yaml:"port" toml:"port" env:"PORT" env-default:"8080"`
}

// Config is the complete application configuration.
type Config struct {
	Log    Log    `yaml:"log" toml:"log"`
	Redis  Redis  `yaml:"redis" toml:"redis"`
	Cache  Cache  `yaml:"cache" toml:"cache"`
	Server Server `yaml:"server" toml:"server"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads the configuration from path (YAML, TOML, JSON or .env).
// Environment variables and defaults are applied on top of the file.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: LOG_LEVEL: %v", ErrInvalidConfig, err)
	}

	kind, err := expiration.ParseKind(c.Cache.Expiration)
	if err != nil {
		return fmt.Errorf("%w: CACHE_EXPIRATION: %v", ErrInvalidConfig, err)
	}
	if kind != expiration.KindNone && c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: CACHE_TTL must be positive for %s expiration", ErrInvalidConfig, kind)
	}

	if c.Cache.ClearConcurrency <= 0 {
		return fmt.Errorf("%w: CACHE_CLEAR_CONCURRENCY must be positive", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: PORT %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("%w: REDIS_DB must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ExpirationKind returns the parsed default expiration kind.
// It assumes Validate has passed.
func (c Config) ExpirationKind() expiration.Kind {
	kind, _ := expiration.ParseKind(c.Cache.Expiration)
	return kind
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.Config{
		Level:  level,
		Pretty: c.Log.Pretty,
		Output: os.Stderr,
	}
}

// UseRedis reports whether the Redis backend is configured.
func (c Config) UseRedis() bool {
	return c.Redis.Addr != ""
}

// RedisOptions returns client options for the configured Redis.
func (c Config) RedisOptions() *redis.Options {
	return &redis.Options{
		Addr: c.Redis.Addr,
		DB:   c.Redis.DB,
	}
}

// Usage returns a description of every environment variable.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}
