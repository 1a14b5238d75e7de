package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/pkg/clock"
)

// DefaultRedisPrefix is used when RedisOptions.Prefix is empty.
const DefaultRedisPrefix = "regioncache"

// RedisOptions configures a RedisStorage.
type RedisOptions struct {
	// Prefix namespaces every key written by the storage.
	Prefix string

	// TTL is the lifetime of an entry. Zero disables expiration.
	TTL time.Duration

	// Sliding refreshes the deadline on every hit. Requires TTL > 0.
	Sliding bool

	// Clock supplies the current time. Defaults to clock.System.
	Clock clock.Clock
}

// RedisStorage is a Storage backed by Redis.
//
// Each region is one hash (<prefix>:region:<region>) whose fields are cache
// keys and whose values are JSON envelopes. The set <prefix>:regions indexes
// the regions that currently hold data. Expiry is evaluated lazily on read.
//
// Population is serialized by a process-local mutex, so at-most-once factory
// invocation only holds within one process.
type RedisStorage[T any] struct {
	redis  *redis.Client
	opts   RedisOptions
	logger zerolog.Logger

	mu sync.Mutex
}

var _ Storage[int] = (*RedisStorage[int])(nil)

// NewRedisStorage creates a RedisStorage using client.
func NewRedisStorage[T any](client *redis.Client, opts RedisOptions, logger zerolog.Logger) (*RedisStorage[T], error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrInvalidArgument)
	}
	if opts.TTL < 0 {
		return nil, fmt.Errorf("%w: negative ttl %s", ErrInvalidArgument, opts.TTL)
	}
	if opts.Sliding && opts.TTL == 0 {
		return nil, fmt.Errorf("%w: sliding expiration requires a ttl", ErrInvalidArgument)
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultRedisPrefix
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	return &RedisStorage[T]{
		redis:  client,
		opts:   opts,
		logger: logger,
	}, nil
}

func (s *RedisStorage[T]) regionKey(region string) string {
	return s.opts.Prefix + ":region:" + region
}

func (s *RedisStorage[T]) indexKey() string {
	return s.opts.Prefix + ":regions"
}

// GetOrAdd implements Storage.
func (s *RedisStorage[T]) GetOrAdd(ctx context.Context, key string, factory Factory[T], region string) (T, error) {
	var zero T
	if err := ValidateRegion(region); err != nil {
		return zero, err
	}
	if factory == nil {
		return zero, fmt.Errorf("%w: factory is required", ErrInvalidArgument)
	}

	s.logger.Debug().Str("region", region).Str("key", key).Msg("Checking cache")

	s.mu.Lock()
	defer s.mu.Unlock()

	v, hit, err := s.get(ctx, region, key)
	if err != nil {
		return zero, err
	}
	if hit {
		CacheHits.WithLabelValues(backendRedis).Inc()
		s.logger.Debug().Str("region", region).Str("key", key).Msg("Returning data from cache")
		return v, nil
	}

	CacheMisses.WithLabelValues(backendRedis).Inc()
	s.logger.Debug().Str("region", region).Str("key", key).Msg("Caching data")

	start := time.Now()
	v, err = factory(ctx, key)
	PopulateDuration.WithLabelValues(backendRedis).Observe(time.Since(start).Seconds())
	if err != nil {
		FactoryErrors.WithLabelValues(backendRedis).Inc()
		return zero, err
	}

	if err := s.put(ctx, region, key, v); err != nil {
		return zero, err
	}
	return v, nil
}

// Set implements Storage.
func (s *RedisStorage[T]) Set(ctx context.Context, key string, value T, region string) error {
	if err := ValidateRegion(region); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.put(ctx, region, key, value); err != nil {
		return err
	}
	s.logger.Debug().Str("region", region).Str("key", key).Msg("Data has been cached")
	return nil
}

// Clear implements Clearer.
func (s *RedisStorage[T]) Clear(ctx context.Context, region string) error {
	if err := ValidateRegion(region); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.regionKey(region))
		pipe.SRem(ctx, s.indexKey(), region)
		return nil
	})
	if err != nil {
		CacheErrors.WithLabelValues("clear").Inc()
		return fmt.Errorf("redis clear region %q: %w", region, err)
	}

	CacheClears.WithLabelValues(backendRedis, "region").Inc()
	s.logger.Debug().Str("region", region).Msg("Cache region cleared")
	return nil
}

// ClearAll implements Clearer.
func (s *RedisStorage[T]) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	regions, err := s.redis.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		CacheErrors.WithLabelValues("clear").Inc()
		return fmt.Errorf("redis list regions: %w", err)
	}

	keys := make([]string, 0, len(regions)+1)
	for _, region := range regions {
		keys = append(keys, s.regionKey(region))
	}
	keys = append(keys, s.indexKey())

	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		CacheErrors.WithLabelValues("clear").Inc()
		return fmt.Errorf("redis clear all: %w", err)
	}

	CacheClears.WithLabelValues(backendRedis, "all").Inc()
	s.logger.Debug().Int("regions", len(regions)).Msg("Entire cache cleared")
	return nil
}

// Len returns the number of entries stored in region, expired ones included.
func (s *RedisStorage[T]) Len(ctx context.Context, region string) (int64, error) {
	n, err := s.redis.HLen(ctx, s.regionKey(region)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hlen: %w", err)
	}
	return n, nil
}

// get must be called with s.mu held. It reports a miss for absent, expired
// and undecodable entries alike. Undecodable entries are removed.
func (s *RedisStorage[T]) get(ctx context.Context, region, key string) (T, bool, error) {
	var zero T

	data, err := s.redis.HGet(ctx, s.regionKey(region), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		CacheErrors.WithLabelValues("get").Inc()
		return zero, false, fmt.Errorf("redis hget: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, false, s.discard(ctx, region, key, err)
	}

	now := s.opts.Clock.Now()
	if env.IsExpired(now) {
		return zero, false, nil
	}

	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return zero, false, s.discard(ctx, region, key, err)
	}

	if s.opts.Sliding {
		env.Expires = now.Add(s.opts.TTL)
		if err := s.write(ctx, region, key, &env); err != nil {
			s.logger.Warn().Err(err).Str("region", region).Str("key", key).Msg("Failed to refresh sliding expiration")
		}
	}

	return v, true, nil
}

// discard drops an entry that could not be decoded so the caller can
// repopulate it.
func (s *RedisStorage[T]) discard(ctx context.Context, region, key string, cause error) error {
	CacheErrors.WithLabelValues("decode").Inc()
	s.logger.Warn().Err(cause).Str("region", region).Str("key", key).Msg("Discarding invalid cache entry")

	if err := s.redis.HDel(ctx, s.regionKey(region), key).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("%w: %v (delete failed: %v)", ErrInvalidEntry, cause, err)
	}
	return nil
}

// put must be called with s.mu held.
func (s *RedisStorage[T]) put(ctx context.Context, region, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	now := s.opts.Clock.Now()
	env := Envelope{Data: data, CachedAt: now}
	if s.opts.TTL > 0 {
		env.Expires = now.Add(s.opts.TTL)
	}
	return s.write(ctx, region, key, &env)
}

func (s *RedisStorage[T]) write(ctx context.Context, region, key string, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache envelope: %w", err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.regionKey(region), key, data)
		pipe.SAdd(ctx, s.indexKey(), region)
		return nil
	})
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}
