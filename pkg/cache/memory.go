package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/pkg/expiration"
)

// MemoryStorage is an in-process Storage partitioned by region.
//
// Every operation, including the factory call on a miss, runs under one
// instance-wide mutex. This makes population at-most-once per key and keeps
// clears from racing populations, but a slow factory blocks all other
// operations on the same instance until it returns.
type MemoryStorage[T any] struct {
	strategy expiration.Strategy
	logger   zerolog.Logger

	mu      sync.Mutex
	regions map[string]map[string]T
}

var _ Storage[int] = (*MemoryStorage[int])(nil)

// NewMemoryStorage creates an empty MemoryStorage that owns strategy.
func NewMemoryStorage[T any](strategy expiration.Strategy, logger zerolog.Logger) (*MemoryStorage[T], error) {
	if strategy == nil {
		return nil, fmt.Errorf("%w: expiration strategy is required", ErrInvalidArgument)
	}
	return &MemoryStorage[T]{
		strategy: strategy,
		logger:   logger,
		regions:  make(map[string]map[string]T),
	}, nil
}

// GetOrAdd implements Storage.
func (s *MemoryStorage[T]) GetOrAdd(ctx context.Context, key string, factory Factory[T], region string) (T, error) {
	var zero T
	if err := ValidateRegion(region); err != nil {
		return zero, err
	}
	if factory == nil {
		return zero, fmt.Errorf("%w: factory is required", ErrInvalidArgument)
	}

	ck := expiration.CompositeKey{Region: region, Key: key}
	s.logger.Debug().Str("region", region).Str("key", key).Msg("Checking cache")

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.regions[region]
	if s.strategy.IsValid(ck) {
		if v, ok := entries[key]; ok {
			s.strategy.OnHit(ck)
			CacheHits.WithLabelValues(backendMemory).Inc()
			s.logger.Debug().Str("region", region).Str("key", key).Msg("Returning data from cache")
			return v, nil
		}
	}

	if entries != nil {
		delete(entries, key)
	}

	CacheMisses.WithLabelValues(backendMemory).Inc()
	s.logger.Debug().Str("region", region).Str("key", key).Msg("Caching data")

	start := time.Now()
	v, err := factory(ctx, key)
	PopulateDuration.WithLabelValues(backendMemory).Observe(time.Since(start).Seconds())
	if err != nil {
		FactoryErrors.WithLabelValues(backendMemory).Inc()
		return zero, err
	}

	s.store(region, key, v)
	s.strategy.OnSet(ck)

	return v, nil
}

// Set implements Storage.
func (s *MemoryStorage[T]) Set(_ context.Context, key string, value T, region string) error {
	if err := ValidateRegion(region); err != nil {
		return err
	}

	s.mu.Lock()
	s.store(region, key, value)
	s.strategy.OnSet(expiration.CompositeKey{Region: region, Key: key})
	s.mu.Unlock()

	s.logger.Debug().Str("region", region).Str("key", key).Msg("Data has been cached")
	return nil
}

// Clear implements Clearer.
func (s *MemoryStorage[T]) Clear(_ context.Context, region string) error {
	if err := ValidateRegion(region); err != nil {
		return err
	}

	s.mu.Lock()
	entries, ok := s.regions[region]
	if ok {
		delete(s.regions, region)
		for key := range entries {
			s.strategy.Invalidate(expiration.CompositeKey{Region: region, Key: key})
		}
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}

	CacheClears.WithLabelValues(backendMemory, "region").Inc()
	s.logger.Debug().Str("region", region).Int("entries", len(entries)).Msg("Cache region cleared")
	return nil
}

// ClearAll implements Clearer.
func (s *MemoryStorage[T]) ClearAll(_ context.Context) error {
	s.mu.Lock()
	clear(s.regions)
	s.strategy.InvalidateAll()
	s.mu.Unlock()

	CacheClears.WithLabelValues(backendMemory, "all").Inc()
	s.logger.Debug().Msg("Entire cache cleared")
	return nil
}

// Len returns the number of entries stored in region.
func (s *MemoryStorage[T]) Len(region string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regions[region])
}

// store must be called with s.mu held.
func (s *MemoryStorage[T]) store(region, key string, v T) {
	entries, ok := s.regions[region]
	if !ok {
		entries = make(map[string]T)
		s.regions[region] = entries
	}
	entries[key] = v
}
