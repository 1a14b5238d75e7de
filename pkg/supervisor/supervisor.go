// Package supervisor broadcasts cache invalidation to every registered storage.
//
// A Supervisor is an ordinary value: create one per process (or per test)
// and hand it to whatever builds storages. Registration is append-only.
package supervisor

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/regioncache/pkg/cache"
)

// DefaultConcurrency bounds how many storages are cleared at once.
const DefaultConcurrency = 8

// Options configures a Supervisor.
type Options struct {
	// Concurrency is the maximum number of storages cleared in parallel.
	// Values <= 0 use DefaultConcurrency.
	Concurrency int

	Logger zerolog.Logger
}

// Supervisor keeps the set of live storages and clears them on request.
type Supervisor struct {
	concurrency int
	logger      zerolog.Logger

	mu       sync.RWMutex
	storages []cache.Clearer
}

// New creates an empty Supervisor.
func New(opts Options) *Supervisor {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Supervisor{
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}
}

// Register adds storage to the set reached by future clears.
func (s *Supervisor) Register(storage cache.Clearer) error {
	if storage == nil {
		return fmt.Errorf("%w: storage is required", cache.ErrInvalidArgument)
	}

	s.mu.Lock()
	s.storages = append(s.storages, storage)
	n := len(s.storages)
	s.mu.Unlock()

	RegisteredStorages.Inc()
	s.logger.Debug().Int("storages", n).Msg("Storage registered")
	return nil
}

// Len returns the number of registered storages.
func (s *Supervisor) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.storages)
}

// ClearRegion clears region in every registered storage.
//
// All storages are attempted even when some fail; failures are reported
// together as a *PartialInvalidationError.
func (s *Supervisor) ClearRegion(ctx context.Context, region string) error {
	if err := cache.ValidateRegion(region); err != nil {
		return err
	}
	return s.broadcast(ctx, region, func(ctx context.Context, c cache.Clearer) error {
		return c.Clear(ctx, region)
	})
}

// ClearAll clears every region in every registered storage.
func (s *Supervisor) ClearAll(ctx context.Context) error {
	return s.broadcast(ctx, "", func(ctx context.Context, c cache.Clearer) error {
		return c.ClearAll(ctx)
	})
}

func (s *Supervisor) broadcast(ctx context.Context, region string, clear func(context.Context, cache.Clearer) error) error {
	s.mu.RLock()
	storages := make([]cache.Clearer, len(s.storages))
	copy(storages, s.storages)
	s.mu.RUnlock()

	if len(storages) == 0 {
		return nil
	}

	scope := "region"
	if region == "" {
		scope = "all"
	}

	var (
		mu       sync.Mutex
		failures []error
	)

	// Failures are collected rather than returned so that one broken storage
	// does not cancel the others.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, storage := range storages {
		g.Go(func() error {
			if err := clear(gctx, storage); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("storage %d: %w", i, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		InvalidationFailures.WithLabelValues(scope).Add(float64(len(failures)))
		s.logger.Warn().
			Str("region", region).
			Int("failed", len(failures)).
			Int("storages", len(storages)).
			Msg("Cache clear partially failed")
		return &PartialInvalidationError{Scope: region, Total: len(storages), Failures: failures}
	}

	s.logger.Debug().Str("region", region).Int("storages", len(storages)).Msg("Cache cleared")
	return nil
}
