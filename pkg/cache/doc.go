// Package cache provides region-partitioned caching with pluggable
// expiration and two storage backends.
//
// A Storage holds at most one value per (region, key). On a miss it invokes a
// caller-supplied Factory exactly once, stores the result and returns it.
// Factory errors are returned unchanged and nothing is stored.
//
// # Backends
//
//   - MemoryStorage keeps entries in process memory and delegates validity
//     decisions to an expiration.Strategy.
//   - RedisStorage keeps entries as JSON envelopes in one Redis hash per
//     region, with lazy expiry on read.
//
// # Basic Usage
//
//	strategy, _ := expiration.New(expiration.KindAbsolute, 10*time.Minute, nil, logger)
//	store, err := cache.NewMemoryStorage[[]Person](strategy, logger)
//	if err != nil {
//		return err
//	}
//
//	people, err := store.GetOrAdd(ctx, cache.JoinKey("Joa", 20, 25),
//		func(ctx context.Context, key string) ([]Person, error) {
//			return repo.GetPeople("Joa", 20, 25), nil
//		}, "people")
//
// # Regions
//
// Regions scope invalidation. Clear(ctx, region) evicts one region and leaves
// every other region untouched; ClearAll evicts everything. A blank region is
// rejected with ErrInvalidArgument before any state changes.
//
// # Concurrency
//
// Both backends serialize every operation, including the factory call,
// behind one mutex per storage instance. Population is therefore
// at-most-once per key, at the cost of throughput when factories are slow.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - regioncache_hits_total{backend}
//   - regioncache_misses_total{backend}
//   - regioncache_factory_errors_total{backend}
//   - regioncache_populate_duration_seconds{backend}
//   - regioncache_clears_total{backend,scope}
//   - regioncache_errors_total{operation}
package cache
