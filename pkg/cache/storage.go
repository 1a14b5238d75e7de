package cache

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=storage.go -destination=../../mocks/mockcache/mock_storage.go -package=mockcache

// DefaultRegion is used when a cached operation is not assigned a region.
const DefaultRegion = "default"

// Factory produces the value for key on a cache miss.
type Factory[T any] func(ctx context.Context, key string) (T, error)

// Clearer is the invalidation half of the storage contract. It is all the
// supervisor needs to broadcast region and global clears.
type Clearer interface {
	// Clear removes every entry in region. Clearing an unknown region is a no-op.
	Clear(ctx context.Context, region string) error

	// ClearAll removes every entry in every region.
	ClearAll(ctx context.Context) error
}

// Storage is the contract every cache backend honours.
//
// Implementations must store at most one value per (region, key), invoke
// the factory at most once per observed miss, never store a failed
// population, and reject blank regions with ErrInvalidArgument before any
// side effect.
type Storage[T any] interface {
	Clearer

	// GetOrAdd returns the cached value for key in region, producing and
	// storing it with factory when absent or expired. Factory errors are
	// returned unchanged.
	GetOrAdd(ctx context.Context, key string, factory Factory[T], region string) (T, error)

	// Set stores value for key in region unconditionally.
	Set(ctx context.Context, key string, value T, region string) error
}
