package people

import (
	"context"

	"github.com/Sternrassler/regioncache/pkg/binding"
	"github.com/Sternrassler/regioncache/pkg/cache"
)

// Region holds every cached people lookup.
const Region = "people"

// Operation ids of the cached store methods.
var (
	OpGetPeople          = binding.MustIDFor((*Store).GetPeople)
	OpGetPeopleByRequest = binding.MustIDFor((*Store).GetPeopleByRequest)
	OpGetAllPeople       = binding.MustIDFor((*Store).GetAllPeople)
)

// Register binds the store's operations under policy in Region.
func Register(r *binding.Registry, policy string) error {
	if err := binding.Register[[]Person](r, OpGetPeople,
		binding.WithPolicy(policy),
		binding.WithRegion(Region),
		binding.WithKey(cache.KeyOf3(func(name string, minAge, maxAge int) string {
			return cache.JoinKey(name, minAge, maxAge)
		})),
	); err != nil {
		return err
	}

	if err := binding.Register[[]Person](r, OpGetPeopleByRequest,
		binding.WithPolicy(policy),
		binding.WithRegion(Region),
		binding.WithKey(cache.KeyOf1(func(req Request) string {
			return cache.JoinKey(req.NameContains, req.MinAge, req.MaxAge)
		})),
	); err != nil {
		return err
	}

	return binding.Register[[]Person](r, OpGetAllPeople,
		binding.WithPolicy(policy),
		binding.WithRegion(Region),
	)
}

// CachedStore exposes the Store's lookups through the cache.
type CachedStore struct {
	GetPeople          func(ctx context.Context, name string, minAge, maxAge int) ([]Person, error)
	GetPeopleByRequest func(ctx context.Context, req Request) ([]Person, error)
	GetAllPeople       func(ctx context.Context) ([]Person, error)
}

// NewCachedStore wraps store. The operations must already be registered
// with r, see Register.
func NewCachedStore(store *Store, r *binding.Registry) *CachedStore {
	return &CachedStore{
		GetPeople:          binding.Wrap3(r, OpGetPeople, store.GetPeople),
		GetPeopleByRequest: binding.Wrap1(r, OpGetPeopleByRequest, store.GetPeopleByRequest),
		GetAllPeople:       binding.Wrap0(r, OpGetAllPeople, store.GetAllPeople),
	}
}
