package people

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/regioncache/pkg/binding"
	"github.com/Sternrassler/regioncache/pkg/expiration"
)

func newRegistry(t *testing.T) *binding.Registry {
	t.Helper()
	policies, err := binding.NewPolicies(binding.Policy{
		Name:       "short",
		Expiration: expiration.KindAbsolute,
		TTL:        time.Minute,
	})
	require.NoError(t, err)

	r, err := binding.NewRegistry(binding.Options{Logger: zerolog.Nop(), Policies: policies})
	require.NoError(t, err)
	return r
}

func TestOperationIDs(t *testing.T) {
	const pkg = "github.com/Sternrassler/regioncache/internal/people"

	assert.Equal(t, binding.OperationID(pkg+".Store.GetPeople:string|int|int"), OpGetPeople)
	assert.Equal(t, binding.OperationID(pkg+".Store.GetPeopleByRequest:"+pkg+".Request"), OpGetPeopleByRequest)
	assert.Equal(t, binding.OperationID(pkg+".Store.GetAllPeople"), OpGetAllPeople)
}

func TestCachedStore_OneCallPerConfiguration(t *testing.T) {
	r := newRegistry(t)
	require.NoError(t, Register(r, "short"))

	store := NewStore()
	cached := NewCachedStore(store, r)
	ctx := context.Background()
	want := []Person{{Name: "Joan", Age: 21}}

	for i := 0; i < 2; i++ {
		got, err := cached.GetPeopleByRequest(ctx, Request{NameContains: "Joa", MinAge: 20, MaxAge: 25})
		require.NoError(t, err)
		assert.Equal(t, want, got)

		got, err = cached.GetPeople(ctx, "Joa", 20, 25)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	assert.Equal(t, Calls{Search: 1, SearchByRequest: 1}, store.Calls())
}

func TestCachedStore_ClearRegion(t *testing.T) {
	r := newRegistry(t)
	require.NoError(t, Register(r, binding.DefaultPolicyName))

	store := NewStore()
	cached := NewCachedStore(store, r)
	ctx := context.Background()

	_, err := cached.GetAllPeople(ctx)
	require.NoError(t, err)
	_, err = cached.GetAllPeople(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), store.Calls().All)

	require.NoError(t, r.Supervisor().ClearRegion(ctx, Region))

	_, err = cached.GetAllPeople(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), store.Calls().All)
}

func TestRegister_UnknownPolicy(t *testing.T) {
	r := newRegistry(t)
	assert.Error(t, Register(r, "missing"))
}
