// Package binding attaches caching to ordinary Go functions.
//
// Each cached operation is identified by an OperationID and registered once
// with a Registry, which builds its storage from a named Policy, registers
// that storage with a supervisor, and records the operation's region and key
// function. Calls resolve their registration lazily on first use.
//
//	id := binding.MustIDFor((*people.Store).GetPeople)
//	err := binding.Register[[]people.Person](reg, id,
//		binding.WithPolicy("short"),
//		binding.WithRegion("people"),
//		binding.WithKey(cache.KeyOf3(func(name string, lo, hi int) string {
//			return cache.JoinKey(name, lo, hi)
//		})))
//
//	search := binding.Wrap3(reg, id, store.GetPeople)
//	found, err := search(ctx, "Joa", 20, 25)
//
// Resolution fails with a *ConfigurationError, which matches
// cache.ErrConfiguration, when no registration or more than one exists for
// an id, or when the registered result type differs from the requested one.
package binding
