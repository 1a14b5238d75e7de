package binding

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/pkg/cache"
	"github.com/Sternrassler/regioncache/pkg/clock"
	"github.com/Sternrassler/regioncache/pkg/expiration"
	"github.com/Sternrassler/regioncache/pkg/supervisor"
)

// Options configures a Registry.
type Options struct {
	// Supervisor receives every storage the registry builds. When nil the
	// registry creates a private one.
	Supervisor *supervisor.Supervisor

	// Clock drives expiration. Defaults to clock.System.
	Clock clock.Clock

	Logger zerolog.Logger

	// Policies available to registrations. Defaults to DefaultPolicy only.
	Policies *Policies
}

// Registry binds cached operations to their storage, region and key function.
type Registry struct {
	supervisor *supervisor.Supervisor
	clock      clock.Clock
	logger     zerolog.Logger
	policies   *Policies

	mu            sync.RWMutex
	registrations []registration

	// resolved caches successful lookups by OperationID.
	resolved sync.Map
}

type registration struct {
	id      OperationID
	binding any // *Binding[T]
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts Options) (*Registry, error) {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Supervisor == nil {
		opts.Supervisor = supervisor.New(supervisor.Options{Logger: opts.Logger})
	}
	if opts.Policies == nil {
		p, err := NewPolicies()
		if err != nil {
			return nil, err
		}
		opts.Policies = p
	}
	return &Registry{
		supervisor: opts.Supervisor,
		clock:      opts.Clock,
		logger:     opts.Logger,
		policies:   opts.Policies,
	}, nil
}

// Supervisor returns the supervisor that owns the registry's storages.
func (r *Registry) Supervisor() *supervisor.Supervisor {
	return r.supervisor
}

// Policies returns the registry's policy set.
func (r *Registry) Policies() *Policies {
	return r.policies
}

// Binding is a resolved cached operation.
type Binding[T any] struct {
	ID      OperationID
	Region  string
	Policy  string
	Key     cache.KeyFunc
	Storage cache.Storage[T]
}

// Get returns the cached result for args, running call on a miss.
func (b *Binding[T]) Get(ctx context.Context, args []any, call func(context.Context) (T, error)) (T, error) {
	var zero T
	key, err := b.Key(args...)
	if err != nil {
		return zero, fmt.Errorf("operation %q: %w", b.ID, err)
	}
	return b.Storage.GetOrAdd(ctx, key, func(ctx context.Context, _ string) (T, error) {
		return call(ctx)
	}, b.Region)
}

// Option customizes a registration.
type Option func(*registerOptions)

type registerOptions struct {
	key    cache.KeyFunc
	policy string
	region string
}

// WithKey sets the function that turns call arguments into a cache key.
// Without it, calls without arguments use "NO_ARGS_<method>" and other
// calls join their arguments with cache.JoinKey.
func WithKey(fn cache.KeyFunc) Option {
	return func(o *registerOptions) { o.key = fn }
}

// WithPolicy selects a policy by name.
func WithPolicy(name string) Option {
	return func(o *registerOptions) { o.policy = name }
}

// WithRegion places the operation's entries in region.
func WithRegion(region string) Option {
	return func(o *registerOptions) { o.region = region }
}

// Register builds storage for the operation id and registers it with the
// supervisor. Registering the same id twice is allowed, but resolving it
// afterwards fails with a ConfigurationError.
func Register[T any](r *Registry, id OperationID, opts ...Option) error {
	if id == "" {
		return fmt.Errorf("%w: operation id cannot be empty", cache.ErrInvalidArgument)
	}

	o := registerOptions{
		policy: DefaultPolicyName,
		region: cache.DefaultRegion,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cache.ValidateRegion(o.region); err != nil {
		return err
	}
	if o.key == nil {
		o.key = defaultKey(id)
	}

	policy, err := r.policies.Get(o.policy)
	if err != nil {
		r.logger.Error().Err(err).Str("operation", string(id)).Msg("Cannot register cached operation")
		return err
	}

	storage, err := newStorage[T](r, id, policy)
	if err != nil {
		return fmt.Errorf("operation %q: %w", id, err)
	}
	if err := r.supervisor.Register(storage); err != nil {
		return err
	}

	b := &Binding[T]{
		ID:      id,
		Region:  o.region,
		Policy:  policy.Name,
		Key:     o.key,
		Storage: storage,
	}

	r.mu.Lock()
	r.registrations = append(r.registrations, registration{id: id, binding: b})
	r.resolved.Delete(id)
	r.mu.Unlock()

	r.logger.Debug().
		Str("operation", string(id)).
		Str("policy", policy.Name).
		Str("region", o.region).
		Msg("Cached operation registered")
	return nil
}

// Resolve returns the single binding registered for id. The first successful
// lookup is cached; failures are not, so a later registration can fix them.
// A registration evicts the cached lookup for its id.
func Resolve[T any](r *Registry, id OperationID) (*Binding[T], error) {
	if v, ok := r.resolved.Load(id); ok {
		if b, ok := v.(*Binding[T]); ok {
			return b, nil
		}
	}

	// The read lock is held until the result is stored so that a concurrent
	// Register cannot evict before the store.
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []registration
	for _, reg := range r.registrations {
		if reg.id == id {
			matches = append(matches, reg)
		}
	}

	switch len(matches) {
	case 0:
		return nil, noMatches(id)
	case 1:
	default:
		return nil, duplicateMatches(id, len(matches))
	}

	b, ok := matches[0].binding.(*Binding[T])
	if !ok {
		var want T
		return nil, &ConfigurationError{
			ID:      id,
			Matches: 1,
			Reason:  fmt.Sprintf("registered result type does not match %T", want),
		}
	}

	r.resolved.Store(id, b)
	return b, nil
}

// Invoke resolves id and returns the cached result for args, running call on
// a miss.
func Invoke[T any](ctx context.Context, r *Registry, id OperationID, args []any, call func(context.Context) (T, error)) (T, error) {
	b, err := Resolve[T](r, id)
	if err != nil {
		var zero T
		r.logger.Error().Err(err).Str("operation", string(id)).Msg("Cannot resolve cached operation")
		return zero, err
	}
	return b.Get(ctx, args, call)
}

func defaultKey(id OperationID) cache.KeyFunc {
	noArgs := "NO_ARGS_" + id.Method()
	return func(args ...any) (string, error) {
		if len(args) == 0 {
			return noArgs, nil
		}
		return cache.JoinKey(args...), nil
	}
}

func newStorage[T any](r *Registry, id OperationID, policy Policy) (cache.Storage[T], error) {
	kind, err := expiration.ParseKind(string(policy.Expiration))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cache.ErrInvalidArgument, err)
	}
	if kind != expiration.KindNone && policy.TTL <= 0 {
		return nil, fmt.Errorf("%w: %w: %s expiration got %v",
			cache.ErrInvalidArgument, expiration.ErrInvalidDuration, kind, policy.TTL)
	}

	if policy.Redis != nil {
		prefix := policy.RedisPrefix
		if prefix == "" {
			prefix = cache.DefaultRedisPrefix
		}
		opts := cache.RedisOptions{
			Prefix:  prefix + ":" + string(id),
			Sliding: kind == expiration.KindSliding,
			Clock:   r.clock,
		}
		if kind != expiration.KindNone {
			opts.TTL = policy.TTL
		}
		return cache.NewRedisStorage[T](policy.Redis, opts, r.logger)
	}

	strategy, err := expiration.New(kind, policy.TTL, r.clock, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cache.ErrInvalidArgument, err)
	}
	return cache.NewMemoryStorage[T](strategy, r.logger)
}
