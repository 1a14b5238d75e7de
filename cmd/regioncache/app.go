package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/internal/people"
	"github.com/Sternrassler/regioncache/pkg/binding"
	"github.com/Sternrassler/regioncache/pkg/clock"
	"github.com/Sternrassler/regioncache/pkg/config"
	"github.com/Sternrassler/regioncache/pkg/supervisor"
)

// peoplePolicy is the policy built from the configured cache settings.
const peoplePolicy = "people"

// app holds the wired service.
type app struct {
	cfg    config.Config
	logger zerolog.Logger

	redis      *redis.Client
	supervisor *supervisor.Supervisor
	registry   *binding.Registry
	store      *people.Store
	people     *people.CachedStore
}

func newApp(ctx context.Context, cfg config.Config, store *people.Store, logger zerolog.Logger) (*app, error) {
	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}

	policy := binding.Policy{
		Name:       peoplePolicy,
		Expiration: cfg.ExpirationKind(),
		TTL:        cfg.Cache.TTL,
	}

	if cfg.UseRedis() {
		a.redis = redis.NewClient(cfg.RedisOptions())
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.redis.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		policy.Redis = a.redis
		policy.RedisPrefix = cfg.Redis.Prefix
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}

	policies, err := binding.NewPolicies(policy)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.supervisor = supervisor.New(supervisor.Options{
		Concurrency: cfg.Cache.ClearConcurrency,
		Logger:      logger.With().Str("component", "supervisor").Logger(),
	})

	a.registry, err = binding.NewRegistry(binding.Options{
		Supervisor: a.supervisor,
		Clock:      clock.System{},
		Logger:     logger.With().Str("component", "cache").Logger(),
		Policies:   policies,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := people.Register(a.registry, peoplePolicy); err != nil {
		a.Close()
		return nil, err
	}
	a.people = people.NewCachedStore(store, a.registry)

	return a, nil
}

// Close releases the Redis connection, if any.
func (a *app) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
