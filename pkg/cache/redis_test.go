package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/internal/testutil"
	"github.com/Sternrassler/regioncache/pkg/clock"
)

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func newRedis[T any](t *testing.T, client *redis.Client, opts RedisOptions) *RedisStorage[T] {
	t.Helper()
	s, err := NewRedisStorage[T](client, opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRedisStorage() error = %v", err)
	}
	return s
}

func TestNewRedisStorage_Validation(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	tests := []struct {
		name    string
		client  *redis.Client
		opts    RedisOptions
		wantErr bool
	}{
		{name: "nil client", client: nil, wantErr: true},
		{name: "negative ttl", client: client, opts: RedisOptions{TTL: -time.Second}, wantErr: true},
		{name: "sliding without ttl", client: client, opts: RedisOptions{Sliding: true}, wantErr: true},
		{name: "defaults", client: client},
		{name: "sliding with ttl", client: client, opts: RedisOptions{TTL: time.Minute, Sliding: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewRedisStorage[string](tt.client, tt.opts, zerolog.Nop())
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("error = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.opts.Prefix == "" {
				t.Error("prefix should default")
			}
			if s.opts.Clock == nil {
				t.Error("clock should default")
			}
		})
	}
}

func TestRedisStorage_KeyLayout(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	s := newRedis[string](t, client, RedisOptions{Prefix: "app"})
	if got := s.regionKey("people"); got != "app:region:people" {
		t.Errorf("regionKey() = %q", got)
	}
	if got := s.indexKey(); got != "app:regions" {
		t.Errorf("indexKey() = %q", got)
	}
}

func TestRedisStorage_GetOrAdd(t *testing.T) {
	client := testutil.ConnectRedis(t)
	s := newRedis[[]person](t, client, RedisOptions{})
	ctx := context.Background()

	calls := 0
	factory := func(context.Context, string) ([]person, error) {
		calls++
		return []person{{Name: "Joan", Age: 21}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := s.GetOrAdd(ctx, "Joa_20_25", factory, "people")
		if err != nil {
			t.Fatalf("GetOrAdd() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "Joan" || got[0].Age != 21 {
			t.Fatalf("GetOrAdd() = %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("factory calls = %d, want 1", calls)
	}

	n, err := s.Len(ctx, "people")
	if err != nil || n != 1 {
		t.Errorf("Len() = %d, %v, want 1", n, err)
	}
}

func TestRedisStorage_FactoryErrorNotCached(t *testing.T) {
	client := testutil.ConnectRedis(t)
	s := newRedis[string](t, client, RedisOptions{})
	ctx := context.Background()
	upstream := errors.New("upstream down")

	_, err := s.GetOrAdd(ctx, "k", func(context.Context, string) (string, error) {
		return "", upstream
	}, "r")
	if err != upstream {
		t.Fatalf("error = %v, want upstream error unchanged", err)
	}

	n, _ := s.Len(ctx, "r")
	if n != 0 {
		t.Errorf("Len() = %d after failure, want 0", n)
	}
}

func TestRedisStorage_ClearRegion(t *testing.T) {
	client := testutil.ConnectRedis(t)
	s := newRedis[string](t, client, RedisOptions{})
	ctx := context.Background()

	counts := map[string]int{}
	factory := func(region string) Factory[string] {
		return func(_ context.Context, key string) (string, error) {
			counts[region]++
			return region + ":" + key, nil
		}
	}

	_, _ = s.GetOrAdd(ctx, "k", factory("r1"), "r1")
	_, _ = s.GetOrAdd(ctx, "k", factory("r2"), "r2")

	if err := s.Clear(ctx, "r1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	_, _ = s.GetOrAdd(ctx, "k", factory("r1"), "r1")
	_, _ = s.GetOrAdd(ctx, "k", factory("r2"), "r2")

	if counts["r1"] != 2 || counts["r2"] != 1 {
		t.Errorf("factory calls = %v, want r1=2 r2=1", counts)
	}
}

func TestRedisStorage_ClearAll(t *testing.T) {
	client := testutil.ConnectRedis(t)
	s := newRedis[string](t, client, RedisOptions{Prefix: "clearall"})
	ctx := context.Background()

	for _, region := range []string{"a", "b"} {
		if err := s.Set(ctx, "k", "v", region); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	n, err := client.Exists(ctx, "clearall:region:a", "clearall:region:b", "clearall:regions").Result()
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if n != 0 {
		t.Errorf("%d keys remain after ClearAll", n)
	}
}

func TestRedisStorage_AbsoluteExpiry(t *testing.T) {
	client := testutil.ConnectRedis(t)
	clk := clock.NewManual(t0)
	s := newRedis[string](t, client, RedisOptions{TTL: 10 * time.Second, Clock: clk})
	ctx := context.Background()

	calls := 0
	factory := func(context.Context, string) (string, error) {
		calls++
		return "v", nil
	}

	_, _ = s.GetOrAdd(ctx, "k", factory, "r")
	clk.Set(t0.Add(10 * time.Second))
	_, _ = s.GetOrAdd(ctx, "k", factory, "r")
	if calls != 1 {
		t.Fatalf("factory calls at deadline = %d, want 1", calls)
	}

	clk.Advance(time.Millisecond)
	_, _ = s.GetOrAdd(ctx, "k", factory, "r")
	if calls != 2 {
		t.Errorf("factory calls after deadline = %d, want 2", calls)
	}
}

func TestRedisStorage_SlidingExpiry(t *testing.T) {
	client := testutil.ConnectRedis(t)
	clk := clock.NewManual(t0)
	s := newRedis[string](t, client, RedisOptions{TTL: 10 * time.Second, Sliding: true, Clock: clk})
	ctx := context.Background()

	calls := 0
	factory := func(context.Context, string) (string, error) {
		calls++
		return "v", nil
	}

	_, _ = s.GetOrAdd(ctx, "k", factory, "r")
	for i := 0; i < 3; i++ {
		clk.Advance(8 * time.Second)
		_, _ = s.GetOrAdd(ctx, "k", factory, "r")
	}
	if calls != 1 {
		t.Fatalf("factory calls with hits = %d, want 1", calls)
	}

	clk.Advance(11 * time.Second)
	_, _ = s.GetOrAdd(ctx, "k", factory, "r")
	if calls != 2 {
		t.Errorf("factory calls after idle period = %d, want 2", calls)
	}
}

func TestRedisStorage_InvalidEntryRepopulated(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed envelope", "not json"},
		{"payload of another type", `{"data":{"name":"John"},"cached_at":"2024-03-01T09:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutil.ConnectRedis(t)
			s := newRedis[string](t, client, RedisOptions{})
			ctx := context.Background()

			if err := client.HSet(ctx, s.regionKey("r"), "k", tt.raw).Err(); err != nil {
				t.Fatalf("HSet() error = %v", err)
			}

			calls := 0
			factory := func(context.Context, string) (string, error) {
				calls++
				return "v", nil
			}

			for i := 0; i < 2; i++ {
				got, err := s.GetOrAdd(ctx, "k", factory, "r")
				if err != nil {
					t.Fatalf("GetOrAdd() error = %v", err)
				}
				if got != "v" {
					t.Errorf("GetOrAdd() = %q, want %q", got, "v")
				}
			}
			if calls != 1 {
				t.Errorf("factory calls = %d, want 1", calls)
			}
		})
	}
}

// failPipelines fails every pipelined and transactional command.
type failPipelines struct{}

func (failPipelines) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failPipelines) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (failPipelines) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(context.Context, []redis.Cmder) error {
		return errors.New("pipeline unavailable")
	}
}

func TestRedisStorage_SlidingRefreshFailureKeepsHit(t *testing.T) {
	client := testutil.ConnectRedis(t)
	clk := clock.NewManual(t0)
	opts := RedisOptions{TTL: 10 * time.Second, Sliding: true, Clock: clk}
	s := newRedis[string](t, client, opts)
	ctx := context.Background()

	calls := 0
	factory := func(context.Context, string) (string, error) {
		calls++
		return "v", nil
	}
	if _, err := s.GetOrAdd(ctx, "k", factory, "r"); err != nil {
		t.Fatalf("GetOrAdd() error = %v", err)
	}

	broken := redis.NewClient(client.Options())
	t.Cleanup(func() { _ = broken.Close() })
	broken.AddHook(failPipelines{})
	reader := newRedis[string](t, broken, opts)

	clk.Advance(5 * time.Second)
	got, err := reader.GetOrAdd(ctx, "k", factory, "r")
	if err != nil {
		t.Fatalf("GetOrAdd() error = %v, want hit despite failed refresh", err)
	}
	if got != "v" || calls != 1 {
		t.Errorf("GetOrAdd() = %q with %d factory calls, want %q with 1", got, calls, "v")
	}
}
