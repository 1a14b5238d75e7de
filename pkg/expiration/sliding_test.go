package expiration

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/pkg/clock"
)

func TestSliding_HitExtendsDeadline(t *testing.T) {
	clk := clock.NewManual(t0)
	d := 10 * time.Second
	s := NewSliding(d, clk, zerolog.Nop())
	key := CompositeKey{Region: "default", Key: "k"}

	s.OnSet(key)

	clk.Set(t0.Add(8 * time.Second))
	if !s.IsValid(key) {
		t.Fatal("key not valid before deadline")
	}
	s.OnHit(key)

	// Old deadline passed, new one is t0+8s+10s.
	clk.Set(t0.Add(15 * time.Second))
	if !s.IsValid(key) {
		t.Error("hit did not extend the deadline")
	}

	clk.Set(t0.Add(18 * time.Second))
	if !s.IsValid(key) {
		t.Error("key not valid exactly at extended deadline")
	}

	clk.Set(t0.Add(18*time.Second + time.Millisecond))
	if s.IsValid(key) {
		t.Error("key valid after extended deadline")
	}
}

func TestSliding_ExpiresWithoutHits(t *testing.T) {
	clk := clock.NewManual(t0)
	d := 10 * time.Second
	s := NewSliding(d, clk, zerolog.Nop())
	key := CompositeKey{Region: "default", Key: "k"}

	s.OnSet(key)

	clk.Set(t0.Add(d))
	if !s.IsValid(key) {
		t.Error("key not valid at set_at + D")
	}

	clk.Set(t0.Add(d + time.Millisecond))
	if s.IsValid(key) {
		t.Error("key valid after set_at + D without hits")
	}
}

func TestSliding_LazyPlaceholder(t *testing.T) {
	clk := clock.NewManual(t0)
	s := NewSliding(time.Second, clk, zerolog.Nop())
	key := CompositeKey{Region: "default", Key: "unseen"}

	if s.tracked() != 0 {
		t.Fatalf("tracked = %d, want 0", s.tracked())
	}

	if s.IsValid(key) {
		t.Error("unseen key reported valid")
	}
	if s.tracked() != 1 {
		t.Errorf("tracked after first check = %d, want 1", s.tracked())
	}
	if s.IsValid(key) {
		t.Error("placeholder record reported valid")
	}
}

func TestSliding_Invalidate(t *testing.T) {
	clk := clock.NewManual(t0)
	s := NewSliding(time.Minute, clk, zerolog.Nop())
	a := CompositeKey{Region: "r", Key: "a"}
	b := CompositeKey{Region: "r", Key: "b"}

	s.OnSet(a)
	s.OnSet(b)

	s.Invalidate(a)
	if s.IsValid(a) {
		t.Error("key valid after Invalidate")
	}
	if !s.IsValid(b) {
		t.Error("Invalidate affected another key")
	}

	s.InvalidateAll()
	if s.IsValid(b) {
		t.Error("key valid after InvalidateAll")
	}
}

func TestSliding_ConcurrentAccess(t *testing.T) {
	clk := clock.NewManual(t0)
	s := NewSliding(time.Minute, clk, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := CompositeKey{Region: "r", Key: string(rune('a' + i%4))}
			for j := 0; j < 100; j++ {
				s.OnSet(key)
				s.IsValid(key)
				s.OnHit(key)
				if j%10 == 0 {
					s.Invalidate(key)
				}
			}
		}(i)
	}
	wg.Wait()
}
