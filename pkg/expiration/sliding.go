package expiration

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/pkg/clock"
)

// Sliding keeps an entry valid for a fixed duration after its last set or hit.
//
// The first validity check of an unseen key records it as not present.
type Sliding struct {
	ttl    time.Duration
	clock  clock.Clock
	logger zerolog.Logger

	mu   sync.Mutex
	keys map[CompositeKey]record
}

var _ Strategy = (*Sliding)(nil)

// NewSliding creates a Sliding strategy with the given idle lifetime.
// A nil clock falls back to clock.System.
func NewSliding(ttl time.Duration, clk clock.Clock, logger zerolog.Logger) *Sliding {
	if clk == nil {
		clk = clock.System{}
	}
	return &Sliding{
		ttl:    ttl,
		clock:  clk,
		logger: logger,
		keys:   make(map[CompositeKey]record),
	}
}

// TTL returns the configured idle lifetime.
func (s *Sliding) TTL() time.Duration {
	return s.ttl
}

// IsValid reports whether key was set or hit no longer than TTL ago.
func (s *Sliding) IsValid(key CompositeKey) bool {
	now := s.clock.Now()

	s.mu.Lock()
	rec, ok := s.keys[key]
	if !ok {
		rec = record{present: false, setAt: now}
		s.keys[key] = rec
	}
	s.mu.Unlock()

	if !rec.present {
		s.logger.Debug().Stringer("key", key).Msg("No cache entry found")
		return false
	}

	if rec.validUntil(now, s.ttl) {
		s.logger.Debug().
			Stringer("key", key).
			Dur("expires_in", rec.setAt.Add(s.ttl).Sub(now)).
			Msg("Cache entry found and valid")
		return true
	}

	s.logger.Debug().Stringer("key", key).Msg("Cache entry found but expired")
	return false
}

// OnHit extends the lifetime of key.
func (s *Sliding) OnHit(key CompositeKey) {
	now := s.touch(key)
	s.logger.Debug().
		Stringer("key", key).
		Time("expires_at", now.Add(s.ttl)).
		Msg("Cache expiration extended")
}

// OnSet starts a new lifetime for key.
func (s *Sliding) OnSet(key CompositeKey) {
	now := s.touch(key)
	s.logger.Debug().
		Stringer("key", key).
		Time("expires_at", now.Add(s.ttl)).
		Msg("Cache entry set")
}

func (s *Sliding) touch(key CompositeKey) time.Time {
	now := s.clock.Now()
	s.mu.Lock()
	s.keys[key] = record{present: true, setAt: now}
	s.mu.Unlock()
	return now
}

// Invalidate forgets key.
func (s *Sliding) Invalidate(key CompositeKey) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	s.logger.Debug().Stringer("key", key).Msg("Cache entry invalidated")
}

// InvalidateAll forgets every key.
func (s *Sliding) InvalidateAll() {
	s.mu.Lock()
	clear(s.keys)
	s.mu.Unlock()
	s.logger.Debug().Msg("All cache entries invalidated")
}

// tracked reports how many records the strategy holds.
func (s *Sliding) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
