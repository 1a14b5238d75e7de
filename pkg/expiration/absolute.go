package expiration

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/pkg/clock"
)

// Absolute keeps an entry valid for a fixed duration after it was set.
// Hits do not extend the deadline.
type Absolute struct {
	ttl    time.Duration
	clock  clock.Clock
	logger zerolog.Logger

	mu   sync.RWMutex
	keys map[CompositeKey]record
}

var _ Strategy = (*Absolute)(nil)

// NewAbsolute creates an Absolute strategy with the given lifetime.
// A nil clock falls back to clock.System.
func NewAbsolute(ttl time.Duration, clk clock.Clock, logger zerolog.Logger) *Absolute {
	if clk == nil {
		clk = clock.System{}
	}
	return &Absolute{
		ttl:    ttl,
		clock:  clk,
		logger: logger,
		keys:   make(map[CompositeKey]record),
	}
}

// TTL returns the configured lifetime.
func (s *Absolute) TTL() time.Duration {
	return s.ttl
}

// IsValid reports whether key was set no longer than TTL ago.
func (s *Absolute) IsValid(key CompositeKey) bool {
	s.mu.RLock()
	rec, ok := s.keys[key]
	s.mu.RUnlock()

	if !ok || !rec.present {
		s.logger.Debug().Stringer("key", key).Msg("No cache entry found")
		return false
	}

	if rec.validUntil(s.clock.Now(), s.ttl) {
		return true
	}

	s.logger.Debug().
		Stringer("key", key).
		Time("expired_at", rec.setAt.Add(s.ttl)).
		Msg("Cache entry found but expired")
	return false
}

// OnHit is a no-op; the deadline is fixed at set time.
func (s *Absolute) OnHit(CompositeKey) {}

// OnSet starts a new lifetime for key.
func (s *Absolute) OnSet(key CompositeKey) {
	now := s.clock.Now()

	s.mu.Lock()
	s.keys[key] = record{present: true, setAt: now}
	s.mu.Unlock()

	s.logger.Debug().
		Stringer("key", key).
		Time("expires_at", now.Add(s.ttl)).
		Msg("Cache entry set")
}

// Invalidate forgets key.
func (s *Absolute) Invalidate(key CompositeKey) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}

// InvalidateAll forgets every key.
func (s *Absolute) InvalidateAll() {
	s.mu.Lock()
	clear(s.keys)
	s.mu.Unlock()
}
