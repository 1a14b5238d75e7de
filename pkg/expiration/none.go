package expiration

import "sync"

// NoExpiration keeps an entry valid from its first set until it is invalidated.
//
// Invalidate flips the presence flag instead of removing the record, so a key
// that was never set and a key that was invalidated look the same.
type NoExpiration struct {
	mu   sync.RWMutex
	keys map[CompositeKey]bool
}

var _ Strategy = (*NoExpiration)(nil)

// NewNoExpiration creates an empty NoExpiration strategy.
func NewNoExpiration() *NoExpiration {
	return &NoExpiration{keys: make(map[CompositeKey]bool)}
}

// IsValid reports whether key was set and not invalidated since.
func (s *NoExpiration) IsValid(key CompositeKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[key]
}

// OnHit is a no-op; hits do not affect validity.
func (s *NoExpiration) OnHit(CompositeKey) {}

// OnSet marks key as valid.
func (s *NoExpiration) OnSet(key CompositeKey) {
	s.mu.Lock()
	s.keys[key] = true
	s.mu.Unlock()
}

// Invalidate marks key as invalid.
func (s *NoExpiration) Invalidate(key CompositeKey) {
	s.mu.Lock()
	s.keys[key] = false
	s.mu.Unlock()
}

// InvalidateAll marks every known key as invalid.
func (s *NoExpiration) InvalidateAll() {
	s.mu.Lock()
	clear(s.keys)
	s.mu.Unlock()
}
