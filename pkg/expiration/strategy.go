// Package expiration decides whether a cached entry is still valid.
//
// A Strategy holds only per-key bookkeeping (presence flags and set-at
// timestamps); it never sees cached values. Storages call it to ask whether
// an entry may be served and to report hits, sets and invalidations.
//
// Three variants exist:
//
//   - NoExpiration: an entry stays valid until explicitly invalidated.
//   - Absolute: an entry is valid for a fixed duration after it was set.
//   - Sliding: like Absolute, but every hit restarts the duration.
//
// Bookkeeping is keyed by CompositeKey so one strategy instance can serve
// every region of a storage. All variants are safe for concurrent use.
package expiration

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/pkg/clock"
)

var (
	// ErrUnknownKind is returned by New for an unrecognised Kind.
	ErrUnknownKind = errors.New("unknown expiration kind")

	// ErrInvalidDuration is returned by New when a timed kind has no positive duration.
	ErrInvalidDuration = errors.New("expiration duration must be positive")
)

// Kind names an expiration variant.
type Kind string

const (
	// KindNone never expires entries.
	KindNone Kind = "none"

	// KindAbsolute expires entries a fixed duration after they were set.
	KindAbsolute Kind = "absolute"

	// KindSliding expires entries a fixed duration after their last set or hit.
	KindSliding Kind = "sliding"
)

// ParseKind converts a case-insensitive name to a Kind.
// An empty name means KindNone.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case "", KindNone:
		return KindNone, nil
	case KindAbsolute:
		return KindAbsolute, nil
	case KindSliding:
		return KindSliding, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// CompositeKey identifies one entry across all regions of a storage.
type CompositeKey struct {
	Region string
	Key    string
}

// String renders the key as region|key for logging.
func (k CompositeKey) String() string {
	return k.Region + "|" + k.Key
}

// Strategy is the contract storages use to decide entry validity.
type Strategy interface {
	// IsValid reports whether the entry may be served.
	IsValid(key CompositeKey) bool

	// OnHit is called when the storage served a valid entry.
	OnHit(key CompositeKey)

	// OnSet is called when the storage stored a new or refreshed value.
	OnSet(key CompositeKey)

	// Invalidate drops the bookkeeping for one entry.
	Invalidate(key CompositeKey)

	// InvalidateAll drops the bookkeeping for every entry.
	InvalidateAll()
}

// New builds the Strategy for kind. The duration is ignored for KindNone.
func New(kind Kind, ttl time.Duration, clk clock.Clock, logger zerolog.Logger) (Strategy, error) {
	switch kind {
	case "", KindNone:
		return NewNoExpiration(), nil
	case KindAbsolute:
		if ttl <= 0 {
			return nil, fmt.Errorf("%w: absolute expiration got %v", ErrInvalidDuration, ttl)
		}
		return NewAbsolute(ttl, clk, logger), nil
	case KindSliding:
		if ttl <= 0 {
			return nil, fmt.Errorf("%w: sliding expiration got %v", ErrInvalidDuration, ttl)
		}
		return NewSliding(ttl, clk, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// record is the bookkeeping kept by the timed variants.
type record struct {
	present bool
	setAt   time.Time
}

// validUntil reports whether now is within ttl of setAt. The boundary is inclusive.
func (r record) validUntil(now time.Time, ttl time.Duration) bool {
	return r.present && !now.After(r.setAt.Add(ttl))
}
