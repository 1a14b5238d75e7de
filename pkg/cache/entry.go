package cache

import (
	"encoding/json"
	"time"
)

// Envelope is the serialized form of a value held by RedisStorage.
type Envelope struct {
	// Data is the JSON encoding of the cached value.
	Data json.RawMessage `json:"data"`

	// CachedAt is when the value was produced or last written.
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the entry becomes stale. The zero time means never.
	Expires time.Time `json:"expires,omitempty"`
}

// IsExpired reports whether the envelope is stale at now.
// The deadline itself is still valid.
func (e *Envelope) IsExpired(now time.Time) bool {
	if e.Expires.IsZero() {
		return false
	}
	return now.After(e.Expires)
}

// TTL returns the time remaining until expiration at now.
// Returns 0 if already expired or if the envelope never expires.
func (e *Envelope) TTL(now time.Time) time.Duration {
	if e.Expires.IsZero() {
		return 0
	}
	ttl := e.Expires.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
