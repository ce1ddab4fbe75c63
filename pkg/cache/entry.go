package cache

import (
	"time"
)

// DefaultMaxAge is used when neither the caller nor the store configuration
// sets a max age.
const DefaultMaxAge = 30 * time.Second

// Entry represents a cached API response body.
type Entry struct {
	// Value is the raw response body
	Value []byte `json:"value"`

	// StoredAt is when the entry was written
	StoredAt time.Time `json:"stored_at"`

	// MaxAge is how long the entry stays readable after StoredAt
	MaxAge time.Duration `json:"max_age"`
}

// ExpiresAt returns the instant after which the entry is no longer readable.
func (e *Entry) ExpiresAt() time.Time {
	return e.StoredAt.Add(e.MaxAge)
}

// IsExpired reports whether the entry has outlived its max age at now.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.Sub(e.StoredAt) > e.MaxAge
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.ExpiresAt())
	if ttl < 0 {
		return 0
	}
	return ttl
}
