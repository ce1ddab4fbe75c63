package cache

import (
	"math"
	"strings"
	"time"
)

// Key builds the backend key for a cache key, namespaced by prefix.
// Format: prefix:key, or key when prefix is empty.
//
// Example:
//
//	Key("guild-a", "/server/players") == "guild-a:/server/players"
func Key(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}

// stripPrefix is the inverse of Key.
func stripPrefix(prefix, full string) string {
	if prefix == "" {
		return full
	}
	return strings.TrimPrefix(full, prefix+":")
}

// ttlSeconds converts a max age into whole seconds, rounding up so a
// sub-second max age still yields a 1 second TTL.
func ttlSeconds(maxAge time.Duration) int64 {
	ms := float64(maxAge.Milliseconds())
	secs := int64(math.Ceil(ms / 1000))
	if secs < 1 {
		secs = 1
	}
	return secs
}
