// Package cache provides the PRC client's response cache.
//
// Two backends implement the same Store capability:
//
// - MemoryStore keeps entries in process memory and checks expiry on read
// - RedisStore keeps entries in Redis with native TTLs (whole seconds, rounded up)
//
// Both namespace keys with an optional prefix (prefix:key) so several clients
// can share one backend.
//
// # Basic Usage
//
//	store := cache.New(ctx, cache.Config{
//		RedisURL: "redis://localhost:6379",
//		Prefix:   "my-server",
//	})
//	defer store.Close()
//
//	if err := store.Status(); err != nil {
//		// Redis unreachable - the store is inert, calls still succeed
//	}
//
//	_ = store.Set(ctx, "/server/players", body, time.Minute)
//
//	data, err := store.Get(ctx, "/server/players")
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API
//	}
//
// # Debug Accessors
//
// Inspect and Keys expose raw entries on the memory backend. The Redis
// backend returns ErrDebugUnsupported rather than a partial answer.
//
// # Metrics
//
//   - prc_cache_hits_total{backend} - Cache hits
//   - prc_cache_misses_total{backend} - Cache misses
//   - prc_cache_entries{backend="memory"} - Live memory entries
//   - prc_cache_errors_total{backend,operation} - Cache operation errors
package cache
