package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryItem struct {
	entry Entry
	timer *time.Timer
}

// MemoryStore keeps entries in process memory.
//
// Expiry is checked on every read. The per-entry timer only keeps memory from
// growing with entries nobody reads again.
type MemoryStore struct {
	mu            sync.Mutex
	items         map[string]*memoryItem
	prefix        string
	defaultMaxAge time.Duration
	now           func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(cfg Config) *MemoryStore {
	return &MemoryStore{
		items:         make(map[string]*memoryItem),
		prefix:        cfg.Prefix,
		defaultMaxAge: cfg.defaultMaxAge(),
		now:           time.Now,
	}
}

// Set stores value under key, replacing any previous entry.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, maxAge time.Duration) error {
	if maxAge <= 0 {
		maxAge = s.defaultMaxAge
	}
	k := Key(s.prefix, key)

	item := &memoryItem{
		entry: Entry{
			Value:    append([]byte(nil), value...),
			StoredAt: s.now(),
			MaxAge:   maxAge,
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.items[k]; ok && old.timer != nil {
		old.timer.Stop()
	}
	item.timer = time.AfterFunc(maxAge, func() { s.evict(k, item) })
	s.items[k] = item
	CacheEntries.WithLabelValues(backendMemory).Set(float64(len(s.items)))
	return nil
}

// evict removes item if it is still the entry stored under k.
func (s *MemoryStore) evict(k string, item *memoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.items[k]; ok && cur == item {
		delete(s.items, k)
		CacheEntries.WithLabelValues(backendMemory).Set(float64(len(s.items)))
	}
}

// lookup returns the live item for k, dropping it if expired. Caller holds mu.
func (s *MemoryStore) lookup(k string) (*memoryItem, bool) {
	item, ok := s.items[k]
	if !ok {
		return nil, false
	}
	if item.entry.IsExpired(s.now()) {
		if item.timer != nil {
			item.timer.Stop()
		}
		delete(s.items, k)
		CacheEntries.WithLabelValues(backendMemory).Set(float64(len(s.items)))
		return nil, false
	}
	return item, true
}

// Get returns a copy of the stored value, or ErrCacheMiss.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	item, ok := s.lookup(Key(s.prefix, key))
	s.mu.Unlock()

	if !ok {
		CacheMisses.WithLabelValues(backendMemory).Inc()
		return nil, ErrCacheMiss
	}
	CacheHits.WithLabelValues(backendMemory).Inc()
	return append([]byte(nil), item.entry.Value...), nil
}

// Has reports whether a live entry exists for key.
func (s *MemoryStore) Has(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lookup(Key(s.prefix, key))
	return ok, nil
}

// Delete removes key and reports whether a live entry existed.
func (s *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	k := Key(s.prefix, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.lookup(k)
	if !ok {
		return false, nil
	}
	if item.timer != nil {
		item.timer.Stop()
	}
	delete(s.items, k)
	CacheEntries.WithLabelValues(backendMemory).Set(float64(len(s.items)))
	return true, nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.timer != nil {
			item.timer.Stop()
		}
	}
	s.items = make(map[string]*memoryItem)
	CacheEntries.WithLabelValues(backendMemory).Set(0)
	return nil
}

// Size returns the number of live entries.
func (s *MemoryStore) Size(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.items {
		if _, ok := s.lookup(k); ok {
			n++
		}
	}
	return n, nil
}

// Inspect returns a copy of the raw entry for key.
func (s *MemoryStore) Inspect(_ context.Context, key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.lookup(Key(s.prefix, key))
	if !ok {
		return nil, ErrCacheMiss
	}
	entry := item.entry
	entry.Value = append([]byte(nil), entry.Value...)
	return &entry, nil
}

// Keys lists live keys in sorted order, without the prefix.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		if _, ok := s.lookup(k); ok {
			keys = append(keys, stripPrefix(s.prefix, k))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Status always returns nil; the memory backend cannot fail to connect.
func (s *MemoryStore) Status() error {
	return nil
}

// Close stops all expiry timers and drops the entries.
func (s *MemoryStore) Close() error {
	return s.Clear(context.Background())
}
