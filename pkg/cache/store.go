package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Sternrassler/prc-client/pkg/logging"
	"github.com/rs/zerolog"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrDebugUnsupported is returned by debug accessors on backends that
	// cannot answer them faithfully.
	ErrDebugUnsupported = errors.New("debug accessor not supported by this cache backend")
)

// Store is the capability shared by every cache backend. All methods take a
// context so a networked backend can be substituted without changing callers.
type Store interface {
	// Set stores value under key. A maxAge <= 0 uses the store default.
	Set(ctx context.Context, key string, value []byte, maxAge time.Duration) error

	// Get returns the value for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Has reports whether a live entry exists for key.
	Has(ctx context.Context, key string) (bool, error)

	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Clear removes every entry owned by this store.
	Clear(ctx context.Context) error

	// Size returns the number of live entries owned by this store.
	Size(ctx context.Context) (int, error)

	// Inspect returns the raw entry for key (debug only).
	Inspect(ctx context.Context, key string) (*Entry, error)

	// Keys lists the keys of live entries (debug only).
	Keys(ctx context.Context) ([]string, error)

	// Status returns the error captured while connecting the backend, if any.
	Status() error

	// Close releases backend resources.
	Close() error
}

// Config selects and configures a cache backend.
type Config struct {
	// RedisURL selects the Redis backend when set (redis://host:port).
	RedisURL string

	// Prefix namespaces keys so several clients can share one backend.
	Prefix string

	// DefaultMaxAge applies when Set is called without a max age.
	DefaultMaxAge time.Duration

	// ConnectTimeout bounds the Redis ping at construction (default 2s).
	ConnectTimeout time.Duration

	// Logger overrides the default component logger.
	Logger *zerolog.Logger
}

func (c Config) logger() zerolog.Logger {
	if c.Logger != nil {
		return *c.Logger
	}
	return logging.NewLogger("prc-cache")
}

func (c Config) connectTimeout() time.Duration {
	if c.ConnectTimeout > 0 {
		return c.ConnectTimeout
	}
	return DefaultConnectTimeout
}

func (c Config) defaultMaxAge() time.Duration {
	if c.DefaultMaxAge > 0 {
		return c.DefaultMaxAge
	}
	return DefaultMaxAge
}

// New returns a MemoryStore, or a RedisStore when cfg.RedisURL is set.
// It never fails: a Redis connection problem is reported through Status.
func New(ctx context.Context, cfg Config) Store {
	if cfg.RedisURL == "" {
		return NewMemoryStore(cfg)
	}
	return NewRedisStore(ctx, cfg)
}
