package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultConnectTimeout bounds the construction ping when Config.ConnectTimeout is unset.
const DefaultConnectTimeout = 2 * time.Second

const scanBatch = 100

// RedisStore stores entries in Redis using native key expiry.
//
// A store whose connection failed at construction stays inert: reads miss,
// writes are dropped and Status reports the original failure.
type RedisStore struct {
	redis         *redis.Client
	prefix        string
	defaultMaxAge time.Duration
	connErr       error
	timeout       time.Duration
	logger        zerolog.Logger
}

// NewRedisStore parses cfg.RedisURL, connects and pings the server.
// Failures are logged and captured, never returned.
func NewRedisStore(ctx context.Context, cfg Config) *RedisStore {
	s := &RedisStore{
		prefix:        cfg.Prefix,
		defaultMaxAge: cfg.defaultMaxAge(),
		timeout:       cfg.connectTimeout(),
		logger:        cfg.logger(),
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		s.connErr = fmt.Errorf("parse redis url: %w", err)
		s.logger.Warn().Err(s.connErr).Msg("Redis cache disabled")
		return s
	}

	s.redis = redis.NewClient(opts)
	s.connect(ctx)
	return s
}

// NewRedisStoreFromClient wraps an existing go-redis client.
func NewRedisStoreFromClient(ctx context.Context, client *redis.Client, cfg Config) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	s := &RedisStore{
		redis:         client,
		prefix:        cfg.Prefix,
		defaultMaxAge: cfg.defaultMaxAge(),
		timeout:       cfg.connectTimeout(),
		logger:        cfg.logger(),
	}
	s.connect(ctx)
	return s
}

func (s *RedisStore) connect(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.redis.Ping(pingCtx).Err(); err != nil {
		s.connErr = fmt.Errorf("connect to redis: %w", err)
		CacheErrors.WithLabelValues(backendRedis, "connect").Inc()
		s.logger.Warn().Err(s.connErr).Msg("Redis cache disabled")
		return
	}
	s.logger.Debug().Str("addr", s.redis.Options().Addr).Msg("Connected to Redis cache")
}

func (s *RedisStore) inert() bool {
	return s.connErr != nil
}

// Set stores value with a TTL of maxAge rounded up to whole seconds.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, maxAge time.Duration) error {
	if s.inert() {
		return nil
	}
	if maxAge <= 0 {
		maxAge = s.defaultMaxAge
	}

	ttl := time.Duration(ttlSeconds(maxAge)) * time.Second
	if err := s.redis.Set(ctx, Key(s.prefix, key), value, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues(backendRedis, "set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get retrieves the value for key.
// Returns ErrCacheMiss if the key doesn't exist or has expired.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.inert() {
		return nil, ErrCacheMiss
	}

	data, err := s.redis.Get(ctx, Key(s.prefix, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.WithLabelValues(backendRedis).Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues(backendRedis, "get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	CacheHits.WithLabelValues(backendRedis).Inc()
	return data, nil
}

// Has reports whether key exists.
func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	if s.inert() {
		return false, nil
	}
	n, err := s.redis.Exists(ctx, Key(s.prefix, key)).Result()
	if err != nil {
		CacheErrors.WithLabelValues(backendRedis, "exists").Inc()
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Delete removes key and reports whether it existed.
func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	if s.inert() {
		return false, nil
	}
	n, err := s.redis.Del(ctx, Key(s.prefix, key)).Result()
	if err != nil {
		CacheErrors.WithLabelValues(backendRedis, "delete").Inc()
		return false, fmt.Errorf("redis del: %w", err)
	}
	return n > 0, nil
}

// Clear removes every key under the prefix, or flushes the database when no
// prefix is configured.
func (s *RedisStore) Clear(ctx context.Context) error {
	if s.inert() {
		return nil
	}

	if s.prefix == "" {
		if err := s.redis.FlushDB(ctx).Err(); err != nil {
			CacheErrors.WithLabelValues(backendRedis, "clear").Inc()
			return fmt.Errorf("redis flushdb: %w", err)
		}
		return nil
	}

	err := s.scan(ctx, func(keys []string) error {
		return s.redis.Del(ctx, keys...).Err()
	})
	if err != nil {
		CacheErrors.WithLabelValues(backendRedis, "clear").Inc()
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}

// Size returns the number of keys under the prefix, or the database size when
// no prefix is configured.
func (s *RedisStore) Size(ctx context.Context) (int, error) {
	if s.inert() {
		return 0, nil
	}

	if s.prefix == "" {
		n, err := s.redis.DBSize(ctx).Result()
		if err != nil {
			CacheErrors.WithLabelValues(backendRedis, "size").Inc()
			return 0, fmt.Errorf("redis dbsize: %w", err)
		}
		return int(n), nil
	}

	total := 0
	err := s.scan(ctx, func(keys []string) error {
		total += len(keys)
		return nil
	})
	if err != nil {
		CacheErrors.WithLabelValues(backendRedis, "size").Inc()
		return 0, fmt.Errorf("redis size: %w", err)
	}
	return total, nil
}

// scan walks every key under the prefix in batches.
func (s *RedisStore) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	pattern := Key(s.prefix, "*")
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Inspect is not supported by the Redis backend.
func (s *RedisStore) Inspect(context.Context, string) (*Entry, error) {
	return nil, ErrDebugUnsupported
}

// Keys is not supported by the Redis backend.
func (s *RedisStore) Keys(context.Context) ([]string, error) {
	return nil, ErrDebugUnsupported
}

// Status returns the error captured while connecting, if any.
func (s *RedisStore) Status() error {
	return s.connErr
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
