// Package client provides the PRC private-server API client with caching,
// rate-limit retry and structured errors.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sternrassler/prc-client/pkg/cache"
	"github.com/Sternrassler/prc-client/pkg/logging"
	"github.com/Sternrassler/prc-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the PRC API v1 root.
const DefaultBaseURL = "https://api.policeroleplay.community/v1"

// Credential headers.
const (
	HeaderServerKey = "Server-Key"
	HeaderGlobalKey = "Authorization"
)

// ErrStoreConflict is returned by Validate when an injected Store is combined
// with CachePrefix or RedisURL, which only configure a store built by New.
var ErrStoreConflict = errors.New("cache_prefix and redis_url cannot be combined with an injected store")

// ErrCacheDisabled is returned by cache debug accessors on a client built
// without a cache.
var ErrCacheDisabled = errors.New("cache is disabled")

// Prometheus metrics for PRC client operations.
var (
	prcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prc_requests_total",
		Help: "Total PRC API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	prcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prc_request_duration_seconds",
		Help:    "PRC API request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	prcErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prc_errors_total",
		Help: "Total PRC API errors by error code",
	}, []string{"code"})
)

// Client is the PRC API client. It is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	cache       cache.Store
	rateLimiter *ratelimit.Tracker
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root (default: DefaultBaseURL)
	BaseURL string

	// Credentials: at least one is required
	ServerKey string // sent as Server-Key
	GlobalKey string // sent as Authorization

	// Caching
	CacheEnabled bool
	CacheMaxAge  time.Duration // default max age for cached reads (30s when 0)
	RedisURL     string        // redis://host:port selects the Redis backend
	CachePrefix  string        // namespaces keys in a shared backend

	// RedisConnectTimeout bounds the construction ping (default 2s).
	RedisConnectTimeout time.Duration

	// Store replaces the backend built from RedisURL (for tests and sharing).
	// Its prefix is configured on the store itself; CachePrefix must be empty.
	Store cache.Store

	// Retry
	MaxAttempts int // total attempts for a rate-limited request (default 3)

	// HTTP
	HTTPClient  *http.Client
	HTTPTimeout time.Duration // 0 means no client-side timeout

	// Logger overrides the default component logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a configuration with the in-memory cache enabled.
func DefaultConfig(serverKey string) Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		ServerKey:    serverKey,
		CacheEnabled: true,
		CacheMaxAge:  cache.DefaultMaxAge,
		MaxAttempts:  3,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ServerKey == "" && c.GlobalKey == "" {
		return ErrMissingCredentials
	}
	if c.RedisConnectTimeout < 0 {
		return fmt.Errorf("redis_connect_timeout must be >= 0 (got %s)", c.RedisConnectTimeout)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be >= 0 (got %d)", c.MaxAttempts)
	}
	if c.CacheMaxAge < 0 {
		return fmt.Errorf("cache_max_age must be >= 0 (got %s)", c.CacheMaxAge)
	}
	if c.Store != nil && (c.CachePrefix != "" || c.RedisURL != "") {
		return ErrStoreConflict
	}
	return nil
}

// New creates a new PRC client.
//
// When the cache is enabled with a RedisURL, New pings Redis once. An
// unreachable Redis leaves the cache inert (see CacheStatus) and New still
// succeeds.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.CacheMaxAge == 0 {
		cfg.CacheMaxAge = cache.DefaultMaxAge
	}

	logger := logging.NewLogger("prc-client")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	c := &Client{
		httpClient:  httpClient,
		rateLimiter: ratelimit.NewTracker(logger),
		config:      cfg,
		logger:      logger,
	}

	if cfg.CacheEnabled {
		c.cache = cfg.Store
		if c.cache == nil {
			c.cache = cache.New(context.Background(), cache.Config{
				RedisURL:       cfg.RedisURL,
				Prefix:         cfg.CachePrefix,
				DefaultMaxAge:  cfg.CacheMaxAge,
				ConnectTimeout: cfg.RedisConnectTimeout,
				Logger:         cfg.Logger,
			})
		}
		if err := c.cache.Status(); err != nil {
			logger.Warn().Err(err).Msg("Cache unavailable, requests will not be cached")
		}
	}

	return c, nil
}

// ClearCache removes every cached response owned by this client.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Clear(ctx)
}

// CacheSize returns the number of cached responses.
func (c *Client) CacheSize(ctx context.Context) (int, error) {
	if c.cache == nil {
		return 0, nil
	}
	return c.cache.Size(ctx)
}

// InspectCache returns the raw cache entry for an endpoint path.
// Only the memory backend supports this.
func (c *Client) InspectCache(ctx context.Context, path string) (*cache.Entry, error) {
	if c.cache == nil {
		return nil, ErrCacheDisabled
	}
	return c.cache.Inspect(ctx, path)
}

// CacheKeys lists cached endpoint paths. Only the memory backend supports this.
func (c *Client) CacheKeys(ctx context.Context) ([]string, error) {
	if c.cache == nil {
		return nil, ErrCacheDisabled
	}
	return c.cache.Keys(ctx)
}

// CacheStatus returns the cache backend's connection error, if any.
func (c *Client) CacheStatus() error {
	if c.cache == nil {
		return ErrCacheDisabled
	}
	return c.cache.Status()
}

// RateLimits returns the latest rate limit state per bucket.
func (c *Client) RateLimits() map[string]ratelimit.Info {
	return c.rateLimiter.Snapshot()
}

// Disconnect releases the cache backend connection.
func (c *Client) Disconnect() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

// Close closes the client and releases resources.
func (c *Client) Close() error {
	return c.Disconnect()
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache store (for testing); nil when caching is disabled.
func (c *Client) GetCache() cache.Store {
	return c.cache
}
