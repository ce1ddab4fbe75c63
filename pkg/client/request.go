package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/prc-client/pkg/cache"
	"github.com/Sternrassler/prc-client/pkg/ratelimit"
)

// CachePolicy is an endpoint's caching baseline.
type CachePolicy int

const (
	// CacheDefault caches unless the call passes WithCache(false).
	CacheDefault CachePolicy = iota

	// CacheOptIn caches only when the call passes both WithCache(true) and
	// WithCacheMaxAge. Used for high-volume log endpoints.
	CacheOptIn

	// CacheNever never caches.
	CacheNever
)

// Request describes one API call routed through the pipeline.
type Request struct {
	Method  string
	Path    string
	Body    any
	Policy  CachePolicy
	Options []Option
}

// Response is the envelope returned by every API call.
type Response[T any] struct {
	// Data is the decoded body; the zero value when the body was not JSON.
	Data T

	// RateLimit is the state reported with the response; nil on a cache hit.
	RateLimit *ratelimit.Info

	// Cached is true when the response was served from the cache.
	Cached bool
}

var nullBody = []byte("null")

// Fetch performs req and decodes the body into T.
func Fetch[T any](ctx context.Context, c *Client, req Request) (*Response[T], error) {
	raw, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &Response[T]{RateLimit: raw.RateLimit, Cached: raw.Cached}
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, &out.Data); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidResponse, req.Path, err)
		}
	}
	return out, nil
}

// Do performs req: cache probe, HTTP call, rate-limit retry, error
// classification and cache write-through.
func (c *Client) Do(ctx context.Context, req Request) (*Response[json.RawMessage], error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	endpoint := req.Path

	startTime := time.Now()
	defer func() {
		prcRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Resolve cache policy
	opts := resolveOptions(req.Options)
	cacheable, maxAge := c.cachePolicy(req, opts)

	// Step 2: Probe cache
	if cacheable {
		data, err := c.cache.Get(ctx, req.Path)
		switch {
		case err == nil:
			c.logger.Debug().Str("endpoint", endpoint).Bool("cache_hit", true).Msg("Serving from cache")
			prcRequestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
			return &Response[json.RawMessage]{Data: rawOrNil(data), Cached: true}, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	var payload []byte
	if req.Body != nil && req.Method != http.MethodGet {
		var err error
		if payload, err = json.Marshal(req.Body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	// Step 3: Execute with bounded rate-limit retry
	for attempt := 1; ; attempt++ {
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("method", req.Method).
			Int("attempt", attempt).
			Msg("Executing PRC request")

		status, header, body, err := c.send(ctx, req.Method, req.Path, payload)
		if err != nil {
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
			prcRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return nil, err
		}
		prcRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

		info, err := c.rateLimiter.UpdateFromHeaders(header)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to parse rate limit headers")
		}

		// Step 4: Failure handling
		if status < 200 || status >= 300 {
			apiErr := parseAPIError(status, body)
			prcErrorsTotal.WithLabelValues(apiErr.Code.String()).Inc()

			if apiErr.IsRateLimit() {
				if attempt < c.config.MaxAttempts && apiErr.RetryAfter > 0 {
					if err := c.waitRetry(ctx, endpoint, attempt, apiErr.RetryAfter); err != nil {
						return nil, err
					}
					continue
				}
				c.retryExhausted(endpoint, attempt)
			}

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status_code", status).
				Int("code", int(apiErr.Code)).
				Str("message", apiErr.Message).
				Msg("PRC request error")
			return nil, apiErr
		}

		// Step 5: Decode
		data, err := decodeBody(header, body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, endpoint, err)
		}

		// Step 6: Write-through
		if cacheable {
			value := []byte(data)
			if value == nil {
				value = nullBody
			}
			if err := c.cache.Set(ctx, req.Path, value, maxAge); err != nil {
				c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache response")
			} else {
				c.logger.Debug().Str("endpoint", endpoint).Dur("ttl", maxAge).Msg("Cached response")
			}
		}

		return &Response[json.RawMessage]{Data: data, RateLimit: info}, nil
	}
}

// cachePolicy decides whether req reads and writes the cache, and for how long.
func (c *Client) cachePolicy(req Request, o callOptions) (bool, time.Duration) {
	if c.cache == nil || req.Method != http.MethodGet {
		return false, 0
	}

	maxAge := c.config.CacheMaxAge
	if o.hasMaxAge {
		maxAge = o.maxAge
	}
	if maxAge <= 0 {
		maxAge = cache.DefaultMaxAge
	}

	switch req.Policy {
	case CacheDefault:
		if o.cache != nil {
			return *o.cache, maxAge
		}
		return true, maxAge
	case CacheOptIn:
		return o.cache != nil && *o.cache && o.hasMaxAge, maxAge
	default:
		return false, 0
	}
}

// send issues a single HTTP request and reads the whole body.
func (c *Client) send(ctx context.Context, method, path string, payload []byte) (int, http.Header, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "*/*")
	if c.config.ServerKey != "" {
		httpReq.Header.Set(HeaderServerKey, c.config.ServerKey)
	}
	if c.config.GlobalKey != "" {
		httpReq.Header.Set(HeaderGlobalKey, c.config.GlobalKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, resp.Header, data, nil
}

// parseAPIError builds an APIError from a failed response, treating an
// unparsable body as empty.
func parseAPIError(status int, body []byte) *APIError {
	var eb errorBody
	if len(body) > 0 {
		if err := json.Unmarshal(body, &eb); err != nil {
			eb = errorBody{}
		}
	}
	return newAPIError(status, eb)
}

// decodeBody returns the JSON body, or nil when the response is not JSON.
func decodeBody(header http.Header, body []byte) (json.RawMessage, error) {
	if !strings.Contains(header.Get("Content-Type"), "application/json") {
		return nil, nil
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("malformed JSON body")
	}
	return rawOrNil(trimmed), nil
}

func rawOrNil(data []byte) json.RawMessage {
	if len(data) == 0 || bytes.Equal(data, nullBody) {
		return nil
	}
	return json.RawMessage(data)
}
