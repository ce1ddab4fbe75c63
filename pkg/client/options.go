package client

import "time"

// Option overrides the client's cache configuration for a single call.
type Option func(*callOptions)

type callOptions struct {
	cache     *bool
	maxAge    time.Duration
	hasMaxAge bool
}

// WithCache forces caching on or off for this call.
func WithCache(enabled bool) Option {
	return func(o *callOptions) {
		o.cache = &enabled
	}
}

// WithCacheMaxAge sets how long this call's response stays cached.
func WithCacheMaxAge(d time.Duration) Option {
	return func(o *callOptions) {
		if d > 0 {
			o.maxAge = d
			o.hasMaxAge = true
		}
	}
}

func resolveOptions(opts []Option) callOptions {
	var o callOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
