// Package ratelimit parses the PRC API's X-RateLimit-* response headers and
// tracks the latest state per bucket.
//
// The server is authoritative for rate limiting. Nothing here blocks or delays
// a request; the tracked state is exposed for callers and metrics only.
package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Response headers carrying rate limit state.
const (
	HeaderBucket    = "X-RateLimit-Bucket"
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// RemainingUnknown is the Remaining value of a response without a
// remaining header.
const RemainingUnknown = -1

// Info is the rate limit state reported with a single response.
type Info struct {
	// Bucket groups requests that share a limit, e.g. "global" or "command-<key>".
	Bucket string `json:"bucket"`

	// Limit is the number of requests allowed per window.
	Limit int `json:"limit"`

	// Remaining is the number of requests left in the current window, or
	// RemainingUnknown when the response did not report it.
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets (from a unix epoch seconds header).
	ResetAt time.Time `json:"reset_at"`

	// ObservedAt is when the headers were parsed.
	ObservedAt time.Time `json:"observed_at"`
}

// IsExhausted returns true if the response reported no requests remaining.
func (i Info) IsExhausted() bool {
	return i.Remaining == 0
}

// HasRemaining reports whether the response carried a remaining count.
func (i Info) HasRemaining() bool {
	return i.Remaining >= 0
}

// TimeUntilReset returns the duration until the window resets.
// Returns 0 if the reset time has already passed.
func (i Info) TimeUntilReset() time.Duration {
	d := time.Until(i.ResetAt)
	if d < 0 {
		return 0
	}
	return d
}

// ParseHeaders extracts rate limit state from response headers.
// Returns nil, nil when the response carries no bucket header.
func ParseHeaders(headers http.Header) (*Info, error) {
	bucket := headers.Get(HeaderBucket)
	if bucket == "" {
		return nil, nil
	}

	info := &Info{
		Bucket:     bucket,
		ObservedAt: time.Now(),
	}

	var err error
	if info.Limit, err = parseIntHeader(headers, HeaderLimit); err != nil {
		return nil, err
	}
	info.Remaining = RemainingUnknown
	if headers.Get(HeaderRemaining) != "" {
		if info.Remaining, err = parseIntHeader(headers, HeaderRemaining); err != nil {
			return nil, err
		}
		if info.Remaining < 0 {
			info.Remaining = 0
		}
	}

	if v := headers.Get(HeaderReset); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s header: %w", HeaderReset, err)
		}
		info.ResetAt = time.Unix(0, int64(secs*float64(time.Second)))
	}

	return info, nil
}

func parseIntHeader(headers http.Header, name string) (int, error) {
	v := headers.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s header: %w", name, err)
	}
	return n, nil
}
