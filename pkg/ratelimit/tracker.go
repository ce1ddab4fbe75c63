package ratelimit

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	prcRateLimitRemaining = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "prc_rate_limit_remaining",
		Help: "Requests remaining in the current PRC rate limit window by bucket",
	}, []string{"bucket"})

	prcRateLimitExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prc_rate_limit_exhausted_total",
		Help: "Total number of responses reporting an exhausted rate limit bucket",
	}, []string{"bucket"})
)

// Tracker records the most recent rate limit state per bucket.
type Tracker struct {
	mu      sync.RWMutex
	buckets map[string]Info
	logger  zerolog.Logger
}

// NewTracker creates a new rate limit tracker.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		buckets: make(map[string]Info),
		logger:  logger,
	}
}

// UpdateFromHeaders parses the response headers and records the state.
// Returns the parsed state, or nil when the response carried none.
func (t *Tracker) UpdateFromHeaders(headers http.Header) (*Info, error) {
	info, err := ParseHeaders(headers)
	if err != nil || info == nil {
		return nil, err
	}
	t.Record(*info)
	return info, nil
}

// Record stores info as the latest state for its bucket.
func (t *Tracker) Record(info Info) {
	t.mu.Lock()
	t.buckets[info.Bucket] = info
	t.mu.Unlock()

	if info.HasRemaining() {
		prcRateLimitRemaining.WithLabelValues(info.Bucket).Set(float64(info.Remaining))
	}

	if info.IsExhausted() {
		prcRateLimitExhaustedTotal.WithLabelValues(info.Bucket).Inc()
		t.logger.Warn().
			Str("bucket", info.Bucket).
			Int("limit", info.Limit).
			Time("reset_at", info.ResetAt).
			Msg("PRC rate limit bucket exhausted")
		return
	}

	t.logger.Debug().
		Str("bucket", info.Bucket).
		Int("remaining", info.Remaining).
		Int("limit", info.Limit).
		Msg("PRC rate limit state updated")
}

// Get returns the latest state for bucket.
func (t *Tracker) Get(bucket string) (Info, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	info, ok := t.buckets[bucket]
	return info, ok
}

// Snapshot returns a copy of every tracked bucket.
func (t *Tracker) Snapshot() map[string]Info {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]Info, len(t.buckets))
	for k, v := range t.buckets {
		out[k] = v
	}
	return out
}
