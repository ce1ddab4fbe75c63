package client

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	prcRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prc_retries_total",
		Help: "Total number of rate-limit retry attempts by endpoint",
	}, []string{"endpoint"})

	prcRetryWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prc_retry_wait_seconds",
		Help:    "Server-specified wait before a rate-limit retry",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	prcRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prc_retry_exhausted_total",
		Help: "Total number of rate-limited requests that were not retried further",
	}, []string{"endpoint"})
)

// waitRetry blocks for the server's retry hint or until ctx is done.
func (c *Client) waitRetry(ctx context.Context, endpoint string, attempt int, wait time.Duration) error {
	prcRetriesTotal.WithLabelValues(endpoint).Inc()
	prcRetryWaitSeconds.Observe(wait.Seconds())

	c.logger.Warn().
		Str("endpoint", endpoint).
		Int("attempt", attempt).
		Dur("retry_after", wait).
		Msg("Rate limited, retrying after server delay")

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Msg("Context cancelled during retry wait")
		return fmt.Errorf("%w: %w", ErrContextCancelled, ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryExhausted(endpoint string, attempt int) {
	prcRetryExhaustedTotal.WithLabelValues(endpoint).Inc()
	c.logger.Warn().
		Str("endpoint", endpoint).
		Int("attempts", attempt).
		Int("max_attempts", c.config.MaxAttempts).
		Msg("Rate limit retry not possible")
}
