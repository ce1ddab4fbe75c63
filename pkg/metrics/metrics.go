// Package metrics exposes the Prometheus metrics of the PRC client.
// All metrics are defined in their respective packages (client, cache, ratelimit)
// to maintain modularity and avoid circular dependencies.
//
// This package provides the HTTP handler and a reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the PRC client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects the metrics registered in Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler returns an HTTP handler serving the client metrics in the
// Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - prc_rate_limit_remaining{bucket} (Gauge): Requests remaining in the bucket's window
//   - prc_rate_limit_exhausted_total{bucket} (Counter): Responses that reported an exhausted bucket
//
// Cache Metrics (pkg/cache):
//   - prc_cache_hits_total{backend} (Counter): Cache hits by backend (memory, redis)
//   - prc_cache_misses_total{backend} (Counter): Cache misses by backend
//   - prc_cache_entries{backend} (Gauge): Entries held by the memory backend
//   - prc_cache_errors_total{backend, operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - prc_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status,
//     "cache_hit" or "network_error"
//   - prc_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - prc_errors_total{code} (Counter): API errors by PRC error code name
//
// Retry Metrics (pkg/client):
//   - prc_retries_total{endpoint} (Counter): Rate-limit retry attempts
//   - prc_retry_wait_seconds (Histogram): Server-specified wait before a retry
//   - prc_retry_exhausted_total{endpoint} (Counter): Rate-limited requests not retried further
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(prc_cache_hits_total[5m])) /
//   (sum(rate(prc_cache_hits_total[5m])) + sum(rate(prc_cache_misses_total[5m])))
//
//   # Exhausted Buckets
//   prc_rate_limit_remaining == 0
//
//   # Rate Limit Error Rate
//   rate(prc_errors_total{code="rate_limited"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(prc_request_duration_seconds_bucket[5m]))
