package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	backendMemory = "memory"
	backendRedis  = "redis"
)

var (
	// CacheHits tracks cache hits by backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prc_cache_hits_total",
			Help: "Total number of PRC cache hits",
		},
		[]string{"backend"}, // "memory", "redis"
	)

	// CacheMisses tracks cache misses by backend
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prc_cache_misses_total",
			Help: "Total number of PRC cache misses",
		},
		[]string{"backend"},
	)

	// CacheEntries tracks the number of live entries in the memory backend
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prc_cache_entries",
			Help: "Current number of entries held by the PRC cache",
		},
		[]string{"backend"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prc_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"backend", "operation"}, // "get", "set", "delete", "clear", "size"
	)
)
