// Package metrics provides Prometheus metrics recording for internal packages.
// This package exists to avoid import cycles between storage and handler packages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// storageOpDuration tracks storage operation duration in seconds
	storageOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evalforge_storage_op_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"store", "operation"},
	)

	// storageOpTotal tracks total storage operations
	storageOpTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalforge_storage_ops_total",
			Help: "Total number of storage operations",
		},
		[]string{"store", "operation"},
	)

	// storageOpErrors tracks storage operation errors
	storageOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalforge_storage_op_errors_total",
			Help: "Total number of storage operation errors",
		},
		[]string{"store", "operation"},
	)

	// cacheHits tracks metadata cache hits
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalforge_cache_hits_total",
			Help: "Total number of metadata cache hits",
		},
		[]string{"kind"},
	)

	// cacheMisses tracks metadata cache misses
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalforge_cache_misses_total",
			Help: "Total number of metadata cache misses",
		},
		[]string{"kind"},
	)

	// enrichmentRequests tracks outbound enrichment API calls by outcome
	enrichmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evalforge_enrichment_requests_total",
			Help: "Total number of enrichment API requests",
		},
		[]string{"outcome"},
	)
)

// RecordStorageOp records storage operation metrics
func RecordStorageOp(store, operation string, duration time.Duration, err error) {
	storageOpTotal.WithLabelValues(store, operation).Inc()
	storageOpDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		storageOpErrors.WithLabelValues(store, operation).Inc()
	}
}

// RecordCacheHit records a metadata cache hit
func RecordCacheHit(kind string) {
	cacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheMiss records a metadata cache miss
func RecordCacheMiss(kind string) {
	cacheMisses.WithLabelValues(kind).Inc()
}

// RecordEnrichmentRequest records an enrichment API call outcome
func RecordEnrichmentRequest(outcome string) {
	enrichmentRequests.WithLabelValues(outcome).Inc()
}
