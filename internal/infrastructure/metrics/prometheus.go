// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trendwatch"

var (
	// CollectionRunsTotal tracks collection pipeline runs.
	// Labels:
	//   - region: 2-letter region code
	//   - status: completed, failed, already_collected
	CollectionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_runs_total",
			Help:      "Total number of collection runs per region",
		},
		[]string{"region", "status"},
	)

	// VideosCollectedTotal tracks persisted trending videos.
	// Labels:
	//   - region: 2-letter region code
	VideosCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "videos_collected_total",
			Help:      "Total number of trending videos persisted",
		},
		[]string{"region"},
	)

	// FetchRequestsTotal tracks upstream API calls.
	// Labels:
	//   - region: 2-letter region code
	//   - status: success, error
	FetchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Total number of upstream trending chart fetches",
		},
		[]string{"region", "status"},
	)

	// FetchDurationSeconds tracks upstream API call latency.
	FetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Upstream trending chart fetch latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"region"},
	)

	// CacheOperationsTotal tracks cache operations (get, set, invalidate).
	// Labels:
	//   - operation: get, set, invalidate
	//   - status: hit, miss, success, error
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of trending cache operations",
		},
		[]string{"operation", "status"},
	)

	// SingleflightRequestsTotal tracks read-path request coalescing.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests on the read path",
		},
		[]string{"result"},
	)
)

// Collection run status constants.
const (
	RunStatusCompleted        = "completed"
	RunStatusFailed           = "failed"
	RunStatusAlreadyCollected = "already_collected"
)

// Fetch status constants.
const (
	FetchStatusSuccess = "success"
	FetchStatusError   = "error"
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet        = "get"
	CacheOpSet        = "set"
	CacheOpInvalidate = "invalidate"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
