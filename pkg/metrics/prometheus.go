// Package metrics provides Prometheus metrics for the roundup allocation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Allocation metrics - the business core
	allocationsTotal   prometheus.Counter
	allocationFailures prometheus.Counter

	// Dataset metrics - authoritative store vs. static fallback
	datasetFallbacks   *prometheus.CounterVec
	datasetFetchErrors *prometheus.CounterVec

	// Persistence metrics - best-effort recording outcomes
	persistenceOutcomes *prometheus.CounterVec

	// Join code metrics
	joinCodeRetries   prometheus.Counter
	joinCodeExhausted prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "roundup",
		subsystem:        "allocator",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.allocationsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "allocations_total",
		Help:      "Total number of completed bounty allocations",
	})

	m.allocationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "allocation_failures_total",
		Help:      "Total number of allocation requests that produced no decision",
	})

	m.datasetFallbacks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_fallbacks_total",
			Help:      "Times the static dataset was served instead of the record store",
		},
		[]string{"collection"},
	)

	m.datasetFetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_fetch_errors_total",
			Help:      "Record store fetch failures by collection",
		},
		[]string{"collection"},
	)

	m.persistenceOutcomes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "persistence_outcomes_total",
			Help:      "Assignment persistence outcomes (recorded, skipped, failed)",
		},
		[]string{"outcome"},
	)

	m.joinCodeRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "join_code_retries_total",
		Help:      "Join code candidates discarded due to collisions",
	})

	m.joinCodeExhausted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "join_code_exhausted_total",
		Help:      "Join code allocations abandoned after the retry budget",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method, and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the registry metrics are collected in, for serving
// through promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

// RecordAllocation counts a completed allocation decision.
func RecordAllocation() {
	if globalManager.enabled {
		globalManager.allocationsTotal.Inc()
	}
}

// RecordAllocationFailure counts an allocation request that failed.
func RecordAllocationFailure() {
	if globalManager.enabled {
		globalManager.allocationFailures.Inc()
	}
}

// RecordDatasetFallback counts a fallback to the static dataset.
func RecordDatasetFallback(collection string) {
	if globalManager.enabled {
		globalManager.datasetFallbacks.WithLabelValues(collection).Inc()
	}
}

// RecordDatasetFetchError counts a record store fetch failure.
func RecordDatasetFetchError(collection string) {
	if globalManager.enabled {
		globalManager.datasetFetchErrors.WithLabelValues(collection).Inc()
	}
}

// RecordPersistenceOutcome counts one assignment persistence outcome.
func RecordPersistenceOutcome(outcome string) {
	if globalManager.enabled {
		globalManager.persistenceOutcomes.WithLabelValues(outcome).Inc()
	}
}

// RecordJoinCodeRetry counts a discarded join code candidate.
func RecordJoinCodeRetry() {
	if globalManager.enabled {
		globalManager.joinCodeRetries.Inc()
	}
}

// RecordJoinCodeExhausted counts an abandoned join code allocation.
func RecordJoinCodeExhausted() {
	if globalManager.enabled {
		globalManager.joinCodeExhausted.Inc()
	}
}

// RecordHTTPRequest counts an HTTP request and observes its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMS float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMS)
}
