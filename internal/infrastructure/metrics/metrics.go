package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Guidance-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pathwise",
			Subsystem: "guidance_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pathwise",
			Subsystem: "guidance_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Upstream agent backend counters
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pathwise",
			Subsystem: "guidance_api",
			Name:      "upstream_calls_total",
			Help:      "Total agent backend calls",
		},
		[]string{"endpoint", "status"},
	)

	// Upstream call duration histogram
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pathwise",
			Subsystem: "guidance_api",
			Name:      "upstream_duration_seconds",
			Help:      "Agent backend call duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	// Best-effort persistence failures after a successful upstream call
	TurnPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pathwise",
			Subsystem: "guidance_api",
			Name:      "turn_persist_failures_total",
			Help:      "Chat turns whose reply was delivered but not persisted",
		},
	)

	// DB query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pathwise",
			Subsystem: "guidance_api",
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"query_type"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpstreamCall records an agent backend call
func RecordUpstreamCall(endpoint, status string, durationSec float64) {
	UpstreamCallsTotal.WithLabelValues(endpoint, status).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(durationSec)
}

// RecordTurnPersistFailure records a swallowed post-reply persistence failure
func RecordTurnPersistFailure() {
	TurnPersistFailures.Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(queryType string, durationSec float64) {
	DBQueryDuration.WithLabelValues(queryType).Observe(durationSec)
}
