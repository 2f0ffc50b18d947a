package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zelican",
			Subsystem: "chat_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zelican",
			Subsystem: "chat_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Calls against the upstream authorization service
	AuthCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zelican",
			Subsystem: "chat_api",
			Name:      "auth_calls_total",
			Help:      "Total authorization service calls",
		},
		[]string{"operation", "status"},
	)

	AuthCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zelican",
			Subsystem: "chat_api",
			Name:      "auth_call_duration_seconds",
			Help:      "Authorization service call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)

	// Conversation store operations
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zelican",
			Subsystem: "chat_api",
			Name:      "store_operations_total",
			Help:      "Total conversation store operations",
		},
		[]string{"operation", "status"},
	)

	// Conversations removed by the retention job
	PurgedConversationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zelican",
			Subsystem: "chat_api",
			Name:      "purged_conversations_total",
			Help:      "Total conversations removed by the retention job",
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordAuthCall records an authorization service call
func RecordAuthCall(operation, status string, durationSec float64) {
	AuthCallsTotal.WithLabelValues(operation, status).Inc()
	AuthCallDuration.WithLabelValues(operation).Observe(durationSec)
}

// RecordStoreOperation records a conversation store operation
func RecordStoreOperation(operation, status string) {
	StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}
