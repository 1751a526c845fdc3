package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Semua metric didaftarkan ke default registry dan diekspos lewat GET /metrics.
var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaint_api_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "complaint_api_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Lifecycle complaint
	ComplaintTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaint_lifecycle_transitions_total",
			Help: "Complaint lifecycle operations that changed state, by action and resulting status",
		},
		[]string{"action", "to_status"},
	)

	ComplaintRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaint_lifecycle_rejections_total",
			Help: "Lifecycle operations rejected by the engine, by action and HTTP status",
		},
		[]string{"action", "status"},
	)

	// Media host (Cloudinary)
	MediaOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaint_media_operations_total",
			Help: "Media host calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// 0 = closed, 1 = half-open, 2 = open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "complaint_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Best-effort side effects (timeline, pub/sub) yang gagal
	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaint_side_effect_failures_total",
			Help: "Best-effort side effects that failed, by sink",
		},
		[]string{"sink"},
	)
)

// RecordTransition mencatat transisi yang berhasil.
func RecordTransition(action, toStatus string) {
	ComplaintTransitions.WithLabelValues(action, toStatus).Inc()
}

// RecordRejection mencatat operasi lifecycle yang ditolak.
func RecordRejection(action string, status int) {
	ComplaintRejections.WithLabelValues(action, statusLabel(status)).Inc()
}

// RecordMedia mencatat hasil panggilan ke media host.
func RecordMedia(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	MediaOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordSideEffectFailure dipanggil saat timeline / publisher gagal ditulis.
func RecordSideEffectFailure(sink string) {
	SideEffectFailures.WithLabelValues(sink).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status == 400:
		return "400"
	case status == 401:
		return "401"
	case status == 403:
		return "403"
	case status == 404:
		return "404"
	case status == 409:
		return "409"
	default:
		return "other"
	}
}
