// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Notification results.
const (
	ResultPublished = "published"
	ResultFailed    = "failed"
	ResultSkipped   = "skipped"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadflow_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leadflow_http_in_flight_requests",
			Help: "Number of HTTP requests being served",
		},
	)

	TasksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadflow_tasks_created_total",
			Help: "Total number of tasks persisted",
		},
	)

	TaskValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_task_validation_failures_total",
			Help: "Task creation requests rejected by validation, by field",
		},
		[]string{"field"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_notifications_total",
			Help: "Realtime notifications by outcome",
		},
		[]string{"result"},
	)
)

func RecordTaskCreated() {
	TasksCreated.Inc()
}

func RecordValidationFailure(field string) {
	TaskValidationFailures.WithLabelValues(field).Inc()
}

func RecordNotification(result string) {
	Notifications.WithLabelValues(result).Inc()
}
