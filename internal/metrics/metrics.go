package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcoach_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitcoach_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PlansCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitcoach_plans_created_total",
			Help: "Total number of training plans created",
		},
	)

	TrainingLogsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcoach_training_logs_total",
			Help: "Total number of training logs, by outcome",
		},
		[]string{"outcome"},
	)

	ScanNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcoach_scan_notifications_total",
			Help: "Notifications created by the compliance sweep",
		},
		[]string{"mode"},
	)

	DispatchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcoach_dispatch_failures_total",
			Help: "Notification dispatch failures, by stage",
		},
		[]string{"stage"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPlanCreated() {
	PlansCreatedTotal.Inc()
}

// RecordTrainingLog counts a check-in as "completed" or "missed".
func RecordTrainingLog(completed bool) {
	outcome := "missed"
	if completed {
		outcome = "completed"
	}
	TrainingLogsTotal.WithLabelValues(outcome).Inc()
}

func RecordScanNotifications(mode string, n int) {
	ScanNotificationsTotal.WithLabelValues(mode).Add(float64(n))
}

// RecordDispatchFailure takes "persist" or "publish".
func RecordDispatchFailure(stage string) {
	DispatchFailuresTotal.WithLabelValues(stage).Inc()
}
