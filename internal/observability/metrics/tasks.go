package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TaskRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_requests_total",
			Help: "Total number of task requests",
		},
		[]string{"method", "path"},
	)

	TaskRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "task_requests_in_flight",
			Help: "Number of task requests currently being processed",
		},
	)

	TaskRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "task_request_duration_seconds",
			Help:    "Duration of task requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	TasksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Total number of tasks created",
		},
	)

	TasksCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_completed_total",
			Help: "Total number of tasks marked completed",
		},
	)

	TasksDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_deleted_total",
			Help: "Total number of tasks deleted",
		},
	)

	TaskOwnershipDenied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "task_ownership_denied_total",
			Help: "Total number of task mutations rejected by the ownership guard",
		},
	)
)
