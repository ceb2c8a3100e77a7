package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total number of auth requests",
		},
		[]string{"method", "path"},
	)

	AuthRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_requests_in_flight",
			Help: "Number of auth requests currently being processed",
		},
	)

	AuthRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_request_duration_seconds",
			Help:    "Duration of auth requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AccountsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "accounts_registered_total",
			Help: "Total number of accounts created",
		},
	)

	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	SessionsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_issued_total",
			Help: "Total number of refresh sessions issued",
		},
	)

	SessionsRefreshed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_refreshed_total",
			Help: "Total number of refresh sessions rotated",
		},
	)

	SessionsRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_revoked_total",
			Help: "Total number of refresh sessions revoked by logout",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_total",
			Help: "Total number of refresh sessions rejected as expired",
		},
	)

	SessionsCleanupDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_cleanup_deleted_total",
			Help: "Total number of expired sessions deleted during cleanup",
		},
	)
)
