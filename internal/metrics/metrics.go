package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, path and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourly_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tourly_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// SeatsReleased counts seats credited back by the delayed-release path
	SeatsReleased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tourly_seats_released_total",
			Help: "Seats returned to inventory by expired holds",
		},
	)

	// WebhookEvents counts gateway webhook deliveries by type and outcome
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourly_gateway_webhook_events_total",
			Help: "Gateway webhook events processed",
		},
		[]string{"type", "outcome"},
	)
)
