// Package metricx holds the service's prometheus collectors.
package metricx

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ApplicationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolsa_application_transitions_total",
			Help: "Applied application status transitions",
		},
		[]string{"from", "to"},
	)

	TransitionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolsa_application_transition_rejections_total",
			Help: "Rejected application status transitions by error code",
		},
		[]string{"code"},
	)

	DocumentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolsa_document_uploads_total",
			Help: "Document upload attempts by outcome",
		},
		[]string{"outcome"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolsa_notifications_total",
			Help: "Notification deliveries by result",
		},
		[]string{"result"},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolsa_billing_webhook_events_total",
			Help: "Received billing webhook events by type",
		},
		[]string{"type"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bolsa_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Handler serves the default registry for fiber
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
