package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	SessionsCreated     prometheus.Counter
	SessionFailures     *prometheus.CounterVec
	WebhooksReceived    prometheus.Counter
	WebhookAuthFailures prometheus.Counter
	DecisionsStored     *prometheus.CounterVec
	EndpointLatency     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verigate_sessions_created_total",
			Help: "Total number of verification sessions created with the provider",
		}),
		SessionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_session_failures_total",
			Help: "Total number of failed session creations, labeled by error kind",
		}, []string{"kind"}),
		WebhooksReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verigate_webhooks_received_total",
			Help: "Total number of decision webhooks received",
		}),
		WebhookAuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verigate_webhook_auth_failures_total",
			Help: "Total number of webhooks rejected for a missing or invalid signature",
		}),
		DecisionsStored: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_decisions_stored_total",
			Help: "Total number of decision records persisted, labeled by decision",
		}, []string{"decision"}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verigate_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// IncrementSessionsCreated increments the sessions created counter by 1
func (m *Metrics) IncrementSessionsCreated() {
	m.SessionsCreated.Inc()
}

// IncrementSessionFailures increments the session failure counter with an error kind label
func (m *Metrics) IncrementSessionFailures(kind string) {
	m.SessionFailures.WithLabelValues(kind).Inc()
}

// IncrementWebhooksReceived increments the webhooks received counter by 1
func (m *Metrics) IncrementWebhooksReceived() {
	m.WebhooksReceived.Inc()
}

// IncrementWebhookAuthFailures increments the webhook auth failure counter by 1
func (m *Metrics) IncrementWebhookAuthFailures() {
	m.WebhookAuthFailures.Inc()
}

// IncrementDecisionsStored increments the decisions stored counter with a decision label
func (m *Metrics) IncrementDecisionsStored(decision string) {
	m.DecisionsStored.WithLabelValues(decision).Inc()
}

// ObserveEndpointLatency records the latency for a given endpoint
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
