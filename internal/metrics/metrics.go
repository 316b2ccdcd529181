// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. One instance is created at startup
// and shared by the server and the session service.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted   *prometheus.CounterVec
	SessionsCompleted *prometheus.CounterVec
	FormsRecommended  prometheus.Counter
	DeliveryFailures  *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SessionsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kioskflow_sessions_started_total",
			Help: "Flow sessions started, by flow id.",
		}, []string{"flow"}),
		SessionsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kioskflow_sessions_completed_total",
			Help: "Flow sessions that reached a terminal node, by flow id.",
		}, []string{"flow"}),
		FormsRecommended: factory.NewCounter(prometheus.CounterOpts{
			Name: "kioskflow_forms_recommended_total",
			Help: "Total form codes recommended across completed sessions.",
		}),
		DeliveryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kioskflow_delivery_failures_total",
			Help: "Failed calls to external collaborators, by collaborator.",
		}, []string{"collaborator"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kioskflow_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
