// Package metrics provides prometheus collectors for the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors registered by the server.
type Metrics struct {
	// Verdicts by regime and verdict label
	Verdicts *prometheus.CounterVec

	// Failed requests by error code
	Errors *prometheus.CounterVec

	// Request latency by route
	RequestDuration *prometheus.HistogramVec
}

// New registers all collectors on reg. Each server owns its registry so that
// tests can create servers repeatedly.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Verdicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "csa_verdicts_total",
			Help: "Classification verdicts by regime",
		}, []string{"regime", "verdict"}),

		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "csa_errors_total",
			Help: "Rejected requests by error code",
		}, []string{"code"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "csa_http_request_duration_seconds",
			Help:    "HTTP request duration by route and status",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"route", "status"}),
	}
}

// IncrementVerdict records one regime verdict.
func (m *Metrics) IncrementVerdict(regime, verdict string) {
	if m != nil {
		m.Verdicts.WithLabelValues(regime, verdict).Inc()
	}
}

// IncrementError records a rejected request.
func (m *Metrics) IncrementError(code string) {
	if m != nil {
		m.Errors.WithLabelValues(code).Inc()
	}
}

// ObserveRequest records the duration of a request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
	}
}
