package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Endpoint tracks latency and failures of the forecast API endpoints.
type Endpoint struct {
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
}

// NewEndpoint registers endpoint metrics on reg.
func NewEndpoint(reg prometheus.Registerer) *Endpoint {
	f := promauto.With(reg)
	return &Endpoint{
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stockforecast",
				Subsystem: "api",
				Name:      "latency_seconds",
				Help:      "Latency of forecast endpoints",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"endpoint"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockforecast",
				Subsystem: "api",
				Name:      "errors_total",
				Help:      "Errors by forecast endpoint and HTTP status",
			},
			[]string{"endpoint", "status"},
		),
	}
}

// Observe records one request. A zero status means success.
func (m *Endpoint) Observe(endpoint string, started time.Time, status string) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
	if status != "" {
		m.errors.WithLabelValues(endpoint, status).Inc()
	}
}
