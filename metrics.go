package bookshelf

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors reported by the server
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	FieldErrors     *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates the server metrics and registers them with a fresh registry
func NewMetrics() *Metrics {
	metrics := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bookshelf",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of http requests handled",
			},
			[]string{"method", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bookshelf",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Time spent handling http requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),

		FieldErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bookshelf",
				Subsystem: "graphql",
				Name:      "field_errors_total",
				Help:      "Total number of errors reported in graphql responses",
			},
			[]string{"kind"},
		),

		registry: prometheus.NewRegistry(),
	}

	metrics.registry.MustRegister(
		metrics.RequestsTotal,
		metrics.RequestDuration,
		metrics.FieldErrors,
	)

	return metrics
}

// Handler serves the registered metrics in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeRequest(method string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func (m *Metrics) observeFieldError(kind string) {
	m.FieldErrors.WithLabelValues(kind).Inc()
}
