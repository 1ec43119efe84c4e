package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codeclash"

// Metrics holds the Prometheus collectors for the API process.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	JudgeRequests    *prometheus.CounterVec
	JudgeDuration    prometheus.Histogram
	SubmissionTotals *prometheus.CounterVec
}

// New registers all collectors on a fresh registry, so tests can build as many
// instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		JudgeRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "judge",
				Name:      "requests_total",
				Help:      "Judge calls by outcome (ok, transport_error, bad_status, bad_body).",
			},
			[]string{"outcome"},
		),
		JudgeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "judge",
				Name:      "request_duration_seconds",
				Help:      "Judge round-trip duration in seconds.",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		SubmissionTotals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "submissions",
				Name:      "total",
				Help:      "Judged submissions by status and persistence result.",
			},
			[]string{"status", "persisted"},
		),
	}
	reg.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.JudgeRequests,
		m.JudgeDuration,
		m.SubmissionTotals,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
