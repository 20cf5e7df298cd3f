package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cron_commander"

// Metrics exposes Prometheus collectors for toggle and listing activity.
type Metrics struct {
	toggleRequests *prometheus.CounterVec
	listedJobs     prometheus.Gauge
	gatherer       prometheus.Gatherer
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// MustNewMetrics registers the collectors with reg and panics on conflict
func MustNewMetrics(reg *prometheus.Registry) *Metrics {
	toggleRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toggle_requests_total",
			Help:      "Toggle requests by outcome (Stopped, Started or an error kind).",
		},
		[]string{"outcome"},
	)
	listedJobs := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "listed_jobs",
			Help:      "Number of jobs in the most recent schedule snapshot.",
		},
	)

	reg.MustRegister(toggleRequests, listedJobs)

	return &Metrics{
		toggleRequests: toggleRequests,
		listedJobs:     listedJobs,
		gatherer:       reg,
	}
}

// ObserveToggle counts one toggle request
func (m *Metrics) ObserveToggle(outcome string) {
	if m == nil {
		return
	}
	m.toggleRequests.WithLabelValues(outcome).Inc()
}

// ObserveSnapshot records the size of a freshly read snapshot
func (m *Metrics) ObserveSnapshot(jobs int) {
	if m == nil {
		return
	}
	m.listedJobs.Set(float64(jobs))
}

// Handler serves the exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
