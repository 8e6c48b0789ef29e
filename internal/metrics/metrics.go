// Package metrics exposes prometheus instrumentation for searches and
// command dispatch. All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/file-finder/backend/internal/search"
)

type Metrics struct {
	registry    *prometheus.Registry
	searches    prometheus.Counter
	matches     prometheus.Counter
	skipped     prometheus.Counter
	cycles      prometheus.Counter
	duration    prometheus.Histogram
	invocations *prometheus.CounterVec
}

// New builds the collectors on a private registry alongside the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filefinder_search_total",
			Help: "Number of completed directory searches.",
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filefinder_search_matches_total",
			Help: "Paths returned across all searches.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filefinder_search_skipped_entries_total",
			Help: "Entries dropped because they could not be listed or canonicalized.",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filefinder_search_cycles_total",
			Help: "Directory edges not re-entered because the directory was already visited.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "filefinder_search_duration_seconds",
			Help:    "Wall time of a single search walk.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filefinder_command_invocations_total",
			Help: "Bridge command dispatches by command and status.",
		}, []string{"command", "status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.searches, m.matches, m.skipped, m.cycles, m.duration, m.invocations,
	)
	return m
}

// ObserveSearch records one finished walk.
func (m *Metrics) ObserveSearch(rep search.Report, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searches.Inc()
	m.matches.Add(float64(len(rep.Paths)))
	m.skipped.Add(float64(rep.Skipped))
	m.cycles.Add(float64(rep.Cycles))
	m.duration.Observe(elapsed.Seconds())
}

// ObserveInvocation counts one command dispatch.
func (m *Metrics) ObserveInvocation(command, status string) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(command, status).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
