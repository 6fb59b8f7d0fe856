// Package metrics exposes Prometheus counters for the search flow.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search paths reported in folio_search_requests_total.
const (
	PathPrimary  = "primary"
	PathFallback = "fallback"
	PathNone     = "none"
)

type Metrics struct {
	searches     *prometheus.CounterVec
	failures     prometheus.Counter
	degradations prometheus.Counter
	duration     prometheus.Histogram
}

// New registers the search metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_search_requests_total",
			Help: "Completed content searches by the strategy that produced the results.",
		}, []string{"path"}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Name: "folio_search_failures_total",
			Help: "Content searches aborted by a store failure.",
		}),
		degradations: f.NewCounter(prometheus.CounterOpts{
			Name: "folio_summary_degradations_total",
			Help: "Summaries that fell back to truncated text.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "folio_search_duration_seconds",
			Help:    "End-to-end search latency including summarization.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) SearchServed(path string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(path).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) SearchFailed() {
	if m == nil {
		return
	}
	m.failures.Inc()
}

func (m *Metrics) SummaryDegraded() {
	if m == nil {
		return
	}
	m.degradations.Inc()
}
