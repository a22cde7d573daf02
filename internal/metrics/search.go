package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
)

// Search pipeline Prometheus metrics.
var (
	SearchResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nsnsearch",
			Name:      "search_resolutions_total",
			Help:      "Total number of resolved searches and lookups",
		},
		[]string{"path", "outcome"},
	)

	SearchResolutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nsnsearch",
			Name:      "search_resolution_duration_seconds",
			Help:      "Search resolution duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"path"},
	)

	SearchFragmentFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nsnsearch",
			Name:      "search_fragment_failures_total",
			Help:      "Reference table lookups that failed and were treated as absent",
		},
		[]string{"table"},
	)

	SearchDiscoveryTruncatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nsnsearch",
			Name:      "search_discovery_truncated_total",
			Help:      "Discovery probes that hit their row limit",
		},
	)

	FragmentCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nsnsearch",
			Name:      "fragment_cache_total",
			Help:      "Fragment cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	HistoryEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nsnsearch",
			Name:      "history_events_total",
			Help:      "Search history events by outcome",
		},
		[]string{"status"}, // "published" / "dropped" / "failed"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchResolutionsTotal)
	prometheus.MustRegister(SearchResolutionDuration)
	prometheus.MustRegister(SearchFragmentFailuresTotal)
	prometheus.MustRegister(SearchDiscoveryTruncatedTotal)
	prometheus.MustRegister(FragmentCacheTotal)
	prometheus.MustRegister(HistoryEventsTotal)
	searchMetricsRegistered = true
}

// SearchObserver feeds pipeline measurements into the search metrics.
type SearchObserver struct{}

// ObserveResolution records one resolved search.
func (SearchObserver) ObserveResolution(path, outcome string, d time.Duration) {
	SearchResolutionsTotal.WithLabelValues(path, outcome).Inc()
	SearchResolutionDuration.WithLabelValues(path).Observe(d.Seconds())
}

// ObserveFragmentFailure records a lookup degraded to "absent".
func (SearchObserver) ObserveFragmentFailure(table nsn.Table) {
	SearchFragmentFailuresTotal.WithLabelValues(string(table)).Inc()
}

// ObserveDiscoveryTruncated records a probe that returned a full page of rows.
func (SearchObserver) ObserveDiscoveryTruncated() {
	SearchDiscoveryTruncatedTotal.Inc()
}

// HistoryCounter counts history events by status.
type HistoryCounter struct{}

// Inc increments the counter for status.
func (HistoryCounter) Inc(status string) {
	HistoryEventsTotal.WithLabelValues(status).Inc()
}
