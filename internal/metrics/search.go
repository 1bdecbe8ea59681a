package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and clustering Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segmatch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"}, // "ok" / "empty"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "segmatch",
			Name:      "search_duration_seconds",
			Help:      "Search pipeline duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	DedupeRemovedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "segmatch",
			Name:      "dedupe_removed_total",
			Help:      "Total results removed by the similarity de-duplication filter",
		},
	)

	ClusterFitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "segmatch",
			Name:      "cluster_fit_duration_seconds",
			Help:      "Constrained clustering fit duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ClusterFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "segmatch",
			Name:      "cluster_fallback_total",
			Help:      "Fits that fell back to a single all-covering cluster",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(DedupeRemovedTotal)
	prometheus.MustRegister(ClusterFitDuration)
	prometheus.MustRegister(ClusterFallbackTotal)
	searchMetricsRegistered = true
}
