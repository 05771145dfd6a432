package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search engine Prometheus metrics.
var (
	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ethnos",
			Name:      "search_total",
			Help:      "Total number of searches by entity kind and engine",
		},
		[]string{"kind", "engine"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ethnos",
			Name:      "query_duration_seconds",
			Help:      "Relational query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query"},
	)

	IndexRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ethnos",
			Name:      "index_request_duration_seconds",
			Help:      "Full-text index lookup duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ethnos",
			Name:      "cache_total",
			Help:      "Cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SchemaDriftTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ethnos",
			Name:      "schema_drift_total",
			Help:      "Queries that hit a missing optional column or table",
		},
		[]string{"query"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers engine metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(IndexRequestDuration)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(SchemaDriftTotal)
	searchMetricsRegistered = true
}
