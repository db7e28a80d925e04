package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and dictionary Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchapi",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"mode", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchapi",
			Name:      "search_request_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	DictionaryLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchapi",
			Name:      "dictionary_lookups_total",
			Help:      "Dictionary cache lookups by outcome",
		},
		[]string{"dictionary", "result"}, // result: "hit" / "miss"
	)

	DictionaryRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchapi",
			Name:      "dictionary_refresh_total",
			Help:      "Dictionary snapshot rebuilds by outcome",
		},
		[]string{"dictionary", "status"}, // status: "ok" / "error"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(DictionaryLookupsTotal)
	prometheus.MustRegister(DictionaryRefreshTotal)
	searchMetricsRegistered = true
}
