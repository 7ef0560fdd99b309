package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickride_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickride_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// StoreQueries counts SELECTs against the listing table by operation and outcome.
	StoreQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickride_store_queries_total",
			Help: "Total number of data store queries",
		},
		[]string{"operation", "status"},
	)
)

// ObserveQuery records one store query outcome.
func ObserveQuery(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreQueries.WithLabelValues(operation, status).Inc()
}
