// Package metrics provides Prometheus metrics for the clinic API: the usual
// HTTP request metrics plus counters for the prescription workflow (persists,
// exports by format, store failures). All metrics register with the default
// registry at package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	PrescriptionPersists = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_persist_total",
			Help: "Prescription persist attempts by outcome (ok, validation_error, store_error)",
		},
		[]string{"outcome"},
	)

	PrescriptionExports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_export_total",
			Help: "Prescription exports by format (pdf, print)",
		},
		[]string{"format"},
	)

	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_store_errors_total",
			Help: "Document store failures by operation",
		},
		[]string{"operation"},
	)

	CatalogRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Remedy catalog refreshes by outcome",
		},
		[]string{"outcome"},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(PrescriptionPersists)
	prometheus.MustRegister(PrescriptionExports)
	prometheus.MustRegister(StoreErrors)
	prometheus.MustRegister(CatalogRefreshes)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}
