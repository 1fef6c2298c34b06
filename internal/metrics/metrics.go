// Package metrics provides Prometheus metrics for the comparison backend.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
	CacheError = "error"
)

// Offer fetch outcomes
const (
	FetchOK    = "ok"
	FetchEmpty = "empty"
	FetchError = "error"
)

// Registry holds every collector of the service
var Registry = prometheus.NewRegistry()

var (
	// CacheLookupsTotal counts offer cache lookups by result.
	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_cache_lookups_total",
			Help: "Total number of offer cache lookups",
		},
		[]string{"result"},
	)

	// OfferFetchesTotal counts calls to the external offer source by outcome.
	OfferFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_fetches_total",
			Help: "Total number of requests to the offer source",
		},
		[]string{"outcome"},
	)

	// OfferFetchDuration tracks offer source latency, rate limit wait included.
	OfferFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "offer_fetch_duration_seconds",
			Help:    "Time spent fetching offers from the offer source",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	// ComparisonsTotal counts completed comparisons.
	ComparisonsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "comparisons_total",
			Help: "Total number of completed price comparisons",
		},
	)

	// ComparisonDuration tracks end-to-end comparison latency.
	ComparisonDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "comparison_duration_seconds",
			Help:    "Time spent computing a price comparison",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// HTTPRequestsTotal counts HTTP requests by route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency by route.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		CacheLookupsTotal,
		OfferFetchesTotal,
		OfferFetchDuration,
		ComparisonsTotal,
		ComparisonDuration,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// Handler returns the HTTP handler exposing Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordCacheLookup records an offer cache lookup.
func RecordCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordOfferFetch records a request to the offer source.
func RecordOfferFetch(outcome string, duration time.Duration) {
	OfferFetchesTotal.WithLabelValues(outcome).Inc()
	OfferFetchDuration.Observe(duration.Seconds())
}

// RecordComparison records a completed comparison.
func RecordComparison(duration time.Duration) {
	ComparisonsTotal.Inc()
	ComparisonDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
