// Package metrics defines the Prometheus metrics of the service.
//
// Metrics register on the default registry through promauto, which the
// /metrics endpoint serves. Call InitMetrics once at startup (extra calls
// are no-ops); the helper functions are safe before InitMetrics.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// HTTP
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// Cover lookups; result: found | none | error | rejected
	CoverLookupsTotal   *prometheus.CounterVec
	CoverLookupDuration prometheus.Histogram

	// Editor sign-ins; result: success | failure | throttled
	SignInsTotal *prometheus.CounterVec

	// Catalog writes; op: create | update | delete
	CatalogWritesTotal *prometheus.CounterVec

	// View cache; result: hit | miss
	ViewCacheTotal *prometheus.CounterVec

	// Circuit breakers
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec

	// Events; result: success | failure
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics creates and registers every metric
func InitMetrics() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "path", "status"},
		)
		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)
		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "HTTP requests being served",
			},
		)

		CoverLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booknotes_cover_lookups_total",
				Help: "Cover image lookups by outcome",
			},
			[]string{"result"},
		)
		CoverLookupDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "booknotes_cover_lookup_duration_seconds",
				Help:    "Cover lookup latency, breaker rejections excluded",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		)

		SignInsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booknotes_sign_ins_total",
				Help: "Editor sign-in attempts by outcome",
			},
			[]string{"result"},
		)

		CatalogWritesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booknotes_catalog_writes_total",
				Help: "Successful book writes by operation",
			},
			[]string{"op"},
		)

		ViewCacheTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booknotes_view_cache_total",
				Help: "View cache lookups by view and result",
			},
			[]string{"view", "result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Breaker state (0=CLOSED, 1=OPEN, 2=HALF_OPEN)",
			},
			[]string{"name"},
		)
		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "Requests through a breaker (success/failure/rejected)",
			},
			[]string{"name", "result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "Published domain events",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// ObserveHTTP records one finished request
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if HTTPRequestsTotal == nil {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveCoverLookup records a cover lookup outcome. elapsed < 0 skips
// the latency histogram.
func ObserveCoverLookup(result string, elapsed time.Duration) {
	if CoverLookupsTotal == nil {
		return
	}
	CoverLookupsTotal.WithLabelValues(result).Inc()
	if elapsed >= 0 {
		CoverLookupDuration.Observe(elapsed.Seconds())
	}
}

// IncSignIn counts a sign-in attempt
func IncSignIn(result string) {
	if SignInsTotal != nil {
		SignInsTotal.WithLabelValues(result).Inc()
	}
}

// IncCatalogWrite counts a successful book write
func IncCatalogWrite(op string) {
	if CatalogWritesTotal != nil {
		CatalogWritesTotal.WithLabelValues(op).Inc()
	}
}

// IncViewCache counts a cache hit or miss
func IncViewCache(view string, hit bool) {
	if ViewCacheTotal == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	ViewCacheTotal.WithLabelValues(view, result).Inc()
}

// SetBreakerState publishes a breaker state as its numeric value
func SetBreakerState(name string, state int) {
	if CircuitBreakerState != nil {
		CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	}
}

// IncBreakerRequest counts a request through a breaker
func IncBreakerRequest(name, result string) {
	if CircuitBreakerRequests != nil {
		CircuitBreakerRequests.WithLabelValues(name, result).Inc()
	}
}

// IncPublished counts a publish attempt
func IncPublished(routingKey string, ok bool) {
	if MessagesPublishedTotal == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}
