package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.Gauge.GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.Histogram.GetSampleCount()
}

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	first := HTTPRequestsTotal
	InitMetrics()
	assert.Same(t, first, HTTPRequestsTotal)
	assert.NotNil(t, CoverLookupsTotal)
	assert.NotNil(t, SignInsTotal)
}

func TestObserveHTTP(t *testing.T) {
	InitMetrics()
	c := HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/books", "200")
	before := counterValue(t, c)

	ObserveHTTP("GET", "/api/v1/books", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, counterValue(t, c))
}

func TestObserveCoverLookup(t *testing.T) {
	InitMetrics()
	found := CoverLookupsTotal.WithLabelValues("found")
	rejected := CoverLookupsTotal.WithLabelValues("rejected")
	before := histogramCount(t, CoverLookupDuration)
	f0, r0 := counterValue(t, found), counterValue(t, rejected)

	ObserveCoverLookup("found", 120*time.Millisecond)
	ObserveCoverLookup("rejected", -1)

	assert.Equal(t, f0+1, counterValue(t, found))
	assert.Equal(t, r0+1, counterValue(t, rejected))
	assert.Equal(t, before+1, histogramCount(t, CoverLookupDuration))
}

func TestCounters(t *testing.T) {
	InitMetrics()

	s0 := counterValue(t, SignInsTotal.WithLabelValues("failure"))
	IncSignIn("failure")
	assert.Equal(t, s0+1, counterValue(t, SignInsTotal.WithLabelValues("failure")))

	w0 := counterValue(t, CatalogWritesTotal.WithLabelValues("delete"))
	IncCatalogWrite("delete")
	assert.Equal(t, w0+1, counterValue(t, CatalogWritesTotal.WithLabelValues("delete")))

	h0 := counterValue(t, ViewCacheTotal.WithLabelValues("home", "hit"))
	IncViewCache("home", true)
	assert.Equal(t, h0+1, counterValue(t, ViewCacheTotal.WithLabelValues("home", "hit")))

	p0 := counterValue(t, MessagesPublishedTotal.WithLabelValues("book.created", "failure"))
	IncPublished("book.created", false)
	assert.Equal(t, p0+1, counterValue(t, MessagesPublishedTotal.WithLabelValues("book.created", "failure")))
}

func TestBreakerGauges(t *testing.T) {
	InitMetrics()

	SetBreakerState("covers", 1)
	assert.Equal(t, 1.0, gaugeValue(t, CircuitBreakerState.WithLabelValues("covers")))
	SetBreakerState("covers", 0)
	assert.Equal(t, 0.0, gaugeValue(t, CircuitBreakerState.WithLabelValues("covers")))

	r0 := counterValue(t, CircuitBreakerRequests.WithLabelValues("covers", "rejected"))
	IncBreakerRequest("covers", "rejected")
	assert.Equal(t, r0+1, counterValue(t, CircuitBreakerRequests.WithLabelValues("covers", "rejected")))
}
