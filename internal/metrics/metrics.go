// Package metrics provides Prometheus metric collection and exposure.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records cache, fetch and HTTP request metrics.
type Collector struct {
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	fetches         *prometheus.CounterVec
	fetchLatency    *prometheus.HistogramVec
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inkwell_page_cache_hits_total",
			Help: "Total number of page cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inkwell_page_cache_misses_total",
			Help: "Total number of page cache misses.",
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_notion_fetch_total",
			Help: "Total number of Notion fetches by path and outcome.",
		}, []string{"path", "success"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inkwell_notion_fetch_duration_seconds",
			Help:    "Latency of Notion fetches in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_http_requests_total",
			Help: "Total number of HTTP requests by status code.",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "inkwell_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.cacheHits,
		c.cacheMisses,
		c.fetches,
		c.fetchLatency,
		c.requests,
		c.requestDuration,
	)

	return c
}

// CacheHit records a page cache hit.
func (c *Collector) CacheHit() {
	c.cacheHits.Inc()
}

// CacheMiss records a page cache miss.
func (c *Collector) CacheMiss() {
	c.cacheMisses.Inc()
}

// RecordFetch records a Notion fetch. Path distinguishes the full
// fetch from the degraded fallback.
func (c *Collector) RecordFetch(path string, duration time.Duration, success bool) {
	c.fetches.WithLabelValues(path, strconv.FormatBool(success)).Inc()
	c.fetchLatency.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordRequest records a completed HTTP request.
func (c *Collector) RecordRequest(statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// Handler returns an HTTP handler serving Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
