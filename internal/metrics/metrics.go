// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream fetch outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeHTTPError    = "http_error"
	OutcomeNetworkError = "network_error"
	OutcomeDecodeError  = "decode_error"
)

var (
	registerOnce sync.Once

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "apicache",
		Name:      "cache_hits_total",
		Help:      "Total number of reads served from the response cache",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "apicache",
		Name:      "cache_misses_total",
		Help:      "Total number of reads that found no fresh entry",
	})
	cacheExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "apicache",
		Name:      "cache_expired_total",
		Help:      "Total number of entries dropped because they were stale on read",
	})
	cacheEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "apicache",
		Name:      "cache_evicted_total",
		Help:      "Total number of entries removed by the size bound or the janitor",
	})
	cacheInvalidated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "apicache",
		Name:      "cache_invalidated_total",
		Help:      "Total number of entries removed by pattern invalidation or clear",
	})
	cacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "apicache",
		Name:      "cache_entries",
		Help:      "Current number of entries in the response cache",
	})
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "apicache",
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream requests by outcome",
	}, []string{"outcome"})
	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "apicache",
		Name:      "upstream_request_duration_seconds",
		Help:      "Histogram of upstream request durations in seconds by outcome",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms up to ~5s
	}, []string{"outcome"})
	coalescedRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "apicache",
		Name:      "coalesced_requests_total",
		Help:      "Total number of callers that shared another caller's in-flight request",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(cacheHits, cacheMisses, cacheExpired, cacheEvicted, cacheInvalidated,
			cacheEntries, upstreamRequests, upstreamDuration, coalescedRequests)
	})
}

// Upstream helpers
func ObserveUpstream(outcome string, d time.Duration) {
	upstreamRequests.WithLabelValues(outcome).Inc()
	upstreamDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
func IncCoalesced() { coalescedRequests.Inc() }

// CacheObserver forwards store events to the cache collectors.
type CacheObserver struct{}

func (CacheObserver) ObserveHit()              { cacheHits.Inc() }
func (CacheObserver) ObserveMiss()             { cacheMisses.Inc() }
func (CacheObserver) ObserveExpired()          { cacheExpired.Inc() }
func (CacheObserver) ObserveEvicted(n int)     { cacheEvicted.Add(float64(n)) }
func (CacheObserver) ObserveInvalidated(n int) { cacheInvalidated.Add(float64(n)) }
func (CacheObserver) ObserveSize(n int)        { cacheEntries.Set(float64(n)) }
