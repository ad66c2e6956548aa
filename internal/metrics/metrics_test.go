// file: internal/metrics/metrics_test.go
// version: 2.0.0
// guid: 7a8b9c0d-1e2f-3a4b-5c6d-7e8f9a0b1c2d

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequests.WithLabelValues(OutcomeHTTPError))
	ObserveUpstream(OutcomeHTTPError, 25*time.Millisecond)
	after := testutil.ToFloat64(upstreamRequests.WithLabelValues(OutcomeHTTPError))
	assert.Equal(t, before+1, after)
}

func TestCacheObserver(t *testing.T) {
	var o CacheObserver

	hits := testutil.ToFloat64(cacheHits)
	o.ObserveHit()
	assert.Equal(t, hits+1, testutil.ToFloat64(cacheHits))

	evicted := testutil.ToFloat64(cacheEvicted)
	o.ObserveEvicted(3)
	assert.Equal(t, evicted+3, testutil.ToFloat64(cacheEvicted))

	o.ObserveSize(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(cacheEntries))

	o.ObserveMiss()
	o.ObserveExpired()
	o.ObserveInvalidated(2)
}

func TestIncCoalesced(t *testing.T) {
	before := testutil.ToFloat64(coalescedRequests)
	IncCoalesced()
	assert.Equal(t, before+1, testutil.ToFloat64(coalescedRequests))
}
