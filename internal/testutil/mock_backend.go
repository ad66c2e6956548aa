// file: internal/testutil/mock_backend.go
// version: 2.0.0
// guid: c3d4e5f6-a7b8-9012-cdef-345678901abc

package testutil

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// Route is a canned backend response.
type Route struct {
	Status int // defaults to 200
	Body   string
}

// MockBackend is an httptest.Server that mimics the marketplace API and counts
// the requests it receives.
type MockBackend struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Route
	requests []*http.Request
	hits     atomic.Int64
}

// MockBackendServer starts a mock backend. Route keys are matched against the
// request URI using Contains; the longest matching key wins.
func MockBackendServer(t *testing.T, routes map[string]Route) *MockBackend {
	t.Helper()
	m := &MockBackend{routes: make(map[string]Route, len(routes))}
	for k, v := range routes {
		m.routes[k] = v
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Close)
	return m
}

func (m *MockBackend) serve(w http.ResponseWriter, r *http.Request) {
	m.hits.Add(1)

	m.mu.Lock()
	m.requests = append(m.requests, r.Clone(r.Context()))
	patterns := make([]string, 0, len(m.routes))
	for p := range m.routes {
		patterns = append(patterns, p)
	}
	routes := m.routes
	m.mu.Unlock()

	sort.Slice(patterns, func(i, j int) bool { return len(patterns[i]) > len(patterns[j]) })
	for _, p := range patterns {
		if strings.Contains(r.URL.RequestURI(), p) {
			route := routes[p]
			status := route.Status
			if status == 0 {
				status = http.StatusOK
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(route.Body))
			return
		}
	}
	http.NotFound(w, r)
}

// SetRoute replaces or adds a route while the server is running.
func (m *MockBackend) SetRoute(pattern string, route Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make(map[string]Route, len(m.routes)+1)
	for k, v := range m.routes {
		next[k] = v
	}
	next[pattern] = route
	m.routes = next
}

// Hits returns the number of requests served.
func (m *MockBackend) Hits() int {
	return int(m.hits.Load())
}

// LastRequest returns the most recent request, or nil.
func (m *MockBackend) LastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// ModelsSearchResponse is a search response with two models.
const ModelsSearchResponse = `{
	"total": 2,
	"page": 1,
	"items": [
		{"id": "llama-3-8b", "name": "Llama 3 8B", "provider": "meta", "category": "text-generation", "price_per_1k_tokens": 0.2, "currency": "USD"},
		{"id": "sdxl", "name": "Stable Diffusion XL", "provider": "stability", "category": "image-generation", "price_per_1k_tokens": 1.5, "currency": "USD"}
	]
}`

// ModelDetailResponse is a single model.
const ModelDetailResponse = `{"id": "llama-3-8b", "name": "Llama 3 8B", "provider": "meta", "category": "text-generation", "description": "General purpose chat model", "price_per_1k_tokens": 0.2, "currency": "USD", "tags": ["chat", "open-weights"]}`

// DatasetsResponse lists one dataset.
const DatasetsResponse = `{"total": 1, "page": 1, "items": [{"id": "wiki-en", "name": "English Wikipedia", "size_bytes": 21474836480, "license": "CC-BY-SA"}]}`

// UsageResponse is a billing usage summary.
const UsageResponse = `{"period": "2024-01", "requests": 1200, "tokens": 350000, "cost": 42.5, "currency": "USD"}`

// EmptySearchResponse returns no results.
const EmptySearchResponse = `{"total": 0, "page": 1, "items": []}`
