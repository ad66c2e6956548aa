// file: internal/fetch/url_test.go
// version: 1.0.0
// guid: 4d92a7e0-1c3b-4f6e-9a85-b0e7d2c6f318

package fetch

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"empty path", "https://api.example.com", "", "https://api.example.com"},
		{"relative path", "https://api.example.com", "models", "https://api.example.com/models"},
		{"absolute https passthrough", "https://api.example.com", "https://other.example.com/x", "https://other.example.com/x"},
		{"absolute http passthrough", "https://api.example.com", "http://other.example.com/x", "http://other.example.com/x"},
		{"leading slash", "https://api.example.com", "/models/1", "https://api.example.com/models/1"},
		{"trailing slash on base", "https://api.example.com/", "models", "https://api.example.com/models"},
		{"both slashes", "https://api.example.com/v1//", "//models", "https://api.example.com/v1/models"},
		{"empty path trims base", "https://api.example.com/", "", "https://api.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.base, tt.path))
		})
	}
}

func TestKeyIsIndependentOfInsertionOrder(t *testing.T) {
	t.Parallel()

	h1 := http.Header{}
	h1.Set("Authorization", "Bearer t")
	h1.Set("X-Tenant", "acme")
	q1 := url.Values{}
	q1.Set("q", "llama")
	q1.Set("category", "text")

	h2 := http.Header{}
	h2.Set("X-Tenant", "acme")
	h2.Set("Authorization", "Bearer t")
	q2 := url.Values{}
	q2.Set("category", "text")
	q2.Set("q", "llama")

	base := "https://api.example.com/models"
	assert.Equal(t, Key(base, Options{Header: h1, Query: q1}), Key(base, Options{Header: h2, Query: q2}))
}

func TestKeyCanonicalizesHeaderNames(t *testing.T) {
	t.Parallel()

	a := Options{Header: http.Header{"x-tenant": {"acme"}}}
	b := Options{Header: http.Header{"X-Tenant": {"acme"}}}
	assert.Equal(t, Key("u", a), Key("u", b))
}

func TestKeyDoesNotExposeHeaderValues(t *testing.T) {
	t.Parallel()

	alice := Key("u", Options{Header: http.Header{"Authorization": {"Bearer alice-secret"}}})
	bob := Key("u", Options{Header: http.Header{"Authorization": {"Bearer bob-secret"}}})

	assert.NotContains(t, alice, "alice-secret")
	assert.NotContains(t, bob, "bob-secret")
	assert.Contains(t, alice, "Authorization")
	assert.NotEqual(t, alice, bob, "tokens still partition the cache")

	multi1 := Key("u", Options{Header: http.Header{"Accept": {"a", "b"}}})
	multi2 := Key("u", Options{Header: http.Header{"Accept": {"b", "a"}}})
	assert.Equal(t, multi1, multi2)
}

func TestKeyIgnoresForceRefresh(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Key("u", Options{}), Key("u", Options{ForceRefresh: true}))
}

func TestKeyDefaultsMethodToGet(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Key("u", Options{}), Key("u", Options{Method: "get"}))
	assert.NotEqual(t, Key("u", Options{}), Key("u", Options{Method: http.MethodPost}))
}

func TestKeyDistinguishesRequests(t *testing.T) {
	t.Parallel()

	plain := Key("https://api.example.com/models", Options{})
	withQuery := Key("https://api.example.com/models", Options{Query: url.Values{"id": {"1"}}})
	withHeader := Key("https://api.example.com/models", Options{Header: http.Header{"Accept-Language": {"de"}}})

	assert.NotEqual(t, plain, withQuery)
	assert.NotEqual(t, plain, withHeader)
	assert.Contains(t, withQuery, "https://api.example.com/models?id=1")
}

func TestRequestURLAppendsToExistingQuery(t *testing.T) {
	t.Parallel()

	got := requestURL("https://api.example.com/models?sort=new", url.Values{"page": {"2"}})
	assert.Equal(t, "https://api.example.com/models?sort=new&page=2", got)
	assert.Equal(t, "https://api.example.com/models", requestURL("https://api.example.com/models", nil))
}

func TestHTTPErrorStatusText(t *testing.T) {
	t.Parallel()

	e := &HTTPError{Method: "GET", URL: "u", StatusCode: 404, Status: "404 Not Found"}
	assert.Equal(t, "Not Found", e.StatusText())
	assert.Contains(t, e.Error(), "404 Not Found")

	bare := &HTTPError{StatusCode: 503}
	assert.Equal(t, "Service Unavailable", bare.StatusText())
	assert.True(t, IsHTTPStatus(e, 404))
	assert.False(t, IsHTTPStatus(e, 500))
}
