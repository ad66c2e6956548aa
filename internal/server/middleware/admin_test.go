// file: internal/server/middleware/admin_test.go
// version: 1.0.0
// guid: 6e2b9f41-d8a3-4c07-b5e6-2f1a7c9d0e38

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", BearerToken(req))

	req.Header.Set("Authorization", "Bearer  secret ")
	assert.Equal(t, "secret", BearerToken(req))

	req.Header.Set("Authorization", "bearer secret")
	assert.Equal(t, "secret", BearerToken(req))

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Equal(t, "", BearerToken(req))

	assert.Equal(t, "", BearerToken(nil))
}

func TestRequireAdminToken(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	token := "s3cret"
	router := gin.New()
	router.DELETE("/cache", RequireAdminToken(func() AdminCredentials { return AdminCredentials{Token: token} }), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer s3cret", http.StatusNoContent},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodDelete, "/cache", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		assert.Equal(t, tt.want, resp.Code, tt.name)
	}
}

func TestRequireAdminTokenDisabled(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/cache", RequireAdminToken(func() AdminCredentials { return AdminCredentials{} }), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cache", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestAdminCredentialsWithHash(t *testing.T) {
	t.Parallel()

	hash, err := HashToken("rotate-me")
	require.NoError(t, err)
	assert.NotContains(t, hash, "rotate-me")

	creds := AdminCredentials{Token: "ignored-when-hashed", TokenHash: hash}
	assert.True(t, creds.Enabled())
	assert.True(t, creds.Verify("rotate-me"))
	assert.False(t, creds.Verify("ignored-when-hashed"))
	assert.False(t, creds.Verify(""))
}

func TestAdminCredentialsPlain(t *testing.T) {
	t.Parallel()

	assert.False(t, AdminCredentials{}.Enabled())
	creds := AdminCredentials{Token: "abc"}
	assert.True(t, creds.Verify("abc"))
	assert.False(t, creds.Verify("abd"))
	assert.False(t, creds.Verify(""))
}
