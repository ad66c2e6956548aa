// file: internal/server/middleware/requestid_test.go
// version: 1.0.0
// guid: 8f1e6b20-a3c9-4d57-9b04-e6d2c7a1f583

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/id", nil))
	generated := resp.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 26, "ULIDs are 26 characters")
	assert.Equal(t, generated, resp.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, "client-supplied", resp.Header().Get(RequestIDHeader))
	assert.Equal(t, "client-supplied", resp.Body.String())
}
