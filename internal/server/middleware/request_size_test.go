// file: internal/server/middleware/request_size_test.go
// version: 2.0.0
// guid: 4a8d5e2f-6b1c-47a9-9e30-c8f7d2b6a514

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newSizeRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MaxRequestBodySize(limit))
	handler := func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
	router.POST("/echo", handler)
	router.GET("/echo", handler)
	return router
}

func TestMaxRequestBodySize_RejectsLargeContentLength(t *testing.T) {
	t.Parallel()

	router := newSizeRouter(8)
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("0123456789"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Contains(t, resp.Body.String(), "request body too large")
}

func TestMaxRequestBodySize_AllowsSmallBody(t *testing.T) {
	t.Parallel()

	router := newSizeRouter(8)
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("0123"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestMaxRequestBodySize_IgnoresGet(t *testing.T) {
	t.Parallel()

	router := newSizeRouter(1)
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestMaxRequestBodySize_DefaultLimit(t *testing.T) {
	t.Parallel()

	router := newSizeRouter(0)
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 1024)))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
}
