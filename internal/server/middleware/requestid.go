// file: internal/server/middleware/requestid.go
// version: 1.0.0
// guid: 0d7c3a95-e4f2-4b18-a6d9-5c8e1f2b7a60

package middleware

import (
	"github.com/gin-gonic/gin"
	ulid "github.com/oklog/ulid/v2"

	"github.com/jdfalk/apicache/internal/logging"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader     = "X-Request-ID"
	contextRequestIDKey = "request_id"
)

// RequestID assigns each request an id (reusing a client-supplied one) and
// logs the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = ulid.Make().String()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(RequestIDHeader, id)

		rl := logging.NewRequestLogger(id, c.ClientIP(), c.Request.UserAgent(), c.Request.Method, c.Request.URL.Path)
		rl.LogRequest()
		c.Next()
		rl.LogResponse(c.Writer.Status(), c.Writer.Size())
	}
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextRequestIDKey)
}
