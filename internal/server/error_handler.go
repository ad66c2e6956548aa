// file: internal/server/error_handler.go
// version: 2.0.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f0a

package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/apicache/internal/fetch"
	"github.com/jdfalk/apicache/internal/logging"
	"github.com/jdfalk/apicache/internal/marketplace"
	"github.com/jdfalk/apicache/internal/server/middleware"
)

// ErrorResponse provides a consistent error response format
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Status   int    `json:"status"`
	Upstream string `json:"upstream,omitempty"`
}

// RespondWithError sends a standardized error response and logs the error
func RespondWithError(c *gin.Context, statusCode int, message string, code string) {
	logErrorWithContext(c, statusCode, message)

	c.JSON(statusCode, ErrorResponse{
		Error:  message,
		Code:   code,
		Status: statusCode,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error response
func RespondWithBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, message, "BAD_REQUEST")
}

// RespondWithValidationError sends a 400 error for validation failures
func RespondWithValidationError(c *gin.Context, err error) {
	code := "VALIDATION_ERROR"
	var ve ValidationError
	if errors.As(err, &ve) && ve.Code != "" {
		code = ve.Code
	}
	RespondWithError(c, http.StatusBadRequest, err.Error(), code)
}

// RespondWithInternalError sends a 500 Internal Server Error response
func RespondWithInternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// RespondWithNoContent sends a 204 No Content response
func RespondWithNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondWithUpstreamError maps a fetch or marketplace error onto a response.
// Upstream HTTP failures keep their status; transport and decode failures
// become 502.
func RespondWithUpstreamError(c *gin.Context, err error) {
	var he *fetch.HTTPError
	switch {
	case errors.As(err, &he):
		logErrorWithContext(c, he.StatusCode, err.Error())
		c.JSON(he.StatusCode, ErrorResponse{
			Error:    "upstream " + he.StatusText(),
			Code:     "UPSTREAM_HTTP_ERROR",
			Status:   he.StatusCode,
			Upstream: he.Body,
		})
	case errors.Is(err, fetch.ErrNetwork):
		RespondWithError(c, http.StatusBadGateway, err.Error(), "UPSTREAM_UNREACHABLE")
	case errors.Is(err, fetch.ErrDecode), errors.Is(err, marketplace.ErrUnexpectedReply):
		RespondWithError(c, http.StatusBadGateway, err.Error(), "UPSTREAM_BAD_RESPONSE")
	case errors.Is(err, marketplace.ErrMissingID), errors.Is(err, marketplace.ErrInvalidForm):
		RespondWithError(c, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	default:
		RespondWithInternalError(c, err.Error())
	}
}

// logErrorWithContext logs an error with request context for debugging
func logErrorWithContext(c *gin.Context, statusCode int, message string) {
	method := c.Request.Method
	path := c.Request.URL.Path
	clientIP := c.ClientIP()
	ol := logging.NewOperationLogger("server", method, path, middleware.GetRequestID(c))

	if statusCode >= 500 {
		ol.LogError(statusCode, errors.New(message))
		return
	}
	logging.Warnf("%s %s %d - %s (from %s)", method, path, statusCode, message, clientIP)
}

// HandleBindError handles JSON binding errors with a consistent response
func HandleBindError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	RespondWithBadRequest(c, "invalid request: "+err.Error())
	return true
}

// ParseQueryInt parses an integer query parameter with a default value
func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.DefaultQuery(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParseQueryBool parses a boolean query parameter with a default value
func ParseQueryBool(c *gin.Context, key string, defaultValue bool) bool {
	valueStr := c.DefaultQuery(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.ToLower(valueStr) == "true" || valueStr == "1"
}

// ParseQueryDuration parses a duration query parameter. Missing yields zero;
// a bare integer is read as seconds.
func ParseQueryDuration(c *gin.Context, key string) (time.Duration, error) {
	valueStr := strings.TrimSpace(c.Query(key))
	if valueStr == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(valueStr)
}
