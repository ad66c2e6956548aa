// file: internal/server/validators.go
// version: 2.0.0
// guid: 9b0c1d2e-3f4a-5b6c-7d8e-9f0a1b2c3d4e

package server

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxPatternLength = 512
	maxProxyTTL      = 24 * time.Hour
)

// ValidationError represents a validation error with code
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidatePattern checks an invalidation pattern. An empty pattern would
// match nothing, so it is rejected rather than silently ignored.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return ValidationError{
			Field:   "pattern",
			Message: "pattern is required",
			Code:    "PATTERN_REQUIRED",
		}
	}
	if len(pattern) > maxPatternLength {
		return ValidationError{
			Field:   "pattern",
			Message: fmt.Sprintf("pattern must not exceed %d characters", maxPatternLength),
			Code:    "PATTERN_TOO_LONG",
		}
	}
	return nil
}

// ValidateProxyPath rejects absolute URLs so the proxy only reaches the
// configured backend.
func ValidateProxyPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ValidationError{
			Field:   "path",
			Message: "path is required",
			Code:    "PATH_REQUIRED",
		}
	}
	if strings.Contains(path, "://") || strings.HasPrefix(path, "//") {
		return ValidationError{
			Field:   "path",
			Message: "absolute URLs are not proxied",
			Code:    "PATH_ABSOLUTE",
		}
	}
	return nil
}

// ValidateTTL bounds a caller-supplied freshness window.
func ValidateTTL(ttl time.Duration) error {
	if ttl < 0 {
		return ValidationError{
			Field:   "ttl",
			Message: "ttl must not be negative",
			Code:    "TTL_NEGATIVE",
		}
	}
	if ttl > maxProxyTTL {
		return ValidationError{
			Field:   "ttl",
			Message: fmt.Sprintf("ttl must not exceed %s", maxProxyTTL),
			Code:    "TTL_TOO_LONG",
		}
	}
	return nil
}
