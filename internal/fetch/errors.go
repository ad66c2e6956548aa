// file: internal/fetch/errors.go
// version: 1.0.0
// guid: 6c0f2d8e-94b1-4a37-b5e2-1f8d7a3c9e40

package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNetwork marks failures where no HTTP response was received.
	ErrNetwork = errors.New("fetch: network failure")

	// ErrDecode marks responses whose body is not valid JSON.
	ErrDecode = errors.New("fetch: invalid JSON response")
)

// HTTPError is returned when the upstream answers with a non-2xx status.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string // as sent by the server, e.g. "404 Not Found"
	Body       string // truncated
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch: %s %s returned %s", e.Method, e.URL, e.Status)
}

// StatusText returns the reason phrase without the numeric code.
func (e *HTTPError) StatusText() string {
	if text, ok := strings.CutPrefix(e.Status, fmt.Sprintf("%d ", e.StatusCode)); ok {
		return text
	}
	if e.Status != "" {
		return e.Status
	}
	return http.StatusText(e.StatusCode)
}

// IsHTTPStatus reports whether err is an HTTPError with the given status code.
func IsHTTPStatus(err error, code int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == code
}
