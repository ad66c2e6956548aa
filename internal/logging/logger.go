// file: internal/logging/logger.go
// version: 1.0.0
// guid: 3e7a9c41-58d2-4b6f-a0e3-9d1c2b7f4a85

package logging

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"
)

// Level represents the severity of a log message
type Level int32

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(InfoLevel))
}

// ParseLevel maps a config string to a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "info"
	}
}

// SetLevel sets the process-wide minimum level.
func SetLevel(l Level) {
	minLevel.Store(int32(l))
}

// CurrentLevel returns the process-wide minimum level.
func CurrentLevel() Level {
	return Level(minLevel.Load())
}

func enabled(l Level) bool {
	return l >= CurrentLevel()
}

func Debugf(format string, args ...any) {
	if enabled(DebugLevel) {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func Infof(format string, args ...any) {
	if enabled(InfoLevel) {
		log.Printf("[INFO] "+format, args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled(WarnLevel) {
		log.Printf("[WARN] "+format, args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled(ErrorLevel) {
		log.Printf("[ERROR] "+format, args...)
	}
}

// LogCacheHit logs a cache hit at debug level
func LogCacheHit(component string, key string) {
	if enabled(DebugLevel) {
		log.Printf("[CACHE-HIT] %s: %s", component, key)
	}
}

// LogCacheMiss logs a cache miss at debug level
func LogCacheMiss(component string, key string) {
	if enabled(DebugLevel) {
		log.Printf("[CACHE-MISS] %s: %s", component, key)
	}
}

// LogUpstream logs the outcome of an upstream request
func LogUpstream(method, url string, status int, duration time.Duration, err error) {
	if err != nil {
		if enabled(WarnLevel) {
			log.Printf("[UPSTREAM-ERROR] %s %s (%d) in %v: %v", method, url, status, duration, err)
		}
		return
	}
	if enabled(DebugLevel) {
		log.Printf("[UPSTREAM] %s %s -> %d in %v", method, url, status, duration)
	}
}

// RequestLogger provides request-level logging
type RequestLogger struct {
	requestID string
	clientIP  string
	userAgent string
	method    string
	path      string
	startTime time.Time
}

// NewRequestLogger creates a new request logger
func NewRequestLogger(requestID, clientIP, userAgent, method, path string) *RequestLogger {
	return &RequestLogger{
		requestID: requestID,
		clientIP:  clientIP,
		userAgent: userAgent,
		method:    method,
		path:      path,
		startTime: time.Now(),
	}
}

// LogRequest logs the received request
func (rl *RequestLogger) LogRequest() {
	if !enabled(DebugLevel) {
		return
	}
	log.Printf("[REQUEST] %s %s from %s [request-id: %s] [agent: %s]",
		rl.method, rl.path, rl.clientIP, rl.requestID, rl.userAgent)
}

// LogResponse logs the response sent
func (rl *RequestLogger) LogResponse(statusCode int, responseSize int) {
	if !enabled(InfoLevel) {
		return
	}
	duration := time.Since(rl.startTime)
	log.Printf("[RESPONSE] %s %s -> %d (%d bytes) in %v [request-id: %s]",
		rl.method, rl.path, statusCode, responseSize, duration, rl.requestID)
}

// OperationLogger tracks the lifecycle of a handler operation
type OperationLogger struct {
	handler   string
	method    string
	path      string
	startTime time.Time
	requestID string
}

// NewOperationLogger creates a new operation logger
func NewOperationLogger(handler, method, path, requestID string) *OperationLogger {
	return &OperationLogger{
		handler:   handler,
		method:    method,
		path:      path,
		startTime: time.Now(),
		requestID: requestID,
	}
}

// LogError logs an error that occurred during the operation
func (ol *OperationLogger) LogError(statusCode int, err error) {
	if !enabled(ErrorLevel) {
		return
	}
	msg := fmt.Sprintf("%s %s %s (%d) in %v: %v",
		ol.handler, ol.method, ol.path, statusCode, time.Since(ol.startTime), err)
	log.Printf("[ERROR] %s [request-id: %s]", msg, ol.requestID)
}

// LogDebug logs a debug message
func (ol *OperationLogger) LogDebug(message string) {
	if enabled(DebugLevel) {
		log.Printf("[DEBUG] %s: %s [request-id: %s]", ol.handler, message, ol.requestID)
	}
}
