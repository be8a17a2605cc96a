package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs incoming requests and their responses. Successful
// session polls and health checks log at debug: the browser polls a loading
// session several times a second, and at info level those lines would drown
// out everything else.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Calculate latency
		latency := time.Since(start)

		// Get status code
		status := c.Writer.Status()

		// Build log attributes
		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", GetRequestID(c),
		}

		if query != "" {
			attrs = append(attrs, "query", query)
		}

		// Log with appropriate level based on status code
		switch {
		case status >= 500:
			slog.Error("request completed", attrs...)
		case status >= 400:
			slog.Warn("request completed", attrs...)
		case isPollRequest(c.Request.Method, path):
			slog.Debug("request completed", attrs...)
		default:
			slog.Info("request completed", attrs...)
		}
	}
}

// isPollRequest matches the endpoints the browser hits repeatedly while
// waiting: session observation and the health check.
func isPollRequest(method, path string) bool {
	if method != "GET" {
		return false
	}
	if path == "/health" {
		return true
	}
	return strings.HasPrefix(path, "/api/sessions/") && !strings.Contains(strings.TrimPrefix(path, "/api/sessions/"), "/")
}
