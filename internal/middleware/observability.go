package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ridehail/internal/observability"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID propagates X-Request-ID, generating one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Observability records request metrics and writes one log line per request.
func Observability(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		statusLabel := strconv.Itoa(status)
		elapsed := time.Since(start)

		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, statusLabel).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, statusLabel).Observe(elapsed.Seconds())

		args := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"remote_addr", c.ClientIP(),
		}
		if rid := c.GetString(requestIDKey); rid != "" {
			args = append(args, "request_id", rid)
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.Last().Error())
		}

		if status >= 500 {
			logger.ErrorContext(c.Request.Context(), "http_request", args...)
			return
		}
		logger.InfoContext(c.Request.Context(), "http_request", args...)
	}
}
