package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/errors"
)

// Context keys
const (
	ContextKeyRequestID     = "requestId"
	ContextKeyCorrelationID = "correlationId"
)

// HTTP header names
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// RequestID middleware generates or propagates request IDs
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}

// CorrelationID middleware propagates correlation IDs across service hops
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(HeaderCorrelationID)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Set(ContextKeyCorrelationID, correlationID)
		c.Header(HeaderCorrelationID, correlationID)

		c.Next()
	}
}

// LoggerConfig holds logger middleware configuration
type LoggerConfig struct {
	Logger       *slog.Logger
	ExcludePaths []string // Paths to exclude from logging (e.g., /health, /ready, /metrics)
}

// DefaultLoggerConfig returns default logger configuration with common health/metrics paths excluded
func DefaultLoggerConfig(logger *slog.Logger) *LoggerConfig {
	return &LoggerConfig{
		Logger:       logger,
		ExcludePaths: []string{"/health", "/ready", "/metrics"},
	}
}

// Logger middleware adds structured request logging with correlation context
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return LoggerWithConfig(DefaultLoggerConfig(logger))
}

// LoggerWithConfig middleware adds structured logging with path exclusion
func LoggerWithConfig(config *LoggerConfig) gin.HandlerFunc {
	skipMap := make(map[string]bool)
	for _, path := range config.ExcludePaths {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if skipMap[path] {
			c.Next()
			return
		}

		start := time.Now()
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		requestID, _ := c.Get(ContextKeyRequestID)
		correlationID, _ := c.Get(ContextKeyCorrelationID)

		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency", latency.String(),
			"latencyMs", latency.Milliseconds(),
			"clientIP", c.ClientIP(),
			"userAgent", c.Request.UserAgent(),
		}

		if requestID != nil {
			attrs = append(attrs, "requestId", requestID)
		}
		if correlationID != nil {
			attrs = append(attrs, "correlationId", correlationID)
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}

		switch {
		case status >= 500:
			config.Logger.Error("HTTP request", attrs...)
		case status >= 400:
			config.Logger.Warn("HTTP request", attrs...)
		default:
			config.Logger.Info("HTTP request", attrs...)
		}
	}
}

// Recovery middleware handles panics and logs them properly
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID, _ := c.Get(ContextKeyRequestID)
				correlationID, _ := c.Get(ContextKeyCorrelationID)

				logger.Error("Panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"requestId", requestID,
					"correlationId", correlationID,
				)

				AbortWithAppError(c, &errors.AppError{
					Code:       errors.CodeInternalError,
					Message:    "An unexpected error occurred",
					HTTPStatus: 500,
				})
			}
		}()
		c.Next()
	}
}

// GetRequestID extracts request ID from context
func GetRequestID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyRequestID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// GetCorrelationID extracts correlation ID from context
func GetCorrelationID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyCorrelationID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// PropagationHeaders returns headers that should be forwarded to downstream services
func PropagationHeaders(c *gin.Context) map[string]string {
	headers := make(map[string]string)

	if id := GetRequestID(c); id != "" {
		headers[HeaderRequestID] = id
	}
	if id := GetCorrelationID(c); id != "" {
		headers[HeaderCorrelationID] = id
	}

	return headers
}
