package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
)

// MetricsMiddleware creates middleware that records HTTP metrics
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid recursion
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath() // Use route pattern, not actual path

		if path == "" {
			path = c.Request.URL.Path
		}

		m.RecordHTTPRequest(method, path, status, duration)
	}
}

// MetricsEndpoint returns a handler for the /metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
