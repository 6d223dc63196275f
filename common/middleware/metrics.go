package middleware

import (
	"context"
	"strconv"
	"time"

	awspkg "github.com/AdamWiercioch95/Boardgame-Shop/pkg/aws"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware creates a Gin middleware that tracks HTTP metrics.
// Routes are reported by their pattern (/orders/:id), not the raw path.
func MetricsMiddleware(metrics awspkg.MetricsRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil || !metrics.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		dimensions := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Path":    path,
			"Status":  statusCodeToRange(statusCode),
		}

		// Record asynchronously to keep CloudWatch latency off the request path.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = metrics.RecordCount(ctx, awspkg.MetricHTTPRequests, dimensions)
			_ = metrics.RecordLatency(ctx, awspkg.MetricHTTPLatency, duration, dimensions)

			switch {
			case statusCode >= 500:
				_ = metrics.RecordCount(ctx, awspkg.MetricHTTPErrors, dimensions)
				_ = metrics.RecordCount(ctx, awspkg.MetricHTTP5xx, dimensions)
			case statusCode >= 400:
				_ = metrics.RecordCount(ctx, awspkg.MetricHTTPErrors, dimensions)
				_ = metrics.RecordCount(ctx, awspkg.MetricHTTP4xx, dimensions)
			}
		}()
	}
}

// statusCodeToRange buckets a status code as "2xx".."5xx".
func statusCodeToRange(statusCode int) string {
	if statusCode < 200 || statusCode > 599 {
		return "unknown"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}
