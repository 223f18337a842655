package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	awspkg "github.com/metalstreets/contact-backend/pkg/aws"
)

// MetricsMiddleware records request count and latency per RequestKind, and
// counts error payloads (gin errors on a 200) next to 4xx and 5xx responses.
// Orchestrator health checks are not recorded. Metrics are pushed from a goroutine
// so CloudWatch latency never reaches the client.
func MetricsMiddleware(metrics awspkg.MetricsRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := RequestKind(c.Request)
		if metrics == nil || !metrics.IsEnabled() || kind == KindHealth {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		failedPayload := status < 400 && len(c.Errors) > 0
		dimensions := map[string]string{
			"Service": serviceName,
			"Kind":    kind,
			"Status":  statusClass(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = metrics.RecordCount(ctx, awspkg.MetricHTTPRequests, dimensions)
			switch {
			case status >= 500:
				_ = metrics.RecordCount(ctx, awspkg.MetricHTTP5xx, dimensions)
			case status >= 400:
				_ = metrics.RecordCount(ctx, awspkg.MetricHTTP4xx, dimensions)
			case failedPayload:
				_ = metrics.RecordCount(ctx, awspkg.MetricErrorPayloads, dimensions)
			}
			if status >= 400 || failedPayload {
				_ = metrics.RecordCount(ctx, awspkg.MetricHTTPErrors, dimensions)
			}
			_ = metrics.RecordLatency(ctx, awspkg.MetricHTTPLatency, duration, dimensions)
		}()
	}
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return string(rune('0'+status/100)) + "xx"
}
