package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/metalstreets/contact-backend/services/common/logger"
)

// RequestLogger writes one "http_request" line per request, tagged with its
// RequestKind. Intake failures are answered with 200 and a status:error body,
// so a request that carried a gin error logs at warn whatever its status.
// Liveness polls and health checks log at debug.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		kind := RequestKind(c.Request)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("kind", kind),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if origin := c.GetHeader("Origin"); origin != "" {
			fields = append(fields, zap.String("origin", origin))
		}
		if rid := c.GetString(logger.RequestIDKey); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("http_request", fields...)
		case status >= 400 || len(c.Errors) > 0:
			log.Warn("http_request", fields...)
		case kind == KindLiveness || kind == KindHealth:
			log.Debug("http_request", fields...)
		default:
			log.Info("http_request", fields...)
		}
	}
}
