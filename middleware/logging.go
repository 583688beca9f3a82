package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sre-api/logger"
	"sre-api/metrics"
)

// LoggingMiddleware - HTTP 요청 로깅 및 메트릭 미들웨어
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// 요청 처리 후 로깅
		status := c.Writer.Status()
		logger.Logger.Info("HTTP 요청",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("duration", time.Since(start)),
		)

		metrics.RequestsTotal.WithLabelValues(
			c.FullPath(), c.Request.Method, strconv.Itoa(status),
		).Inc()
		metrics.RequestDuration.WithLabelValues(
			c.FullPath(), c.Request.Method,
		).Observe(time.Since(start).Seconds())
	}
}
