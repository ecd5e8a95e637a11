package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/travel-planner/internal/logger"
)

// LoggingMiddleware 日志中间件
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		kvs := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kvs = append(kvs, "errors", c.Errors.String())
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("http request", kvs...)
		case status >= 400:
			log.Warn("http request", kvs...)
		default:
			log.Info("http request", kvs...)
		}
	}
}
