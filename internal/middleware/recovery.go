package middleware

import (
	"errors"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/travel-planner/internal/logger"
)

// RecoveryMiddleware 恢复中间件
func RecoveryMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered", "panic", err, "path", c.Request.URL.Path, "stack", string(debug.Stack()))
				abortWithError(c, errors.New("panic"))
			}
		}()
		c.Next()
	}
}
