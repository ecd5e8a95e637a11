package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/service/auth"
)

const userIDKey = "user_id"

// TokenVerifier Bearer 令牌校验
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAuth 要求有效认证的中间件
// 必须提供有效的 Bearer token，否则返回 401
func RequireAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		if !authenticate(c, v, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth 可选认证中间件
// 未携带 Authorization 头时匿名放行；携带时必须有效
func OptionalAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token, err := auth.BearerToken(header)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if !authenticate(c, v, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, v TokenVerifier, token string) bool {
	claims, err := v.Verify(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, err)
		return false
	}
	c.Set(userIDKey, claims.Subject)
	return true
}

// GetUserID 从上下文获取令牌主体
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apierr.StatusOf(err), apierr.ResponseOf(err, time.Now()))
}
