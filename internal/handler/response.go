package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/middleware"
)

// ErrInvalidRequest 请求体或查询参数无法解析
func ErrInvalidRequest(err error) error {
	return apierr.BadRequest("INVALID_REQUEST", err)
}

var errUnauthenticated = apierr.Unauthorized("MISSING_TOKEN", "Missing bearer token.")

// Success 200 响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error 根据错误类型返回 {message, errorCode, timestamp}
func Error(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(apierr.StatusOf(err), apierr.ResponseOf(err, time.Now()))
}

// subject 获取令牌主体，路由未经认证时返回空
func subject(c *gin.Context) string {
	id, _ := middleware.GetUserID(c)
	return id
}

// requireSubject 获取必需的令牌主体
func requireSubject(c *gin.Context) (string, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		Error(c, errUnauthenticated)
		return "", false
	}
	return id, true
}

// bindJSON 解析请求体
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		Error(c, ErrInvalidRequest(errors.New("invalid request body: "+err.Error())))
		return false
	}
	return true
}
