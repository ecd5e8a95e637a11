package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemHandler 健康检查
type SystemHandler struct{}

// NewSystemHandler 创建健康检查处理器
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Health 返回 {"status":"ok"}
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Healthcheck 返回 true
func (h *SystemHandler) Healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, true)
}
