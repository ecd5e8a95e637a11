package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/service/auth"
)

// ProfileService 用户资料能力
type ProfileService interface {
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
	Upsert(ctx context.Context, userID string, username *string) (*model.UserProfile, error)
	UpdateInterests(ctx context.Context, userID string, interests []string) (*model.UserProfile, error)
}

// ProfileHandler 用户资料处理器
type ProfileHandler struct {
	svc ProfileService
}

// NewProfileHandler 创建用户资料处理器
func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// UpsertUserRequest 创建或更新用户请求
type UpsertUserRequest struct {
	UserID   string  `json:"userId"`
	Username *string `json:"username"`
}

// UpdateInterestsRequest 更新兴趣请求
type UpdateInterestsRequest struct {
	Interests []string `json:"interests"`
}

// Upsert 创建或更新用户，未提供 username 时保留原值
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req UpsertUserRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		Error(c, ErrInvalidRequest(errors.New("userId is required")))
		return
	}
	if !h.authorize(c, req.UserID) {
		return
	}

	profile, err := h.svc.Upsert(c.Request.Context(), req.UserID, req.Username)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, profile)
}

// Get 获取用户资料，不存在时返回空资料
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := c.Param("id")
	if !h.authorize(c, userID) {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, profile)
}

// UpdateInterests 替换用户兴趣
func (h *ProfileHandler) UpdateInterests(c *gin.Context) {
	userID := c.Param("id")
	if !h.authorize(c, userID) {
		return
	}
	var req UpdateInterestsRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.svc.UpdateInterests(c.Request.Context(), userID, req.Interests)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, profile)
}

func (h *ProfileHandler) authorize(c *gin.Context, userID string) bool {
	sub, ok := requireSubject(c)
	if !ok {
		return false
	}
	if err := auth.RequireSubject(sub, userID); err != nil {
		Error(c, err)
		return false
	}
	return true
}
