package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/service/chat"
)

// ChatService 聊天能力
type ChatService interface {
	Chat(ctx context.Context, subject string, req *chat.Request) (string, error)
	ListSessions(ctx context.Context, userID string) ([]model.SessionSummary, error)
	ResolveUserID(subject, requested string) string
}

// ChatHandler 聊天处理器
type ChatHandler struct {
	svc ChatService
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Message string `json:"message"`
}

// Chat 执行一轮对话
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chat.Request
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.svc.Chat(c.Request.Context(), subject(c), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, ChatResponse{Message: answer})
}

// ListSessions 列出会话
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID := h.svc.ResolveUserID(subject(c), c.Query("userId"))

	sessions, err := h.svc.ListSessions(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, sessions)
}
