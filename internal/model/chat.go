package model

import (
	"time"

	"github.com/cloudwego/eino/schema"
)

// DefaultSessionTitle 新会话的默认标题
const DefaultSessionTitle = "Current Session"

// UIMessage 前端展示用消息
type UIMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatSession 聊天会话
// Messages 为模型上下文（含工具调用），UIMessages 仅用于展示
type ChatSession struct {
	SessionID  string            `json:"sessionId"`
	UserID     string            `json:"userId"`
	Title      string            `json:"title"`
	UIMessages []UIMessage       `json:"uiMessages"`
	Messages   []*schema.Message `json:"lcMessages"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// SessionSummary 会话列表项
type SessionSummary struct {
	ID        string      `json:"id"`
	SessionID string      `json:"sessionId"`
	Title     string      `json:"title"`
	Messages  []UIMessage `json:"messages"`
}

// Clone 拷贝会话，消息切片独立
func (s *ChatSession) Clone() *ChatSession {
	if s == nil {
		return nil
	}
	c := *s
	c.UIMessages = append([]UIMessage(nil), s.UIMessages...)
	c.Messages = append([]*schema.Message(nil), s.Messages...)
	return &c
}
