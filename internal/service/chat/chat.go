// Package chat 对话入口：会话持久化与推理循环的衔接
package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/repository"
	"github.com/ashwinyue/travel-planner/internal/service/agent"
	"github.com/ashwinyue/travel-planner/internal/service/tools"
)

// DefaultSessionID 未指定会话时使用
const DefaultSessionID = "default"

const titleMaxRunes = 20

var (
	ErrEmptyMessage  = apierr.BadRequest("INVALID_CHAT_REQUEST", errors.New("message is required"))
	ErrModel         = apierr.Upstream("LLM_ERROR", errors.New("The reasoning service failed to respond."))
	ErrMaxIterations = apierr.New(http.StatusInternalServerError, "AGENT_MAX_ITERATIONS",
		errors.New("The assistant could not finish this request. Please rephrase and try again."))
)

// Runner 推理循环
type Runner interface {
	Run(ctx context.Context, in agent.TurnInput) (*agent.TurnResult, error)
}

// BookingRecorder 从回复文本中补录预订
type BookingRecorder interface {
	RecordSummary(ctx context.Context, userID, text string) (*model.Booking, bool, error)
}

// Defaults 未识别用户时的默认身份
type Defaults struct {
	UserID   string
	UserName string
}

// Request 聊天请求
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

// Service 聊天服务
type Service struct {
	sessions repository.SessionRepository
	runner   Runner
	bookings BookingRecorder
	defaults Defaults
	log      *logger.Logger
	now      func() time.Time

	// 同一会话的多轮请求串行执行
	locks sync.Map
}

// NewService 创建聊天服务，bookings 可为 nil
func NewService(sessions repository.SessionRepository, runner Runner, bookings BookingRecorder, defaults Defaults, log *logger.Logger) *Service {
	return &Service{
		sessions: sessions,
		runner:   runner,
		bookings: bookings,
		defaults: defaults,
		log:      log,
		now:      time.Now,
	}
}

// ResolveUserID 令牌主体优先，其次请求体，最后默认用户
func (s *Service) ResolveUserID(subject, requested string) string {
	if v := strings.TrimSpace(subject); v != "" {
		return v
	}
	if v := strings.TrimSpace(requested); v != "" {
		return v
	}
	return s.defaults.UserID
}

// Chat 执行一轮对话并返回助手回复
func (s *Service) Chat(ctx context.Context, subject string, req *Request) (string, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}

	scope := tools.Scope{
		UserID:   s.ResolveUserID(subject, req.UserID),
		UserName: strings.TrimSpace(req.UserName),
	}
	if scope.UserName == "" {
		scope.UserName = s.defaults.UserName
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	unlock := s.lock(scope.UserID, sessionID)
	defer unlock()

	session, err := s.loadSession(ctx, scope.UserID, sessionID)
	if err != nil {
		return "", err
	}

	log := s.log.With("user_id", scope.UserID, "session_id", sessionID)
	result, err := s.runner.Run(ctx, agent.TurnInput{
		Scope:   scope,
		History: session.Messages,
		Message: req.Message,
	})
	if err != nil {
		log.Error("chat turn failed", "error", err)
		switch {
		case errors.Is(err, agent.ErrMaxIterations):
			return "", ErrMaxIterations
		case errors.Is(err, agent.ErrModelFailure):
			return "", ErrModel
		}
		return "", err
	}

	now := s.now().UTC()
	session.Messages = append(session.Messages, result.Messages...)
	session.UIMessages = append(session.UIMessages,
		model.UIMessage{ID: newMessageID(), Role: "user", Content: req.Message, CreatedAt: now},
		model.UIMessage{ID: newMessageID(), Role: "assistant", Content: result.Answer, CreatedAt: now},
	)
	if session.Title == "" || session.Title == model.DefaultSessionTitle {
		if title := SessionTitle(req.Message); title != "" {
			session.Title = title
		}
	}
	session.UpdatedAt = now

	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error("failed to save chat session", "error", err)
		return "", err
	}

	s.recordBooking(ctx, log, scope.UserID, result)

	log.Info("chat turn completed",
		"iterations", result.Iterations, "tool_calls", len(result.Executions))
	return result.Answer, nil
}

// ListSessions 列出用户会话摘要
func (s *Service) ListSessions(ctx context.Context, userID string) ([]model.SessionSummary, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		title := sess.Title
		if title == "" {
			title = model.DefaultSessionTitle
		}
		msgs := sess.UIMessages
		if msgs == nil {
			msgs = []model.UIMessage{}
		}
		out = append(out, model.SessionSummary{
			ID:        sess.SessionID,
			SessionID: sess.SessionID,
			Title:     title,
			Messages:  msgs,
		})
	}
	return out, nil
}

func (s *Service) loadSession(ctx context.Context, userID, sessionID string) (*model.ChatSession, error) {
	session, err := s.sessions.Get(ctx, userID, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	now := s.now().UTC()
	return &model.ChatSession{
		SessionID:  sessionID,
		UserID:     userID,
		Title:      model.DefaultSessionTitle,
		UIMessages: []model.UIMessage{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// recordBooking 本轮没有成功调用预订工具时，从回复中补录预订摘要
func (s *Service) recordBooking(ctx context.Context, log *logger.Logger, userID string, result *agent.TurnResult) {
	if s.bookings == nil {
		return
	}
	for _, exec := range result.Executions {
		if exec.Name == tools.NameCreateBooking && !exec.Failed {
			return
		}
	}
	b, inserted, err := s.bookings.RecordSummary(ctx, userID, result.Answer)
	if err != nil {
		log.Warn("failed to record booking summary", "error", err)
		return
	}
	if inserted {
		log.Info("booking recorded from assistant summary", "booking_id", b.BookingID)
	}
}

func (s *Service) lock(userID, sessionID string) func() {
	v, _ := s.locks.LoadOrStore(userID+":"+sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// SessionTitle 由首个问题生成会话标题
func SessionTitle(query string) string {
	cleaned := strings.TrimSpace(query)
	runes := []rune(cleaned)
	if len(runes) <= titleMaxRunes {
		return cleaned
	}
	return strings.TrimRightFunc(string(runes[:titleMaxRunes]), unicode.IsSpace) + "..."
}

func newMessageID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
