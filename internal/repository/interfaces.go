// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import (
	"context"
	"time"

	"github.com/ashwinyue/travel-planner/internal/model"
)

// SessionRepository 会话数据访问接口
type SessionRepository interface {
	Get(ctx context.Context, userID, sessionID string) (*model.ChatSession, error)
	Save(ctx context.Context, session *model.ChatSession) error
	ListByUser(ctx context.Context, userID string) ([]*model.ChatSession, error)
}

// BookingRepository 预订数据访问接口
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	Get(ctx context.Context, userID, bookingID string) (*model.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string, at time.Time) (*model.Booking, error)
	// InsertIfAbsent 按 bookingId 去重插入，已存在时返回已有记录和 false
	InsertIfAbsent(ctx context.Context, booking *model.Booking) (*model.Booking, bool, error)
}

// UserProfileRepository 用户个性化数据访问接口
type UserProfileRepository interface {
	Get(ctx context.Context, userID string) (*model.UserActivity, error)
	UpsertUsername(ctx context.Context, userID string, username *string) (*model.UserActivity, error)
	ReplaceInterests(ctx context.Context, userID string, interests []string) (*model.UserActivity, error)
}

var (
	_ SessionRepository     = (*SessionStore)(nil)
	_ BookingRepository     = (*BookingStore)(nil)
	_ UserProfileRepository = (*ProfileRepository)(nil)
)
