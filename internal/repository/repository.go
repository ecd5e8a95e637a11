package repository

import (
	"errors"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// Repositories 仓库集合，用于统一管理所有仓库
type Repositories struct {
	DB       *gorm.DB // 直接访问数据库，未配置时为 nil
	Profile  *ProfileRepository
	Sessions *SessionStore
	Bookings *BookingStore
}

// NewRepositories 创建所有仓库
// JSON 文件存储在构造时载入内存
func NewRepositories(db *gorm.DB, cfg *config.Config, log *logger.Logger) *Repositories {
	repos := &Repositories{
		DB:       db,
		Sessions: NewSessionStore(cfg.Store.ChatPath, log),
		Bookings: NewBookingStore(cfg.Store.BookingPath, log),
	}
	if db != nil {
		repos.Profile = NewProfileRepository(db)
	}
	return repos
}
