package model

import (
	"time"

	"github.com/lib/pq"
)

// UserActivity 用户个性化数据
type UserActivity struct {
	UserID    string         `gorm:"primaryKey;column:user_id;size:128" json:"userId"`
	Username  *string        `gorm:"column:username;size:255" json:"username"`
	Interests pq.StringArray `gorm:"column:interests;type:text[]" json:"interests"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
}

// TableName 指定表名
func (UserActivity) TableName() string {
	return "user_activities"
}

// UserProfile 对外返回的用户资料
type UserProfile struct {
	UserID    string   `json:"userId"`
	Username  *string  `json:"username"`
	Interests []string `json:"interests"`
}

// ToProfile 转换为用户资料，interests 为空时返回空数组
func (u *UserActivity) ToProfile() *UserProfile {
	interests := []string(u.Interests)
	if interests == nil {
		interests = []string{}
	}
	return &UserProfile{
		UserID:    u.UserID,
		Username:  u.Username,
		Interests: interests,
	}
}
