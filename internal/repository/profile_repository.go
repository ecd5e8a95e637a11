package repository

import (
	"context"
	"errors"

	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository 用户个性化数据访问（user_activities 表）
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建用户资料仓库
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get 获取用户资料
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*model.UserActivity, error) {
	var activity model.UserActivity
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// UpsertUsername 创建或更新用户名
// username 为 nil 时保留原值
func (r *ProfileRepository) UpsertUsername(ctx context.Context, userID string, username *string) (*model.UserActivity, error) {
	activity := &model.UserActivity{
		UserID:    userID,
		Username:  username,
		Interests: pq.StringArray{},
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"username":   gorm.Expr("COALESCE(EXCLUDED.username, user_activities.username)"),
			"updated_at": gorm.Expr("EXCLUDED.updated_at"),
		}),
	}).Create(activity).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

// ReplaceInterests 覆盖兴趣列表
func (r *ProfileRepository) ReplaceInterests(ctx context.Context, userID string, interests []string) (*model.UserActivity, error) {
	if interests == nil {
		interests = []string{}
	}
	activity := &model.UserActivity{
		UserID:    userID,
		Interests: pq.StringArray(interests),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"interests", "updated_at"}),
	}).Create(activity).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}
