// Package profile 用户个性化资料
package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/repository"
)

// ErrNotConfigured 未配置关系数据库
var ErrNotConfigured = apierr.NotConfigured("PROFILE_STORE_NOT_CONFIGURED", "Profile store is not configured.")

// Service 用户资料服务
type Service struct {
	repo repository.UserProfileRepository
}

// NewService 创建用户资料服务，repo 为 nil 表示未配置数据库
func NewService(repo repository.UserProfileRepository) *Service {
	return &Service{repo: repo}
}

// Get 获取用户资料，不存在时返回空资料
func (s *Service) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	activity, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.UserProfile{UserID: userID, Interests: []string{}}, nil
		}
		return nil, err
	}
	return activity.ToProfile(), nil
}

// Lookup 获取已存在的用户资料，不存在时返回 repository.ErrNotFound
func (s *Service) Lookup(ctx context.Context, userID string) (*model.UserProfile, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	activity, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return activity.ToProfile(), nil
}

// Upsert 创建或更新用户，username 为空时保留原用户名
func (s *Service) Upsert(ctx context.Context, userID string, username *string) (*model.UserProfile, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	if username != nil {
		trimmed := strings.TrimSpace(*username)
		if trimmed == "" {
			username = nil
		} else {
			username = &trimmed
		}
	}
	activity, err := s.repo.UpsertUsername(ctx, userID, username)
	if err != nil {
		return nil, err
	}
	return activity.ToProfile(), nil
}

// UpdateInterests 覆盖兴趣列表
func (s *Service) UpdateInterests(ctx context.Context, userID string, interests []string) (*model.UserProfile, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	activity, err := s.repo.ReplaceInterests(ctx, userID, NormalizeInterests(interests))
	if err != nil {
		return nil, err
	}
	return activity.ToProfile(), nil
}

// NormalizeInterests 去除空白并按大小写不敏感去重，保留首次出现的写法
func NormalizeInterests(interests []string) []string {
	out := make([]string, 0, len(interests))
	seen := make(map[string]struct{}, len(interests))
	for _, item := range interests {
		v := strings.TrimSpace(item)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
