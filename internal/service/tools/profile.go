package tools

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/tool"

	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/repository"
)

type userProfileInput struct {
	UserID          string `json:"user_id,omitempty" jsonschema_description:"User ID. Defaults to the current user."`
	IncludeBookings *bool  `json:"include_bookings,omitempty" jsonschema_description:"Whether to include the user's bookings. Defaults to true."`
}

func (c *Catalog) userProfileTool(scope Scope) (tool.InvokableTool, error) {
	return newTool(c, NameUserProfile,
		"Fetch the user's personalization profile (username, interests) and optionally their bookings.",
		func(ctx context.Context, in *userProfileInput) (any, error) {
			userID := scope.UserID
			if userID == "" {
				userID = in.UserID
			}
			includeBookings := in.IncludeBookings == nil || *in.IncludeBookings
			return c.personalization(ctx, userID, includeBookings)
		})
}

// personalization 资料读取失败时不中断对话
func (c *Catalog) personalization(ctx context.Context, userID string, includeBookings bool) (any, error) {
	var bookings []*model.Booking
	if includeBookings {
		list, err := c.deps.Bookings.List(ctx, userID)
		if err != nil {
			c.log.Warn("failed to load bookings for profile", "user_id", userID, "error", err)
		}
		bookings = list
		if bookings == nil {
			bookings = []*model.Booking{}
		}
	}

	var (
		profile *model.UserProfile
		err     error
	)
	if c.deps.Profiles == nil {
		err = errors.New("profile store not configured")
	} else {
		profile, err = c.deps.Profiles.Lookup(ctx, userID)
	}

	switch {
	case err == nil:
		c.log.Info("personalization data found", "user_id", userID)
		out := map[string]any{"username": profile.Username, "interests": profile.Interests}
		if includeBookings {
			out["bookings"] = bookings
		}
		return out, nil
	case errors.Is(err, repository.ErrNotFound):
		if includeBookings {
			return map[string]any{"username": nil, "interests": []string{}, "bookings": bookings}, nil
		}
		return "No personalization found for this user.", nil
	default:
		c.log.Warn("personalization unavailable, continuing without it", "user_id", userID, "error", err)
		if includeBookings {
			return map[string]any{"username": nil, "interests": []string{}, "bookings": bookings}, nil
		}
		return "Personalization unavailable; continue without it.", nil
	}
}
