package hotel

import (
	"context"
	"strings"
)

// ResolveHotelID 将酒店 ID 或名称解析为酒店 ID
// 不含空白的 ID 原样返回；否则按名称搜索，取第一个名称包含候选词（忽略大小写）的酒店
func (s *Service) ResolveHotelID(ctx context.Context, hotelID, hotelName string) (string, error) {
	id := strings.TrimSpace(hotelID)
	if id != "" && !strings.ContainsAny(id, " \t\n") {
		return id, nil
	}

	candidate := strings.TrimSpace(hotelName)
	if candidate == "" {
		candidate = id
	}
	if candidate == "" {
		return "", ErrUnresolved
	}

	s.log.Info("resolving hotel id from name", "name", candidate)
	result, err := s.Search(ctx, SearchParams{Destination: candidate, Page: 1, PageSize: 10})
	if err != nil {
		s.log.Warn("failed to resolve hotel id from name", "name", candidate, "error", err)
		return "", err
	}

	needle := strings.ToLower(candidate)
	for _, h := range result.Hotels {
		if strings.Contains(strings.ToLower(h.HotelName), needle) && h.HotelID != "" {
			return h.HotelID, nil
		}
	}
	return "", ErrUnresolved
}
