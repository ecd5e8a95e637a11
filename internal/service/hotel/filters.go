package hotel

import (
	"sort"
	"strings"
)

// 排序方式
const (
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortRating    = "rating"
)

// applyFilters 过滤并排序
// 价格或评分为 0 的酒店视为未知，不会被过滤掉
func applyFilters(items []Hotel, p SearchParams) []Hotel {
	filtered := make([]Hotel, 0, len(items))

	tokens := destinationTokens(p.Destination)
	for _, h := range items {
		if len(tokens) > 0 && !matchesAnyToken(h, tokens) {
			continue
		}
		if (p.MinPrice != nil || p.MaxPrice != nil) && h.LowestPrice != 0 {
			if p.MinPrice != nil && h.LowestPrice < *p.MinPrice {
				continue
			}
			if p.MaxPrice != nil && h.LowestPrice > *p.MaxPrice {
				continue
			}
		}
		if p.MinRating != nil && h.Rating != 0 && h.Rating < *p.MinRating {
			continue
		}
		if len(p.Amenities) > 0 && !hasAllAmenities(h, p.Amenities) {
			continue
		}
		filtered = append(filtered, h)
	}

	switch p.SortBy {
	case SortPriceLow:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].LowestPrice < filtered[j].LowestPrice })
	case SortPriceHigh:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].LowestPrice > filtered[j].LowestPrice })
	case SortRating:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Rating > filtered[j].Rating })
	}
	return filtered
}

func destinationTokens(destination string) []string {
	var tokens []string
	for _, t := range strings.Split(destination, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func matchesAnyToken(h Hotel, tokens []string) bool {
	parts := make([]string, 0, 5)
	for _, v := range []string{h.City, h.Country, h.HotelName, h.PlaceName, h.ShortPlaceName} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	text := strings.ToLower(strings.Join(parts, " "))
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func hasAllAmenities(h Hotel, wanted []string) bool {
	for _, a := range wanted {
		needle := strings.ToLower(a)
		found := false
		for _, ha := range h.Amenities {
			if strings.Contains(strings.ToLower(ha), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// paginate 页码从 1 开始，越界返回空
func paginate(items []Hotel, page, pageSize int) []Hotel {
	if page < 1 || pageSize < 1 || page-1 > len(items)/pageSize {
		return []Hotel{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []Hotel{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// buildRooms 由报价生成房间列表
func buildRooms(hotelID string, rates []Rate, guests int) []Room {
	rooms := make([]Room, 0, len(rates))
	for _, r := range rates {
		code := r.Code
		if code == "" {
			code = "OTA"
		}
		name := r.Name
		if name == "" {
			name = "OTA"
		}
		rooms = append(rooms, Room{
			RoomID:         hotelID + "_" + code,
			HotelID:        hotelID,
			RoomType:       "Standard Room",
			RoomName:       "Room via " + name,
			Description:    "Book through " + name,
			MaxOccupancy:   guests,
			PricePerNight:  r.Rate,
			Images:         []string{},
			Amenities:      []string{},
			AvailableCount: 1,
			Provider:       name,
		})
	}
	return rooms
}
