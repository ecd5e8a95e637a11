// Package hotel 酒店搜索、详情与可用性
package hotel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/service/websearch"
)

// Service 酒店服务
type Service struct {
	upstream Upstream
	cache    *Cache
	search   websearch.Searcher
	cfg      config.HotelConfig
	log      *logger.Logger
}

// NewService 创建酒店服务，search 为 nil 时不补充预订链接
func NewService(upstream Upstream, cache *Cache, search websearch.Searcher, cfg config.HotelConfig, log *logger.Logger) *Service {
	return &Service{
		upstream: upstream,
		cache:    cache,
		search:   search,
		cfg:      cfg,
		log:      log,
	}
}

// 搜索结果的分页上限与最少保留数量
const (
	maxPageSize   = 50
	minSearchKeep = 30
)

// Search 搜索酒店
func (s *Service) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	meta := SearchMetadata{Page: p.Page, PageSize: p.PageSize, DataSource: "xotelo"}

	if strings.TrimSpace(p.Destination) == "" {
		return &SearchResult{Hotels: []Hotel{}, Metadata: meta}, nil
	}

	hotels, err := s.upstream.Search(ctx, p.Destination)
	if err != nil {
		return nil, err
	}
	// 页码超出上游结果时不截断，避免 Page*PageSize 溢出
	limit := len(hotels)
	if p.Page <= len(hotels)/p.PageSize+1 {
		limit = max(p.Page*p.PageSize, minSearchKeep)
	}
	if len(hotels) > limit {
		hotels = hotels[:limit]
	}
	s.cache.Put(ctx, hotels)

	filtered := applyFilters(hotels, p)
	meta.TotalResults = len(filtered)
	return &SearchResult{
		Hotels:   paginate(filtered, p.Page, p.PageSize),
		Metadata: meta,
	}, nil
}

// Details 酒店详情
// 提供入住日期时附带报价房间，否则只返回缓存的酒店信息
func (s *Service) Details(ctx context.Context, p DetailsParams) (*Details, error) {
	cached, ok := s.cache.Get(ctx, p.HotelID)

	if p.CheckInDate != "" && p.CheckOutDate != "" {
		guests := p.Guests
		if guests <= 0 {
			guests = 2
		}
		rates, err := s.upstream.Rates(ctx, RatesQuery{
			HotelID:      p.HotelID,
			CheckInDate:  p.CheckInDate,
			CheckOutDate: p.CheckOutDate,
			Adults:       guests,
			Rooms:        1,
		})
		if err != nil {
			return nil, err
		}
		hotel := cached
		if !ok {
			hotel = &Hotel{HotelID: p.HotelID, HotelName: "Unknown Hotel", Amenities: []string{}}
		}
		return newDetails(hotel, buildRooms(p.HotelID, rates, guests)), nil
	}

	if ok {
		return newDetails(cached, []Room{}), nil
	}
	return nil, ErrHotelNotFound
}

func newDetails(h *Hotel, rooms []Room) *Details {
	return &Details{
		Hotel:             h,
		Rooms:             rooms,
		RecentReviews:     []interface{}{},
		NearbyAttractions: []interface{}{},
	}
}

// Availability 查询可用房间，并尽力补充各渠道预订链接
func (s *Service) Availability(ctx context.Context, p AvailabilityParams) (*Availability, error) {
	if p.Guests <= 0 {
		p.Guests = 2
	}
	if p.RoomCount <= 0 {
		p.RoomCount = 1
	}
	rates, err := s.upstream.Rates(ctx, RatesQuery{
		HotelID:      p.HotelID,
		CheckInDate:  p.CheckInDate,
		CheckOutDate: p.CheckOutDate,
		Adults:       p.Guests,
		Rooms:        p.RoomCount,
	})
	if err != nil {
		return nil, err
	}

	rooms := buildRooms(p.HotelID, rates, p.Guests)
	if s.cfg.EnrichLinks && s.search != nil {
		s.enrichBookingLinks(ctx, p, rooms)
	}

	return &Availability{
		HotelID:        p.HotelID,
		CheckInDate:    p.CheckInDate,
		CheckOutDate:   p.CheckOutDate,
		AvailableRooms: rooms,
		TotalAvailable: len(rooms),
	}, nil
}

// RoomRates 供预订计价使用的房间报价，缺少必要参数时返回空
func (s *Service) RoomRates(ctx context.Context, hotelID, checkIn, checkOut string, guests, rooms int) ([]Room, error) {
	if hotelID == "" || checkIn == "" || checkOut == "" {
		return []Room{}, nil
	}
	if guests <= 0 {
		guests = 1
	}
	if rooms <= 0 {
		rooms = 1
	}
	rates, err := s.upstream.Rates(ctx, RatesQuery{
		HotelID:      hotelID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Adults:       guests,
		Rooms:        rooms,
	})
	if err != nil {
		return nil, err
	}
	return buildRooms(hotelID, rates, guests), nil
}

// HotelName 返回缓存中的酒店名称
func (s *Service) HotelName(ctx context.Context, hotelID string) string {
	if h, ok := s.cache.Get(ctx, hotelID); ok {
		return h.HotelName
	}
	return ""
}

// enrichBookingLinks 为前若干个房间查找渠道落地页，失败只记录日志
func (s *Service) enrichBookingLinks(ctx context.Context, p AvailabilityParams, rooms []Room) {
	name := p.HotelName
	if name == "" {
		name = s.HotelName(ctx, p.HotelID)
	}
	if name == "" {
		name = p.HotelID
	}

	limit := s.cfg.MaxLinkRooms
	if limit <= 0 || limit > len(rooms) {
		limit = len(rooms)
	}

	found := make(map[string]string)
	for i := 0; i < limit; i++ {
		provider := rooms[i].Provider
		if provider == "" || provider == "OTA" {
			continue
		}
		if link, ok := found[provider]; ok {
			rooms[i].BookingURL = link
			continue
		}
		link, err := s.findProviderLink(ctx, name, provider)
		if err != nil {
			s.log.Warn("booking link lookup failed", "hotel_id", p.HotelID, "provider", provider, "error", err)
			found[provider] = ""
			continue
		}
		found[provider] = link
		rooms[i].BookingURL = link
	}
}

func (s *Service) findProviderLink(ctx context.Context, hotelName, provider string) (string, error) {
	results, err := s.search.Search(ctx, fmt.Sprintf("%s %s booking", hotelName, provider))
	if err != nil {
		return "", err
	}
	token := providerToken(provider)
	for _, r := range results {
		u, err := url.Parse(r.URL)
		if err != nil || u.Host == "" {
			continue
		}
		if strings.Contains(strings.ToLower(u.Host), token) {
			return r.URL, nil
		}
	}
	return "", errors.New("no matching provider link")
}

// providerToken 渠道名转为用于匹配域名的关键字，如 "Booking.com" -> "booking.com"
func providerToken(provider string) string {
	p := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(provider), " ", ""))
	if strings.Contains(p, ".") {
		return p
	}
	return p + "."
}
