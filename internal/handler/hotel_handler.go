package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/travel-planner/internal/service/hotel"
)

const (
	defaultRouteGuests = 2
	maxPageSize        = 50
	maxPage            = 1000
)

// HotelService 酒店能力
type HotelService interface {
	Search(ctx context.Context, p hotel.SearchParams) (*hotel.SearchResult, error)
	Details(ctx context.Context, p hotel.DetailsParams) (*hotel.Details, error)
	Availability(ctx context.Context, p hotel.AvailabilityParams) (*hotel.Availability, error)
}

// HotelHandler 酒店处理器
type HotelHandler struct {
	svc HotelService
}

// NewHotelHandler 创建酒店处理器
func NewHotelHandler(svc HotelService) *HotelHandler {
	return &HotelHandler{svc: svc}
}

// Search 搜索酒店
func (h *HotelHandler) Search(c *gin.Context) {
	q := queryParser{c: c}
	p := hotel.SearchParams{
		Destination:  strings.TrimSpace(c.Query("destination")),
		CheckInDate:  c.Query("checkInDate"),
		CheckOutDate: c.Query("checkOutDate"),
		Guests:       q.intValue("guests", defaultRouteGuests),
		Rooms:        q.intValue("rooms", 1),
		MinPrice:     q.floatValue("minPrice"),
		MaxPrice:     q.floatValue("maxPrice"),
		MinRating:    q.floatValue("minRating"),
		Amenities:    c.QueryArray("amenities"),
		SortBy:       c.Query("sortBy"),
		Page:         q.intRange("page", 1, 1, maxPage),
		PageSize:     q.intRange("pageSize", 10, 1, maxPageSize),
	}
	if q.err != nil {
		Error(c, ErrInvalidRequest(q.err))
		return
	}

	result, err := h.svc.Search(c.Request.Context(), p)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// Details 酒店详情
func (h *HotelHandler) Details(c *gin.Context) {
	q := queryParser{c: c}
	p := hotel.DetailsParams{
		HotelID:      c.Param("id"),
		CheckInDate:  c.Query("checkInDate"),
		CheckOutDate: c.Query("checkOutDate"),
		Guests:       q.intValue("guests", defaultRouteGuests),
	}
	if q.err != nil {
		Error(c, ErrInvalidRequest(q.err))
		return
	}

	details, err := h.svc.Details(c.Request.Context(), p)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, details)
}

// Availability 房态查询
func (h *HotelHandler) Availability(c *gin.Context) {
	q := queryParser{c: c}
	p := hotel.AvailabilityParams{
		HotelID:      c.Param("id"),
		CheckInDate:  q.required("checkInDate"),
		CheckOutDate: q.required("checkOutDate"),
		Guests:       q.intValue("guests", defaultRouteGuests),
		RoomCount:    q.intValue("roomCount", 1),
	}
	if q.err != nil {
		Error(c, ErrInvalidRequest(q.err))
		return
	}

	availability, err := h.svc.Availability(c.Request.Context(), p)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, availability)
}

// queryParser 解析查询参数，记录第一个错误
type queryParser struct {
	c   *gin.Context
	err error
}

func (q *queryParser) intValue(key string, def int) int {
	raw, ok := q.c.GetQuery(key)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(fmt.Errorf("query parameter %s must be an integer", key))
		return def
	}
	return v
}

// intRange 解析整数并校验取值范围
func (q *queryParser) intRange(key string, def, min, max int) int {
	v := q.intValue(key, def)
	if v < min || v > max {
		q.fail(fmt.Errorf("query parameter %s must be between %d and %d", key, min, max))
		return def
	}
	return v
}

func (q *queryParser) floatValue(key string) *float64 {
	raw, ok := q.c.GetQuery(key)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(fmt.Errorf("query parameter %s must be a number", key))
		return nil
	}
	return &v
}

func (q *queryParser) required(key string) string {
	v := strings.TrimSpace(q.c.Query(key))
	if v == "" {
		q.fail(fmt.Errorf("query parameter %s is required", key))
	}
	return v
}

func (q *queryParser) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}
