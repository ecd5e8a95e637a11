package hotel

import (
	"net/http"

	"github.com/ashwinyue/travel-planner/internal/apierr"
)

// 错误定义
var (
	ErrNotConfigured = apierr.NotConfigured("XOTELO_NOT_CONFIGURED", "XOTELO_API_KEY is not configured.")
	ErrHotelNotFound = apierr.NotFound("HOTEL_NOT_FOUND", "Hotel not found.")
	// ErrUnresolved 名称无法解析为酒店 ID
	ErrUnresolved = apierr.NotFound("HOTEL_NOT_FOUND", "Hotel not found. Provide a valid hotel_id or hotel_name.")
)

// upstreamError 包装第三方接口错误（502）
func upstreamError(err error) error {
	return apierr.New(http.StatusBadGateway, "HOTEL_UPSTREAM_ERROR", err)
}

// Hotel 酒店信息（已归一化）
type Hotel struct {
	HotelID        string   `json:"hotelId"`
	HotelName      string   `json:"hotelName"`
	City           string   `json:"city,omitempty"`
	Country        string   `json:"country,omitempty"`
	PlaceName      string   `json:"place_name,omitempty"`
	ShortPlaceName string   `json:"short_place_name,omitempty"`
	Address        string   `json:"address,omitempty"`
	Description    string   `json:"description,omitempty"`
	URL            string   `json:"url,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Rating         float64  `json:"rating"`
	LowestPrice    float64  `json:"lowestPrice"`
	Amenities      []string `json:"amenities"`
}

// Rate 单个渠道报价
type Rate struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// Room 由报价生成的房间
type Room struct {
	RoomID         string   `json:"roomId"`
	HotelID        string   `json:"hotelId"`
	RoomType       string   `json:"roomType"`
	RoomName       string   `json:"roomName"`
	Description    string   `json:"description"`
	MaxOccupancy   int      `json:"maxOccupancy"`
	PricePerNight  float64  `json:"pricePerNight"`
	Images         []string `json:"images"`
	Amenities      []string `json:"amenities"`
	AvailableCount int      `json:"availableCount"`
	Provider       string   `json:"provider"`
	BookingURL     string   `json:"bookingUrl,omitempty"`
}

// SearchParams 搜索参数
type SearchParams struct {
	Destination  string
	CheckInDate  string
	CheckOutDate string
	Guests       int
	Rooms        int
	MinPrice     *float64
	MaxPrice     *float64
	MinRating    *float64
	Amenities    []string
	SortBy       string
	Page         int
	PageSize     int
}

// SearchMetadata 搜索元数据
type SearchMetadata struct {
	TotalResults int    `json:"totalResults"`
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
	DataSource   string `json:"dataSource"`
}

// SearchResult 搜索结果
type SearchResult struct {
	Hotels   []Hotel        `json:"hotels"`
	Metadata SearchMetadata `json:"metadata"`
}

// DetailsParams 详情参数
type DetailsParams struct {
	HotelID      string
	CheckInDate  string
	CheckOutDate string
	Guests       int
}

// Details 酒店详情
type Details struct {
	Hotel             *Hotel        `json:"hotel"`
	Rooms             []Room        `json:"rooms"`
	RecentReviews     []interface{} `json:"recentReviews"`
	NearbyAttractions []interface{} `json:"nearbyAttractions"`
}

// AvailabilityParams 可用性查询参数
type AvailabilityParams struct {
	HotelID      string
	HotelName    string
	CheckInDate  string
	CheckOutDate string
	Guests       int
	RoomCount    int
}

// Availability 可用房间
type Availability struct {
	HotelID        string `json:"hotelId"`
	CheckInDate    string `json:"checkInDate"`
	CheckOutDate   string `json:"checkOutDate"`
	AvailableRooms []Room `json:"availableRooms"`
	TotalAvailable int    `json:"totalAvailable"`
}

// RatesQuery 报价查询
type RatesQuery struct {
	HotelID      string
	CheckInDate  string
	CheckOutDate string
	Adults       int
	Rooms        int
}
