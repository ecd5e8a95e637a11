package booking

import (
	"context"
	"fmt"

	"github.com/ashwinyue/travel-planner/internal/service/hotel"
)

// HandoffRequest 交接请求
type HandoffRequest struct {
	HotelID      string
	HotelName    string
	CheckInDate  string
	CheckOutDate string
	Guests       int
	Rooms        int
}

// HandoffOption 单个渠道的预订选项
type HandoffOption struct {
	RoomID         string  `json:"roomId"`
	Provider       string  `json:"provider"`
	PricePerNight  float64 `json:"pricePerNight"`
	EstimatedTotal float64 `json:"estimatedTotal"`
	Currency       string  `json:"currency"`
	BookingURL     string  `json:"bookingUrl,omitempty"`
}

// Handoff 交接结果，用户通过渠道链接自行完成预订
type Handoff struct {
	HotelID      string          `json:"hotelId"`
	HotelName    string          `json:"hotelName,omitempty"`
	CheckInDate  string          `json:"checkInDate"`
	CheckOutDate string          `json:"checkOutDate"`
	Guests       int             `json:"guests"`
	Rooms        int             `json:"rooms"`
	Nights       int             `json:"nights"`
	Options      []HandoffOption `json:"options"`
	Message      string          `json:"message"`
}

// Handoff 查询可用房间、估算总价并返回渠道链接，不保存预订
func (s *Service) Handoff(ctx context.Context, req HandoffRequest) (*Handoff, error) {
	if req.Guests <= 0 {
		req.Guests = 2
	}
	if req.Rooms <= 0 {
		req.Rooms = 1
	}
	name := req.HotelName
	if name == "" {
		name = s.hotels.HotelName(ctx, req.HotelID)
	}

	avail, err := s.hotels.Availability(ctx, hotel.AvailabilityParams{
		HotelID:      req.HotelID,
		HotelName:    name,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Guests:       req.Guests,
		RoomCount:    req.Rooms,
	})
	if err != nil {
		return nil, err
	}

	nights := Nights(req.CheckInDate, req.CheckOutDate)
	out := &Handoff{
		HotelID:      req.HotelID,
		HotelName:    name,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Guests:       req.Guests,
		Rooms:        req.Rooms,
		Nights:       nights,
		Options:      make([]HandoffOption, 0, len(avail.AvailableRooms)),
	}
	for _, r := range avail.AvailableRooms {
		out.Options = append(out.Options, HandoffOption{
			RoomID:         r.RoomID,
			Provider:       r.Provider,
			PricePerNight:  r.PricePerNight,
			EstimatedTotal: round2(r.PricePerNight * float64(req.Rooms) * float64(nights)),
			Currency:       defaultCurrency,
			BookingURL:     r.BookingURL,
		})
	}

	switch {
	case len(out.Options) == 0:
		out.Message = "No rooms are available for the selected dates."
	case nights <= 0:
		out.Message = "Check-out must be after check-in to estimate a total."
	default:
		out.Message = fmt.Sprintf("Found %d booking option(s). Complete the booking with the provider.", len(out.Options))
	}
	return out, nil
}
