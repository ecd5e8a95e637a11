package booking

import (
	"context"
	"math"
	"time"

	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/service/hotel"
)

const (
	dateLayout      = "2006-01-02"
	defaultCurrency = "USD"
)

// CalculatePricing 计算预订价格
// 晚数不大于 0、未选择房间、报价获取失败或总价不大于 0 时返回空列表
func (s *Service) CalculatePricing(ctx context.Context, req *model.BookingRequest) []model.PricingLine {
	nights := Nights(req.CheckInDate, req.CheckOutDate)
	if nights <= 0 || len(req.Rooms) == 0 || s.hotels == nil {
		return []model.PricingLine{}
	}

	guests := req.NumberOfGuests
	if guests <= 0 {
		guests = 1
	}
	rooms, err := s.hotels.RoomRates(ctx, req.HotelID, req.CheckInDate, req.CheckOutDate, guests, req.NumberOfRooms)
	if err != nil {
		if hotel.IsNotConfigured(err) {
			s.log.Warn("pricing lookup skipped: hotel api key missing", "hotel_id", req.HotelID)
		} else {
			s.log.Error("pricing lookup failed", "hotel_id", req.HotelID, "error", err)
		}
		return []model.PricingLine{}
	}

	return priceRooms(req.Rooms, rooms, nights)
}

// priceRooms 按请求房间数量累加每晚价格，没有报价的房间被忽略
func priceRooms(requested []model.RoomConfiguration, rooms []hotel.Room, nights int) []model.PricingLine {
	rates := make(map[string]float64, len(rooms))
	for _, r := range rooms {
		if r.RoomID != "" {
			rates[r.RoomID] = r.PricePerNight
		}
	}

	perNight := 0.0
	for _, rc := range requested {
		rate, ok := rates[rc.RoomID]
		if !ok {
			continue
		}
		count := rc.NumberOfRooms
		if count <= 0 {
			count = 1
		}
		perNight += rate * float64(count)
	}
	if perNight <= 0 {
		return []model.PricingLine{}
	}

	return []model.PricingLine{{
		RoomRate:    round2(perNight),
		TotalAmount: round2(perNight * float64(nights)),
		Nights:      nights,
		Currency:    defaultCurrency,
	}}
}

// Nights 入住晚数，日期无效或退房不晚于入住时为 0
func Nights(checkIn, checkOut string) int {
	if checkIn == "" || checkOut == "" {
		return 0
	}
	start, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return 0
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
