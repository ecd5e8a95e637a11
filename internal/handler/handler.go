package handler

import (
	"github.com/ashwinyue/travel-planner/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Chat    *ChatHandler
	Booking *BookingHandler
	Hotel   *HotelHandler
	Profile *ProfileHandler
	System  *SystemHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Chat:    NewChatHandler(svc.Chat),
		Booking: NewBookingHandler(svc.Booking),
		Hotel:   NewHotelHandler(svc.Hotel),
		Profile: NewProfileHandler(svc.Profile),
		System:  NewSystemHandler(),
	}
}
