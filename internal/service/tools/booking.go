package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"

	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/service/booking"
)

// createBookingTool 预订总是归属当前用户，忽略模型给出的 userId
func (c *Catalog) createBookingTool(scope Scope) (tool.InvokableTool, error) {
	return newTool(c, NameCreateBooking,
		"Create a hotel booking. Only call after the user confirmed the room, dates and guest details.",
		func(ctx context.Context, in *model.BookingRequest) (any, error) {
			in.UserID = scope.UserID
			c.log.Info("creating booking", "user_id", scope.UserID, "hotel_id", in.HotelID, "check_in", in.CheckInDate, "check_out", in.CheckOutDate, "rooms", in.NumberOfRooms)
			return c.deps.Bookings.Create(ctx, scope.UserID, in)
		})
}

type bookingHandoffInput struct {
	HotelID      string `json:"hotel_id,omitempty" validate:"required_without=HotelName" jsonschema_description:"Hotel ID from search results."`
	HotelName    string `json:"hotel_name,omitempty" validate:"required_without=HotelID" jsonschema_description:"Hotel name."`
	CheckInDate  string `json:"check_in_date" validate:"required,datetime=2006-01-02" jsonschema_description:"Check-in date in YYYY-MM-DD format."`
	CheckOutDate string `json:"check_out_date" validate:"required,datetime=2006-01-02" jsonschema_description:"Check-out date in YYYY-MM-DD format."`
	Guests       int    `json:"guests,omitempty" validate:"omitempty,gte=1" jsonschema_description:"Number of guests. Defaults to 2."`
	Rooms        int    `json:"rooms,omitempty" validate:"omitempty,gte=1" jsonschema_description:"Number of rooms. Defaults to 1."`
}

func (c *Catalog) bookingHandoffTool(_ Scope) (tool.InvokableTool, error) {
	return newTool(c, NameBookingHandoff,
		"Prepare a booking hand-off: price estimate and provider links so the user can book directly. Nothing is booked.",
		func(ctx context.Context, in *bookingHandoffInput) (any, error) {
			id, err := c.deps.Hotels.ResolveHotelID(ctx, in.HotelID, in.HotelName)
			if err != nil {
				return nil, err
			}
			return c.deps.Bookings.Handoff(ctx, booking.HandoffRequest{
				HotelID:      id,
				HotelName:    in.HotelName,
				CheckInDate:  in.CheckInDate,
				CheckOutDate: in.CheckOutDate,
				Guests:       in.Guests,
				Rooms:        in.Rooms,
			})
		})
}
