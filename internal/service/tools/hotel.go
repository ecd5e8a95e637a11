package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"

	"github.com/ashwinyue/travel-planner/internal/service/hotel"
)

type searchHotelsInput struct {
	Destination  string   `json:"destination" jsonschema_description:"City, region or hotel name to search, e.g. 'Paris, France'."`
	CheckInDate  string   `json:"check_in_date,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema_description:"Check-in date in YYYY-MM-DD format."`
	CheckOutDate string   `json:"check_out_date,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema_description:"Check-out date in YYYY-MM-DD format."`
	Guests       int      `json:"guests,omitempty" validate:"omitempty,gte=1" jsonschema_description:"Number of guests. Defaults to 1."`
	Rooms        int      `json:"rooms,omitempty" validate:"omitempty,gte=1" jsonschema_description:"Number of rooms. Defaults to 1."`
	MinPrice     *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Minimum nightly price."`
	MaxPrice     *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Maximum nightly price."`
	MinRating    *float64 `json:"min_rating,omitempty" validate:"omitempty,gte=0,lte=5" jsonschema_description:"Minimum rating from 0 to 5."`
	Amenities    []string `json:"amenities,omitempty" jsonschema_description:"Amenities that must all be present."`
	SortBy       string   `json:"sort_by,omitempty" validate:"omitempty,oneof=price_low price_high rating" jsonschema_description:"Sort order: price_low, price_high or rating."`
	Page         int      `json:"page,omitempty" validate:"omitempty,gte=1" jsonschema_description:"Page number starting at 1."`
	PageSize     int      `json:"page_size,omitempty" validate:"omitempty,gte=1,lte=50" jsonschema_description:"Results per page. Defaults to 10."`
}

func (c *Catalog) searchHotelsTool(_ Scope) (tool.InvokableTool, error) {
	return newTool(c, NameSearchHotels,
		"Search hotels in a destination with optional price, rating and amenity filters.",
		func(ctx context.Context, in *searchHotelsInput) (any, error) {
			if in.Guests <= 0 {
				in.Guests = 1
			}
			if in.Rooms <= 0 {
				in.Rooms = 1
			}
			return c.deps.Hotels.Search(ctx, hotel.SearchParams{
				Destination:  in.Destination,
				CheckInDate:  in.CheckInDate,
				CheckOutDate: in.CheckOutDate,
				Guests:       in.Guests,
				Rooms:        in.Rooms,
				MinPrice:     in.MinPrice,
				MaxPrice:     in.MaxPrice,
				MinRating:    in.MinRating,
				Amenities:    in.Amenities,
				SortBy:       in.SortBy,
				Page:         in.Page,
				PageSize:     in.PageSize,
			})
		})
}

type hotelInfoInput struct {
	HotelID      string `json:"hotel_id,omitempty" validate:"required_without=HotelName" jsonschema_description:"Hotel ID from search results."`
	HotelName    string `json:"hotel_name,omitempty" validate:"required_without=HotelID" jsonschema_description:"Hotel name, used when the ID is unknown."`
	CheckInDate  string `json:"check_in_date,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema_description:"Check-in date in YYYY-MM-DD format, to include room rates."`
	CheckOutDate string `json:"check_out_date,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema_description:"Check-out date in YYYY-MM-DD format."`
	Guests       int    `json:"guests,omitempty" validate:"omitempty,gte=1" jsonschema_description:"Number of guests. Defaults to 2."`
}

func (c *Catalog) hotelInfoTool(_ Scope) (tool.InvokableTool, error) {
	return newTool(c, NameHotelInfo,
		"Get hotel details. Include dates to also get bookable rooms and prices.",
		func(ctx context.Context, in *hotelInfoInput) (any, error) {
			id, err := c.deps.Hotels.ResolveHotelID(ctx, in.HotelID, in.HotelName)
			if err != nil {
				return nil, err
			}
			return c.deps.Hotels.Details(ctx, hotel.DetailsParams{
				HotelID:      id,
				CheckInDate:  in.CheckInDate,
				CheckOutDate: in.CheckOutDate,
				Guests:       in.Guests,
			})
		})
}

type availabilityInput struct {
	HotelID      string `json:"hotel_id" validate:"required_without=HotelName" jsonschema_description:"Hotel ID from search results."`
	HotelName    string `json:"hotel_name,omitempty" validate:"required_without=HotelID" jsonschema_description:"Hotel name, used when the ID is unknown."`
	CheckInDate  string `json:"check_in_date" validate:"required,datetime=2006-01-02" jsonschema_description:"Check-in date in YYYY-MM-DD format."`
	CheckOutDate string `json:"check_out_date" validate:"required,datetime=2006-01-02" jsonschema_description:"Check-out date in YYYY-MM-DD format."`
	Guests       int    `json:"guests" validate:"required,gte=1" jsonschema_description:"Number of guests."`
	RoomCount    int    `json:"room_count" validate:"required,gte=1" jsonschema_description:"Number of rooms."`
}

func (c *Catalog) availabilityTool(_ Scope) (tool.InvokableTool, error) {
	return newTool(c, NameCheckAvailability,
		"Check availability before recommending a hotel. Returns bookable rooms with provider links when found.",
		func(ctx context.Context, in *availabilityInput) (any, error) {
			id, err := c.deps.Hotels.ResolveHotelID(ctx, in.HotelID, in.HotelName)
			if err != nil {
				return nil, err
			}
			c.log.Info("checking hotel availability", "hotel_id", id, "check_in", in.CheckInDate, "check_out", in.CheckOutDate, "guests", in.Guests, "rooms", in.RoomCount)
			return c.deps.Hotels.Availability(ctx, hotel.AvailabilityParams{
				HotelID:      id,
				HotelName:    in.HotelName,
				CheckInDate:  in.CheckInDate,
				CheckOutDate: in.CheckOutDate,
				Guests:       in.Guests,
				RoomCount:    in.RoomCount,
			})
		})
}
