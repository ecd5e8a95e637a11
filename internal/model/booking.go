package model

import "time"

// 预订状态
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// RoomConfiguration 预订的房型与数量
type RoomConfiguration struct {
	RoomID        string `json:"roomId" validate:"required" jsonschema_description:"Room ID to book."`
	NumberOfRooms int    `json:"numberOfRooms" validate:"gte=1" jsonschema_description:"Number of rooms to book for this roomId."`
}

// GuestDetails 主要入住人
type GuestDetails struct {
	FirstName   string  `json:"firstName" validate:"required" jsonschema_description:"Primary guest first name."`
	LastName    string  `json:"lastName" validate:"required" jsonschema_description:"Primary guest last name."`
	Email       string  `json:"email" validate:"required,email" jsonschema_description:"Primary guest email address."`
	PhoneNumber string  `json:"phoneNumber" validate:"required" jsonschema_description:"Primary guest phone number."`
	Nationality *string `json:"nationality,omitempty" jsonschema_description:"Primary guest nationality, if available."`
}

// SpecialRequests 特殊需求
type SpecialRequests struct {
	DietaryRequirements *string `json:"dietaryRequirements,omitempty" jsonschema_description:"Dietary requirements, if any."`
	AccessibilityNeeds  *string `json:"accessibilityNeeds,omitempty" jsonschema_description:"Accessibility needs, if any."`
	BedPreference       *string `json:"bedPreference,omitempty" jsonschema_description:"Bed preference, if any."`
	PetFriendly         *bool   `json:"petFriendly,omitempty" jsonschema_description:"Whether the booking should be pet friendly."`
	OtherRequests       *string `json:"otherRequests,omitempty" jsonschema_description:"Other special requests."`
}

// BookingRequest 创建预订请求
type BookingRequest struct {
	UserID          string              `json:"userId,omitempty" jsonschema_description:"User ID for the booking."`
	HotelID         string              `json:"hotelId" validate:"required" jsonschema_description:"Hotel ID to book."`
	HotelName       string              `json:"hotelName,omitempty" jsonschema_description:"Hotel name, if available."`
	Rooms           []RoomConfiguration `json:"rooms" validate:"required,min=1,dive" jsonschema_description:"Room configuration(s) to book."`
	CheckInDate     string              `json:"checkInDate" validate:"required,datetime=2006-01-02" jsonschema_description:"Check-in date in YYYY-MM-DD format."`
	CheckOutDate    string              `json:"checkOutDate" validate:"required,datetime=2006-01-02" jsonschema_description:"Check-out date in YYYY-MM-DD format."`
	NumberOfGuests  int                 `json:"numberOfGuests" validate:"gte=1" jsonschema_description:"Total number of guests."`
	NumberOfRooms   int                 `json:"numberOfRooms" validate:"gte=1" jsonschema_description:"Total number of rooms."`
	PrimaryGuest    *GuestDetails       `json:"primaryGuest" validate:"required" jsonschema_description:"Primary guest contact details."`
	SpecialRequests *SpecialRequests    `json:"specialRequests,omitempty" jsonschema_description:"Optional special requests."`
}

// PricingLine 价格明细
type PricingLine struct {
	RoomRate    float64 `json:"roomRate"`
	TotalAmount float64 `json:"totalAmount"`
	Nights      int     `json:"nights"`
	Currency    string  `json:"currency"`
}

// Booking 预订记录
type Booking struct {
	BookingID          string              `json:"bookingId"`
	HotelID            string              `json:"hotelId,omitempty"`
	HotelName          string              `json:"hotelName,omitempty"`
	Rooms              []RoomConfiguration `json:"rooms,omitempty"`
	RoomType           string              `json:"roomType,omitempty"`
	Provider           string              `json:"provider,omitempty"`
	UserID             string              `json:"userId"`
	CheckInDate        string              `json:"checkInDate,omitempty"`
	CheckOutDate       string              `json:"checkOutDate,omitempty"`
	NumberOfGuests     int                 `json:"numberOfGuests,omitempty"`
	NumberOfRooms      int                 `json:"numberOfRooms,omitempty"`
	PrimaryGuest       *GuestDetails       `json:"primaryGuest,omitempty"`
	Pricing            []PricingLine       `json:"pricing"`
	BookingStatus      string              `json:"bookingStatus"`
	BookingDate        time.Time           `json:"bookingDate"`
	ConfirmationNumber string              `json:"confirmationNumber"`
	SpecialRequests    *SpecialRequests    `json:"specialRequests,omitempty"`
	CancellationDate   *time.Time          `json:"cancellationDate,omitempty"`
}

// Clone 深拷贝，避免调用方修改存储中的记录
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.Rooms != nil {
		c.Rooms = append([]RoomConfiguration(nil), b.Rooms...)
	}
	if b.Pricing != nil {
		c.Pricing = append([]PricingLine(nil), b.Pricing...)
	}
	if b.PrimaryGuest != nil {
		g := *b.PrimaryGuest
		c.PrimaryGuest = &g
	}
	if b.SpecialRequests != nil {
		s := *b.SpecialRequests
		c.SpecialRequests = &s
	}
	if b.CancellationDate != nil {
		t := *b.CancellationDate
		c.CancellationDate = &t
	}
	return &c
}

// BookingResult 创建预订响应
type BookingResult struct {
	BookingID          string   `json:"bookingId"`
	ConfirmationNumber string   `json:"confirmationNumber"`
	Message            string   `json:"message"`
	BookingDetails     *Booking `json:"bookingDetails"`
}
