package booking

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/repository"
	"github.com/ashwinyue/travel-planner/internal/service/hotel"
)

// fakeHotels 固定报价的酒店服务
type fakeHotels struct {
	rooms     []hotel.Room
	err       error
	rateCalls int
}

func (f *fakeHotels) RoomRates(ctx context.Context, hotelID, checkIn, checkOut string, guests, rooms int) ([]hotel.Room, error) {
	f.rateCalls++
	return f.rooms, f.err
}

func (f *fakeHotels) Availability(ctx context.Context, p hotel.AvailabilityParams) (*hotel.Availability, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &hotel.Availability{
		HotelID:        p.HotelID,
		CheckInDate:    p.CheckInDate,
		CheckOutDate:   p.CheckOutDate,
		AvailableRooms: f.rooms,
		TotalAvailable: len(f.rooms),
	}, nil
}

func (f *fakeHotels) HotelName(ctx context.Context, hotelID string) string {
	return "Grand Plaza"
}

func newTestService(t *testing.T, hotels HotelProvider) *Service {
	t.Helper()
	store := repository.NewBookingStore(filepath.Join(t.TempDir(), "bookings.json"), logger.Nop())
	return NewService(store, hotels, logger.Nop())
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		HotelID:        "H1",
		Rooms:          []model.RoomConfiguration{{RoomID: "H1_BKG", NumberOfRooms: 2}},
		CheckInDate:    "2025-06-01",
		CheckOutDate:   "2025-06-04",
		NumberOfGuests: 2,
		NumberOfRooms:  2,
		PrimaryGuest: &model.GuestDetails{
			FirstName:   "John",
			LastName:    "Smith",
			Email:       "john@example.com",
			PhoneNumber: "+1 555 0100",
		},
	}
}

func TestCalculatePricing(t *testing.T) {
	rooms := []hotel.Room{
		{RoomID: "H1_BKG", PricePerNight: 100},
		{RoomID: "H1_EXP", PricePerNight: 120},
	}

	tests := []struct {
		name      string
		mutate    func(r *model.BookingRequest)
		hotels    *fakeHotels
		wantLines int
		wantTotal float64
		wantRate  float64
		wantCalls int
	}{
		{
			name:      "three nights two rooms",
			mutate:    func(r *model.BookingRequest) {},
			hotels:    &fakeHotels{rooms: rooms},
			wantLines: 1, wantTotal: 600, wantRate: 200, wantCalls: 1,
		},
		{
			name: "checkout before checkin is unpriced",
			mutate: func(r *model.BookingRequest) {
				r.CheckOutDate = "2025-05-30"
			},
			hotels: &fakeHotels{rooms: rooms},
		},
		{
			name: "same day is unpriced",
			mutate: func(r *model.BookingRequest) {
				r.CheckOutDate = r.CheckInDate
			},
			hotels: &fakeHotels{rooms: rooms},
		},
		{
			name: "rooms without a rate are ignored",
			mutate: func(r *model.BookingRequest) {
				r.Rooms = append(r.Rooms, model.RoomConfiguration{RoomID: "H1_UNKNOWN", NumberOfRooms: 1})
			},
			hotels:    &fakeHotels{rooms: rooms},
			wantLines: 1, wantTotal: 600, wantRate: 200, wantCalls: 1,
		},
		{
			name:      "rate lookup failure is unpriced",
			mutate:    func(r *model.BookingRequest) {},
			hotels:    &fakeHotels{err: hotel.ErrNotConfigured},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.hotels)
			req := validRequest()
			tt.mutate(req)

			got := svc.CalculatePricing(context.Background(), req)
			if got == nil {
				t.Fatal("pricing must be an empty slice, not nil")
			}
			if len(got) != tt.wantLines {
				t.Fatalf("len(pricing) = %d, want %d", len(got), tt.wantLines)
			}
			if tt.hotels.rateCalls != tt.wantCalls {
				t.Errorf("rate calls = %d, want %d", tt.hotels.rateCalls, tt.wantCalls)
			}
			if tt.wantLines == 0 {
				return
			}
			line := got[0]
			if line.TotalAmount != tt.wantTotal || line.RoomRate != tt.wantRate || line.Nights != 3 || line.Currency != "USD" {
				t.Errorf("unexpected pricing line %+v", line)
			}
		})
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		in, out string
		want    int
	}{
		{"2025-06-01", "2025-06-04", 3},
		{"2025-06-04", "2025-06-01", 0},
		{"2025-02-27", "2025-03-02", 3},
		{"bad", "2025-06-01", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		if got := Nights(tt.in, tt.out); got != tt.want {
			t.Errorf("Nights(%s, %s) = %d, want %d", tt.in, tt.out, got, tt.want)
		}
	}
}

func TestService_CreateGetCancel(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeHotels{rooms: []hotel.Room{{RoomID: "H1_BKG", PricePerNight: 100}}})

	res, err := svc.Create(ctx, "u1", validRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !strings.HasPrefix(res.BookingID, "BK") || len(res.BookingID) != 10 || strings.ToUpper(res.BookingID) != res.BookingID {
		t.Errorf("unexpected booking id %q", res.BookingID)
	}
	if !strings.HasPrefix(res.ConfirmationNumber, "CONF") {
		t.Errorf("unexpected confirmation %q", res.ConfirmationNumber)
	}
	if res.Message != "Booking confirmed successfully" {
		t.Errorf("message = %q", res.Message)
	}
	if res.BookingDetails.HotelName != "Grand Plaza" || res.BookingDetails.BookingStatus != model.BookingStatusConfirmed {
		t.Errorf("unexpected details %+v", res.BookingDetails)
	}

	got, err := svc.Get(ctx, "u1", res.BookingID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Pricing[0].TotalAmount != 600 {
		t.Errorf("stored pricing = %+v", got.Pricing)
	}

	if _, err := svc.Get(ctx, "u2", res.BookingID); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("other user Get() error = %v", err)
	}

	first := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	svc.now = func() time.Time { return first }
	c1, err := svc.Cancel(ctx, "u1", res.BookingID)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	svc.now = func() time.Time { return second }
	c2, err := svc.Cancel(ctx, "u1", res.BookingID)
	if err != nil {
		t.Fatalf("second Cancel() error = %v", err)
	}
	if c1.BookingStatus != model.BookingStatusCancelled || c2.BookingStatus != model.BookingStatusCancelled {
		t.Errorf("status = %s / %s", c1.BookingStatus, c2.BookingStatus)
	}
	if !c2.CancellationDate.Equal(second) {
		t.Errorf("cancellation date = %v, want %v", c2.CancellationDate, second)
	}

	if _, err := svc.Cancel(ctx, "u1", "BKMISSING"); apierr.StatusOf(err) != 404 {
		t.Errorf("missing cancel error = %v", err)
	}
}

func TestService_CreateValidation(t *testing.T) {
	svc := newTestService(t, &fakeHotels{})

	tests := []struct {
		name   string
		mutate func(r *model.BookingRequest)
	}{
		{"missing hotel", func(r *model.BookingRequest) { r.HotelID = "" }},
		{"no rooms", func(r *model.BookingRequest) { r.Rooms = nil }},
		{"bad date", func(r *model.BookingRequest) { r.CheckInDate = "06/01/2025" }},
		{"bad email", func(r *model.BookingRequest) { r.PrimaryGuest.Email = "nope" }},
		{"missing guest", func(r *model.BookingRequest) { r.PrimaryGuest = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := svc.Create(context.Background(), "u1", req)
			if apierr.StatusOf(err) != 400 {
				t.Errorf("expected 400, got %v", err)
			}
		})
	}
}

func TestService_Handoff(t *testing.T) {
	svc := newTestService(t, &fakeHotels{rooms: []hotel.Room{
		{RoomID: "H1_BKG", Provider: "Booking.com", PricePerNight: 150, BookingURL: "https://www.booking.com/hotel/h1"},
	}})

	out, err := svc.Handoff(context.Background(), HandoffRequest{
		HotelID:      "H1",
		CheckInDate:  "2025-06-01",
		CheckOutDate: "2025-06-03",
		Rooms:        2,
	})
	if err != nil {
		t.Fatalf("Handoff() error = %v", err)
	}
	if out.Nights != 2 || out.Guests != 2 || len(out.Options) != 1 {
		t.Fatalf("unexpected handoff %+v", out)
	}
	if opt := out.Options[0]; opt.EstimatedTotal != 600 || opt.BookingURL == "" {
		t.Errorf("unexpected option %+v", opt)
	}

	list, err := svc.List(context.Background(), "u1")
	if err != nil || len(list) != 0 {
		t.Errorf("handoff must not persist bookings, got %v %v", list, err)
	}
}
