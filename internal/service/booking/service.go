// Package booking 预订创建、查询、取消与行程交接
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/repository"
	"github.com/ashwinyue/travel-planner/internal/service/hotel"
)

// ErrBookingNotFound 预订不存在
var ErrBookingNotFound = apierr.NotFound("BOOKING_NOT_FOUND", "Booking not found")

// HotelProvider 预订依赖的酒店能力
type HotelProvider interface {
	RoomRates(ctx context.Context, hotelID, checkIn, checkOut string, guests, rooms int) ([]hotel.Room, error)
	Availability(ctx context.Context, p hotel.AvailabilityParams) (*hotel.Availability, error)
	HotelName(ctx context.Context, hotelID string) string
}

// Service 预订服务
type Service struct {
	repo     repository.BookingRepository
	hotels   HotelProvider
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

// NewService 创建预订服务
func NewService(repo repository.BookingRepository, hotels HotelProvider, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		hotels:   hotels,
		validate: validator.New(),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create 创建预订，价格在创建时同步计算且之后不再变化
func (s *Service) Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.BookingResult, error) {
	if req == nil {
		return nil, apierr.BadRequest("INVALID_BOOKING_REQUEST", errors.New("booking request is required"))
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apierr.BadRequest("INVALID_BOOKING_REQUEST", err)
	}

	hotelName := req.HotelName
	if hotelName == "" && s.hotels != nil {
		hotelName = s.hotels.HotelName(ctx, req.HotelID)
	}

	b := &model.Booking{
		BookingID:          newBookingID(),
		HotelID:            req.HotelID,
		HotelName:          hotelName,
		Rooms:              append([]model.RoomConfiguration(nil), req.Rooms...),
		UserID:             userID,
		CheckInDate:        req.CheckInDate,
		CheckOutDate:       req.CheckOutDate,
		NumberOfGuests:     req.NumberOfGuests,
		NumberOfRooms:      req.NumberOfRooms,
		PrimaryGuest:       req.PrimaryGuest,
		Pricing:            s.CalculatePricing(ctx, req),
		BookingStatus:      model.BookingStatusConfirmed,
		BookingDate:        s.now(),
		ConfirmationNumber: newConfirmationNumber(),
		SpecialRequests:    req.SpecialRequests,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.log.Info("booking created", "user_id", userID, "booking_id", b.BookingID, "hotel_id", b.HotelID)
	return &model.BookingResult{
		BookingID:          b.BookingID,
		ConfirmationNumber: b.ConfirmationNumber,
		Message:            "Booking confirmed successfully",
		BookingDetails:     b,
	}, nil
}

// List 用户的全部预订，最新在前
func (s *Service) List(ctx context.Context, userID string) ([]*model.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

// Get 获取单个预订
func (s *Service) Get(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	b, err := s.repo.Get(ctx, userID, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// Cancel 取消预订，重复取消会刷新取消时间
func (s *Service) Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	b, err := s.repo.Cancel(ctx, userID, bookingID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	s.log.Info("booking cancelled", "user_id", userID, "booking_id", bookingID)
	return b, nil
}

// RecordSummary 从助手回复中提取预订摘要并按 bookingId 去重保存
// 未识别到预订时返回 nil, false, nil
func (s *Service) RecordSummary(ctx context.Context, userID, text string) (*model.Booking, bool, error) {
	b, ok := ExtractSummary(text, userID, s.now())
	if !ok {
		return nil, false, nil
	}
	saved, inserted, err := s.repo.InsertIfAbsent(ctx, b)
	if err != nil {
		return nil, false, fmt.Errorf("failed to record booking summary: %w", err)
	}
	if inserted {
		s.log.Info("booking summary recorded", "user_id", userID, "booking_id", saved.BookingID)
	}
	return saved, inserted, nil
}

func newBookingID() string {
	return "BK" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func newConfirmationNumber() string {
	return "CONF" + uuid.NewString()
}
