package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/travel-planner/internal/model"
)

// BookingService 预订能力
type BookingService interface {
	Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.BookingResult, error)
	List(ctx context.Context, userID string) ([]*model.Booking, error)
	Get(ctx context.Context, userID, bookingID string) (*model.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error)
}

// BookingHandler 预订处理器
type BookingHandler struct {
	svc BookingService
}

// NewBookingHandler 创建预订处理器
func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// CancelResponse 取消预订响应
type CancelResponse struct {
	Message        string         `json:"message"`
	BookingDetails *model.Booking `json:"bookingDetails"`
}

// Create 创建预订
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}
	var req model.BookingRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, result)
}

// List 列出当前用户的预订
func (h *BookingHandler) List(c *gin.Context) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}

	bookings, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, bookings)
}

// Get 获取预订
func (h *BookingHandler) Get(c *gin.Context) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}

	b, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, b)
}

// Cancel 取消预订
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}

	b, err := h.svc.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, CancelResponse{Message: "Booking cancelled successfully", BookingDetails: b})
}
