package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/model"
)

// bookingDocument userId -> 预订列表（新的在前）
type bookingDocument map[string][]*model.Booking

// BookingStore 基于 JSON 文件的预订存储
type BookingStore struct {
	mu   sync.Mutex
	file jsonFile[bookingDocument]
	doc  bookingDocument
}

// NewBookingStore 创建预订存储，文件损坏时从空存储开始
func NewBookingStore(path string, log *logger.Logger) *BookingStore {
	s := &BookingStore{file: jsonFile[bookingDocument]{path: path}}
	doc, err := s.file.load()
	if err != nil {
		log.Error("failed to load booking store, starting empty", "path", path, "error", err)
	}
	if doc == nil {
		doc = make(bookingDocument)
	}
	s.doc = doc
	return s
}

// Create 新预订插入到列表头部
func (s *BookingStore) Create(_ context.Context, booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prependLocked(booking)
}

func (s *BookingStore) prependLocked(booking *model.Booking) error {
	userID := booking.UserID
	prev := s.doc[userID]

	list := make([]*model.Booking, 0, len(prev)+1)
	list = append(list, booking.Clone())
	list = append(list, prev...)
	s.doc[userID] = list

	if err := s.file.save(s.doc); err != nil {
		if prev == nil {
			delete(s.doc, userID)
		} else {
			s.doc[userID] = prev
		}
		return err
	}
	return nil
}

// ListByUser 列出用户预订
func (s *BookingStore) ListByUser(_ context.Context, userID string) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.doc[userID]
	out := make([]*model.Booking, 0, len(list))
	for _, b := range list {
		out = append(out, b.Clone())
	}
	return out, nil
}

// Get 获取预订
func (s *BookingStore) Get(_ context.Context, userID, bookingID string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b := s.findLocked(userID, bookingID); b != nil {
		return b.Clone(), nil
	}
	return nil, ErrNotFound
}

// Cancel 取消预订
// 状态幂等，cancellationDate 每次刷新为 at
func (s *BookingStore) Cancel(_ context.Context, userID, bookingID string, at time.Time) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.findLocked(userID, bookingID)
	if b == nil {
		return nil, ErrNotFound
	}

	prevStatus, prevDate := b.BookingStatus, b.CancellationDate
	b.BookingStatus = model.BookingStatusCancelled
	b.CancellationDate = &at

	if err := s.file.save(s.doc); err != nil {
		b.BookingStatus, b.CancellationDate = prevStatus, prevDate
		return nil, err
	}
	return b.Clone(), nil
}

// InsertIfAbsent 按 bookingId 去重插入
func (s *BookingStore) InsertIfAbsent(_ context.Context, booking *model.Booking) (*model.Booking, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findLocked(booking.UserID, booking.BookingID); existing != nil {
		return existing.Clone(), false, nil
	}
	if err := s.prependLocked(booking); err != nil {
		return nil, false, err
	}
	return booking.Clone(), true, nil
}

func (s *BookingStore) findLocked(userID, bookingID string) *model.Booking {
	for _, b := range s.doc[userID] {
		if b.BookingID == bookingID {
			return b
		}
	}
	return nil
}
