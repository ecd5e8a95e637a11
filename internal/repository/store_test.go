package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/cloudwego/eino/schema"
)

func TestSessionStore_SaveGetList(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.json")
	store := NewSessionStore(path, logger.Nop())

	if _, err := store.Get(ctx, "u1", "default"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions := []*model.ChatSession{
		{SessionID: "a", UserID: "u1", Title: "first", UpdatedAt: base},
		{SessionID: "b", UserID: "u1", Title: "second", UpdatedAt: base.Add(time.Hour),
			Messages: []*schema.Message{schema.UserMessage("hi")}},
		{SessionID: "a", UserID: "u2", Title: "other user", UpdatedAt: base.Add(2 * time.Hour)},
	}
	for _, s := range sessions {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := store.Get(ctx, "u1", "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "first" {
		t.Errorf("Title = %q, want first", got.Title)
	}

	list, err := store.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(list) != 2 || list[0].SessionID != "b" || list[1].SessionID != "a" {
		t.Fatalf("unexpected order: %+v", list)
	}

	// 重新加载后数据仍在
	reloaded := NewSessionStore(path, logger.Nop())
	got, err = reloaded.Get(ctx, "u1", "b")
	if err != nil {
		t.Fatalf("reloaded Get() error = %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hi" {
		t.Errorf("messages not persisted: %+v", got.Messages)
	}
}

func TestSessionStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewSessionStore(path, logger.Nop())
	list, err := store.ListByUser(context.Background(), "u1")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty store, got %v %v", list, err)
	}
}

func TestBookingStore_CreateOrderAndCancel(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookings.json")
	store := NewBookingStore(path, logger.Nop())

	for _, id := range []string{"BK1", "BK2"} {
		if err := store.Create(ctx, &model.Booking{BookingID: id, UserID: "u1", BookingStatus: model.BookingStatusConfirmed}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	list, _ := store.ListByUser(ctx, "u1")
	if len(list) != 2 || list[0].BookingID != "BK2" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)

	b, err := store.Cancel(ctx, "u1", "BK1", first)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if b.BookingStatus != model.BookingStatusCancelled || !b.CancellationDate.Equal(first) {
		t.Errorf("unexpected booking after cancel: %+v", b)
	}

	b, err = store.Cancel(ctx, "u1", "BK1", second)
	if err != nil {
		t.Fatalf("second Cancel() error = %v", err)
	}
	if b.BookingStatus != model.BookingStatusCancelled {
		t.Errorf("status = %s", b.BookingStatus)
	}
	if !b.CancellationDate.Equal(second) {
		t.Errorf("cancellationDate = %v, want %v", b.CancellationDate, second)
	}

	if _, err := store.Cancel(ctx, "u2", "BK1", second); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestBookingStore_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewBookingStore(filepath.Join(t.TempDir(), "bookings.json"), logger.Nop())

	b := &model.Booking{BookingID: "BK9", UserID: "u1", HotelName: "first"}
	if _, inserted, err := store.InsertIfAbsent(ctx, b); err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}

	dup := &model.Booking{BookingID: "BK9", UserID: "u1", HotelName: "second"}
	got, inserted, err := store.InsertIfAbsent(ctx, dup)
	if err != nil || inserted {
		t.Fatalf("duplicate insert: inserted=%v err=%v", inserted, err)
	}
	if got.HotelName != "first" {
		t.Errorf("expected existing record, got %q", got.HotelName)
	}

	list, _ := store.ListByUser(ctx, "u1")
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}

func TestBookingStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewBookingStore(filepath.Join(t.TempDir(), "bookings.json"), logger.Nop())
	_ = store.Create(ctx, &model.Booking{BookingID: "BK1", UserID: "u1", BookingStatus: model.BookingStatusConfirmed})

	b, _ := store.Get(ctx, "u1", "BK1")
	b.BookingStatus = "MUTATED"

	again, _ := store.Get(ctx, "u1", "BK1")
	if again.BookingStatus != model.BookingStatusConfirmed {
		t.Errorf("store was mutated through returned pointer")
	}
}
