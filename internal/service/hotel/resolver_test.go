package hotel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/logger"
)

// fakeUpstream 记录调用次数的上游
type fakeUpstream struct {
	hotels      []Hotel
	searchCalls int
	lastQuery   string
}

func (f *fakeUpstream) Search(ctx context.Context, query string) ([]Hotel, error) {
	f.searchCalls++
	f.lastQuery = query
	return f.hotels, nil
}

func (f *fakeUpstream) Rates(ctx context.Context, q RatesQuery) ([]Rate, error) {
	return nil, nil
}

func TestResolveHotelID(t *testing.T) {
	hotels := []Hotel{
		{HotelID: "g-other", HotelName: "Plaza Budget Rooms"},
		{HotelID: "g-grand", HotelName: "The GRAND PLAZA Resort"},
		{HotelID: "g-grand-2", HotelName: "Grand Plaza Annex"},
	}

	tests := []struct {
		name        string
		hotelID     string
		hotelName   string
		want        string
		wantErr     error
		wantSearchs int
	}{
		{name: "id without space returned unchanged", hotelID: "HTL123", want: "HTL123", wantSearchs: 0},
		{name: "name resolved to first substring match", hotelName: "Grand Plaza", want: "g-grand", wantSearchs: 1},
		{name: "id with space treated as name", hotelID: "grand plaza", want: "g-grand", wantSearchs: 1},
		{name: "no match", hotelName: "Nonexistent Palace", wantErr: ErrUnresolved, wantSearchs: 1},
		{name: "nothing supplied", wantErr: ErrUnresolved, wantSearchs: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpstream{hotels: hotels}
			log := logger.Nop()
			svc := NewService(up, NewCache(nil, time.Hour, log), nil, config.HotelConfig{}, log)

			got, err := svc.ResolveHotelID(context.Background(), tt.hotelID, tt.hotelName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("ResolveHotelID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveHotelID() = %q, want %q", got, tt.want)
			}
			if up.searchCalls != tt.wantSearchs {
				t.Errorf("search calls = %d, want %d", up.searchCalls, tt.wantSearchs)
			}
		})
	}
}
