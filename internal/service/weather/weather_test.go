package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/testutil"
)

func TestClient_Forecast(t *testing.T) {
	var gotPath, gotDate string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDate = r.URL.Query().Get("dt")
		w.Write([]byte(`{"location":{"name":"Paris"}}`))
	}))
	defer ts.Close()

	cfg := config.WeatherConfig{APIKey: "k", BaseURL: "http://api.weatherapi.com/v1"}
	client := NewClient(cfg, testutil.NewTestClient(ts))

	tests := []struct {
		name     string
		date     string
		wantPath string
	}{
		{"current weather without date", "", "/v1/current.json"},
		{"forecast with date", "2025-06-01", "/v1/forecast.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := client.Forecast(context.Background(), "Paris", tt.date)
			if err != nil {
				t.Fatalf("Forecast() error = %v", err)
			}
			if gotPath != tt.wantPath || gotDate != tt.date {
				t.Errorf("path = %s dt = %s", gotPath, gotDate)
			}
			if string(out) != `{"location":{"name":"Paris"}}` {
				t.Errorf("unexpected body %s", out)
			}
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient(config.WeatherConfig{BaseURL: "http://api.weatherapi.com/v1"}, nil)
	_, err := client.Forecast(context.Background(), "Paris", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err.Error() != "Weather service is not configured." {
		t.Errorf("message = %q", err.Error())
	}
}
