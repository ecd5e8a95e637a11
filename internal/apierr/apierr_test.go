package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestStatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not configured", NotConfigured("XOTELO_NOT_CONFIGURED", "missing"), http.StatusServiceUnavailable, "XOTELO_NOT_CONFIGURED"},
		{"upstream", Upstream("XOTELO_UPSTREAM", errors.New("boom")), http.StatusBadGateway, "XOTELO_UPSTREAM"},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("BOOKING_NOT_FOUND", "Booking not found")), http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{"plain error", errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.wantStatus {
				t.Errorf("StatusOf = %d, want %d", got, tt.wantStatus)
			}
			if got := CodeOf(tt.err); got != tt.wantCode {
				t.Errorf("CodeOf = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("XOTELO_API_KEY is not configured.")
	e := New(http.StatusServiceUnavailable, "X", cause)
	if e.Error() != cause.Error() {
		t.Errorf("Error() = %q", e.Error())
	}
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find cause")
	}
	if got := New(http.StatusNotFound, "", nil).Error(); got != "api error (404)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestResponseOf(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantCode    string
	}{
		{"api error", NotFound("BOOKING_NOT_FOUND", "Booking not found"), "Booking not found", "BOOKING_NOT_FOUND"},
		{"wrapped", fmt.Errorf("subject: %w", Forbidden("FORBIDDEN", "Token subject does not match requested user.")), "Token subject does not match requested user.", "FORBIDDEN"},
		{"internal hidden", errors.New("pq: connection refused"), "Internal server error", "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResponseOf(tt.err, now)
			if got.Message != tt.wantMessage || got.ErrorCode != tt.wantCode {
				t.Errorf("ResponseOf = %+v", got)
			}
			if got.Timestamp != "2025-01-02T03:04:05Z" {
				t.Errorf("Timestamp = %s", got.Timestamp)
			}
		})
	}
}
