package observability

import (
	"context"
	"testing"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/logger"
)

func TestSampleRatio(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0.25, 0.25},
		{3, 1},
	}
	for _, tt := range tests {
		if got := SampleRatio(tt.in); got != tt.want {
			t.Errorf("SampleRatio(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitOTel_Disabled(t *testing.T) {
	shutdown := InitOTel(context.Background(), logger.Nop(), config.AppConfig{Name: "travel-planner"}, config.TracingConfig{})
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
