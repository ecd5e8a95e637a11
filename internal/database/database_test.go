package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ashwinyue/travel-planner/internal/logger"
)

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestGormLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{"error logged", gormlogger.Warn, time.Now(), errors.New("boom"), "sql failed", zapcore.ErrorLevel},
		{"slow query", gormlogger.Warn, time.Now().Add(-time.Second), nil, "slow sql", zapcore.WarnLevel},
		{"info traces every query", gormlogger.Info, time.Now(), nil, "sql", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := observed()
			newGormLogger(log, tt.level).Trace(context.Background(), tt.begin, sql, tt.err)
			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("entries = %d, want 1", len(entries))
			}
			if entries[0].Message != tt.wantMsg || entries[0].Level != tt.wantLevel {
				t.Errorf("entry = %s/%s", entries[0].Level, entries[0].Message)
			}
		})
	}
}

func TestGormLogger_Quiet(t *testing.T) {
	sql := func() (string, int64) { return "SELECT 1", 0 }

	log, logs := observed()
	l := newGormLogger(log, gormlogger.Warn)
	l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now(), sql, nil)
	l.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	l.Info(context.Background(), "migrating %s", "user_activities")

	if n := logs.Len(); n != 0 {
		t.Errorf("logged %d entries, want 0", n)
	}
}
