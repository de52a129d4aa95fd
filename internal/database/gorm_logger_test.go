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
)

func TestGormLogger_Trace(t *testing.T) {
	statement := func() (string, int64) { return "SELECT * FROM products", 3 }

	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantLevel zapcore.Level
		wantMsg   string
		wantNone  bool
	}{
		{name: "success logged at debug", level: gormlogger.Info, begin: time.Now(), wantLevel: zapcore.DebugLevel, wantMsg: "Query executed"},
		{name: "failure logged at error", level: gormlogger.Info, begin: time.Now(), err: errors.New("connection refused"), wantLevel: zapcore.ErrorLevel, wantMsg: "Query failed"},
		{name: "record not found is not an error", level: gormlogger.Info, begin: time.Now(), err: gorm.ErrRecordNotFound, wantLevel: zapcore.DebugLevel, wantMsg: "Query executed"},
		{name: "slow query logged at warn", level: gormlogger.Warn, begin: time.Now().Add(-time.Second), wantLevel: zapcore.WarnLevel, wantMsg: "Slow query"},
		{name: "silent logs nothing", level: gormlogger.Silent, begin: time.Now(), err: errors.New("boom"), wantNone: true},
		{name: "warn level drops fast successes", level: gormlogger.Warn, begin: time.Now(), wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			l := NewGormLogger(zap.New(core), 200*time.Millisecond).LogMode(tt.level)

			l.Trace(context.Background(), tt.begin, statement, tt.err)

			if tt.wantNone {
				if logs.Len() != 0 {
					t.Fatalf("expected no log entries, got %d", logs.Len())
				}
				return
			}

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			if entries[0].Level != tt.wantLevel || entries[0].Message != tt.wantMsg {
				t.Fatalf("got %s %q, want %s %q", entries[0].Level, entries[0].Message, tt.wantLevel, tt.wantMsg)
			}
			if entries[0].ContextMap()["sql"] != "SELECT * FROM products" {
				t.Fatalf("sql field missing: %v", entries[0].ContextMap())
			}
		})
	}
}
