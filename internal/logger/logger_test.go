package logger

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_DevelopmentMode(t *testing.T) {
	logger := New("development")

	if logger == nil {
		t.Fatal("Expected logger to be created")
	}
	if logger.GetZerolog() == nil {
		t.Error("Expected zerolog instance to be available")
	}
	if logger.GetZerolog().GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level in development, got %s", logger.GetZerolog().GetLevel())
	}
}

func TestNew_ProductionMode(t *testing.T) {
	logger := New("production")

	if logger == nil {
		t.Fatal("Expected logger to be created")
	}
	if logger.GetZerolog().GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level in production, got %s", logger.GetZerolog().GetLevel())
	}
}

func TestNop(t *testing.T) {
	logger := Nop()

	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	// Must not panic on any level.
	logger.Debug("debug", nil)
	logger.Info("info", map[string]interface{}{"key": "value"})
	logger.Warn("warn", nil)
	logger.Error("error", errors.New("boom"), nil)
}

func TestWith_AddsFields(t *testing.T) {
	logger := Nop()
	child := logger.With(map[string]interface{}{"service": "scraper"})

	if child == nil {
		t.Fatal("Expected child logger")
	}
	if child == logger {
		t.Error("Expected a new logger instance")
	}
}

func TestWithRequestID(t *testing.T) {
	logger := Nop()
	child := logger.WithRequestID("req-123")

	if child == nil {
		t.Fatal("Expected child logger")
	}
	child.Info("message with request id", nil)
}
