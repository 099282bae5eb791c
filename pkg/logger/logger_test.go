package logger

import (
	"context"
	"errors"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Re-initialization replaces the global without error.
	if err := Init(); err != nil {
		t.Fatalf("failed to re-initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after re-initialization")
	}
}

func TestLoggerBasic(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	logger := Get()
	logger.Info(ctx, "test message", String("k", "v"))
	logger.Warn(ctx, "test warning", Int("n", 7), Float64("f", 0.5))
	logger.Error(ctx, "test error", Error(errors.New("boom")), Any("payload", map[string]int{"a": 1}))
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		if err := SetLevelString(lvl); err != nil {
			t.Fatalf("failed to set level %q: %v", lvl, err)
		}
	}

	if err := SetLevelString("nonsense"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
