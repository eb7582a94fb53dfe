package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize text logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := InitWithFormat(FormatJSON); err != nil {
		t.Fatalf("failed to initialize json logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := InitWithFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, FormatJSON, slog.LevelInfo)
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	l.Named("api").Info(context.Background(), "request served", String("path", "/api/health"), Int("status", 200), Error(errors.New("boom")))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "request served" {
		t.Errorf("unexpected msg: %v", rec["msg"])
	}
	if rec["component"] != "api" {
		t.Errorf("unexpected component: %v", rec["component"])
	}
	if rec["path"] != "/api/health" {
		t.Errorf("unexpected path: %v", rec["path"])
	}
	if src, _ := rec["source"].(string); !strings.Contains(src, "logger_test.go") {
		t.Errorf("source should point at the caller, got %q", src)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, FormatText, slog.LevelWarn)
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	ctx := context.Background()
	l.Debug(ctx, "hidden")
	l.Info(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn(ctx, "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
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

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Error(context.Background(), "discarded")
	l.Named("x").Warn(context.Background(), "discarded")
}

func TestSetLevelString(t *testing.T) {
	for _, lv := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
		if err := SetLevelString(lv); err != nil {
			t.Errorf("level %q rejected: %v", lv, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLevelString("info")
}
