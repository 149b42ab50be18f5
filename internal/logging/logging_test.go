package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "neonpong")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "score", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info message filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "score=3") {
		t.Errorf("expected warn message with fields, got %q", out)
	}
	if !strings.Contains(out, "neonpong") {
		t.Errorf("expected prefix in output, got %q", out)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", ""); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pong.log")

	logger, closeFn, err := Open(path, "debug", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("round started")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "round started") {
		t.Errorf("expected log line in file, got %q", string(data))
	}
}

func TestOpen_Discard(t *testing.T) {
	logger, closeFn, err := Open("", "info", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("nowhere")
	if err := closeFn(); err != nil {
		t.Errorf("expected nil close error, got %v", err)
	}
}
