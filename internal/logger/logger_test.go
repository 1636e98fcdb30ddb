// ABOUTME: Tests for logger initialization.
// ABOUTME: Verifies log directory creation and nil-safe helpers.
package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	if err := Init(Config{DataDir: dataDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if _, err := os.Stat(filepath.Join(dataDir, "logs")); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}

	Warn("disk almost full", "pct", 91)
	Debug("not written at warn level")

	data, err := os.ReadFile(filepath.Join(dataDir, "logs", "habits.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "disk almost full") {
		t.Errorf("expected warn message in log, got %q", data)
	}
	if strings.Contains(string(data), "not written") {
		t.Error("debug message written at warn level")
	}
}

func TestInitDebug(t *testing.T) {
	dataDir := t.TempDir()

	if err := Init(Config{Debug: true, DataDir: dataDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Debug("debug line")

	data, err := os.ReadFile(filepath.Join(dataDir, "logs", "habits.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "debug line") {
		t.Error("expected debug message in debug mode")
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
