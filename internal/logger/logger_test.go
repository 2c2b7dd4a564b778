package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Logger.GetLevel() != log.WarnLevel {
		t.Errorf("expected warn level by default, got %v", Logger.GetLevel())
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want log.Level
	}{
		{name: "debug", cfg: Config{Debug: true}, want: log.DebugLevel},
		{name: "console", cfg: Config{Console: true}, want: log.InfoLevel},
		{name: "debug wins over console", cfg: Config{Debug: true, Console: true}, want: log.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ConfigDir = t.TempDir()
			if err := Init(tt.cfg); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if Logger.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", Logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestNewWritesKeyvals(t *testing.T) {
	var buf bytes.Buffer
	Logger = New(&buf, log.InfoLevel, false)
	defer func() { Logger = nil }()

	Warn("skipping malformed completion", "habit", "h1", "raw", "bogus")

	out := buf.String()
	for _, want := range []string{"skipping malformed completion", "habit=h1", "raw=bogus", "dailypunch"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
