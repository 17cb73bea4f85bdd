package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != INFO {
		t.Errorf("Expected default level INFO, got %v", config.Level)
	}

	if config.RetentionDays != 7 {
		t.Errorf("Expected retention days 7, got %d", config.RetentionDays)
	}

	if !strings.HasSuffix(config.LogDir, filepath.Join("Logs", "MuteBar")) {
		t.Errorf("Unexpected log directory: %s", config.LogDir)
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if result := tt.level.String(); result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"TRACE", DEBUG, false},
		{"info", INFO, false},
		{"", INFO, false},
		{" warn ", WARN, false},
		{"warning", WARN, false},
		{"error", ERROR, false},
		{"loud", INFO, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func readToday(t *testing.T, dir string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, FileName(time.Now())))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestNew(t *testing.T) {
	tempDir := t.TempDir()

	logger, err := New(Config{LogDir: tempDir, Level: INFO, RetentionDays: 7})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logPath := filepath.Join(tempDir, FileName(time.Now()))
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Errorf("Log file was not created: %s", logPath)
	}
}

func TestLogging(t *testing.T) {
	tempDir := t.TempDir()

	logger, err := New(Config{LogDir: tempDir, Level: DEBUG, RetentionDays: 7})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debug("Debug message")
	logger.Info("Info message %d", 2)
	logger.Warn("Warn message")
	logger.Error("Error message")

	logContent := readToday(t, tempDir)

	for _, want := range []string{
		"[DEBUG]", "Debug message",
		"[INFO]", "Info message 2",
		"[WARN]", "Warn message",
		"[ERROR]", "Error message",
	} {
		if !strings.Contains(logContent, want) {
			t.Errorf("%q not found in log", want)
		}
	}
}

func TestLogLevel(t *testing.T) {
	tempDir := t.TempDir()

	logger, err := New(Config{LogDir: tempDir, Level: WARN, RetentionDays: 7})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debug("Debug message")
	logger.Info("Info message")
	logger.Warn("Warn message")
	logger.Error("Error message")

	logContent := readToday(t, tempDir)

	if strings.Contains(logContent, "Debug message") {
		t.Error("Debug message should not be logged at WARN level")
	}
	if strings.Contains(logContent, "Info message") {
		t.Error("Info message should not be logged at WARN level")
	}
	if !strings.Contains(logContent, "Warn message") {
		t.Error("Warn message not found in log")
	}
	if !strings.Contains(logContent, "Error message") {
		t.Error("Error message not found in log")
	}
}

func TestSetLevel(t *testing.T) {
	logger, err := New(Config{LogDir: t.TempDir(), Level: INFO, RetentionDays: 7})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.GetLevel() != INFO {
		t.Errorf("Expected initial level INFO, got %v", logger.GetLevel())
	}

	logger.SetLevel(DEBUG)

	if logger.GetLevel() != DEBUG {
		t.Errorf("Expected level DEBUG, got %v", logger.GetLevel())
	}
}

func TestDiscardAndNil(t *testing.T) {
	// Neither of these may panic
	Discard().Error("dropped %s", "message")

	var nilLogger *Logger
	nilLogger.Info("dropped")
}

func TestCleanOldLogs(t *testing.T) {
	tempDir := t.TempDir()
	tenDaysAgo := time.Now().AddDate(0, 0, -10)

	oldLogPath := filepath.Join(tempDir, FileName(tenDaysAgo))
	foreignLogPath := filepath.Join(tempDir, "other-app.log")

	for _, p := range []string{oldLogPath, foreignLogPath} {
		if err := os.WriteFile(p, []byte("old log"), 0644); err != nil {
			t.Fatalf("Failed to create old log file: %v", err)
		}
		if err := os.Chtimes(p, tenDaysAgo, tenDaysAgo); err != nil {
			t.Fatalf("Failed to change file times: %v", err)
		}
	}

	logger, err := New(Config{LogDir: tempDir, Level: INFO, RetentionDays: 7})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(oldLogPath); !os.IsNotExist(err) {
		t.Error("Old log file should have been deleted")
	}

	if _, err := os.Stat(foreignLogPath); err != nil {
		t.Error("Log files of other applications must be left alone")
	}

	if _, err := os.Stat(filepath.Join(tempDir, FileName(time.Now()))); os.IsNotExist(err) {
		t.Error("Current log file should exist")
	}
}
