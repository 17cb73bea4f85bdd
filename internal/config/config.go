package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
// A loaded Config is never mutated; reloads produce a new value.
type Config struct {
	Hotkey           HotkeyConfig `json:"hotkey" yaml:"hotkey"`
	QuitHotkey       HotkeyConfig `json:"quit_hotkey" yaml:"quit_hotkey"` // empty key = not registered
	ThrottleWindowMS int          `json:"throttle_window_ms" yaml:"throttle_window_ms"`
	HideDelayMS      int          `json:"hide_delay_ms" yaml:"hide_delay_ms"`
	TickIntervalMS   int          `json:"tick_interval_ms" yaml:"tick_interval_ms"`
	PollIntervalMS   int          `json:"poll_interval_ms" yaml:"poll_interval_ms"`
	EnforceMute      bool         `json:"enforce_mute" yaml:"enforce_mute"`
	UILanguage       string       `json:"ui_language" yaml:"ui_language"` // "ja" or "en"
	LogLevel         string       `json:"log_level" yaml:"log_level"`
}

// HotkeyConfig holds hotkey configuration
type HotkeyConfig struct {
	Ctrl  bool   `json:"ctrl" yaml:"ctrl"`
	Shift bool   `json:"shift" yaml:"shift"`
	Alt   bool   `json:"alt" yaml:"alt"`
	Cmd   bool   `json:"cmd" yaml:"cmd"`
	Key   string `json:"key" yaml:"key"` // e.g., "A", "Space"
}

// Enabled reports whether a key is configured
func (h HotkeyConfig) Enabled() bool {
	return h.Key != ""
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Hotkey: HotkeyConfig{
			Shift: true,
			Cmd:   true,
			Key:   "A",
		},
		ThrottleWindowMS: 200,
		HideDelayMS:      1000,
		TickIntervalMS:   50,
		PollIntervalMS:   50,
		EnforceMute:      true,
		UILanguage:       "en",
		LogLevel:         "info",
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, "Library", "Application Support", "MuteBar", "config.json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load loads configuration from the specified path.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// ホットキー設定の検証と修正
	if config.Hotkey.Key == "" {
		config.Hotkey.Key = DefaultConfig().Hotkey.Key
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to the specified path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ThrottleWindow returns the poll admission window
func (c *Config) ThrottleWindow() time.Duration {
	return time.Duration(c.ThrottleWindowMS) * time.Millisecond
}

// HideDelay returns the overlay auto-hide delay
func (c *Config) HideDelay() time.Duration {
	return time.Duration(c.HideDelayMS) * time.Millisecond
}

// TickInterval returns the coordination loop cadence
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// PollInterval returns the pointer poll cadence
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Validate validates all configuration fields
func (c *Config) Validate() error {
	if c.ThrottleWindowMS < 10 || c.ThrottleWindowMS > 10000 {
		return fmt.Errorf("invalid throttle_window_ms: %d (must be between 10 and 10000)", c.ThrottleWindowMS)
	}

	if c.HideDelayMS < 100 || c.HideDelayMS > 60000 {
		return fmt.Errorf("invalid hide_delay_ms: %d (must be between 100 and 60000)", c.HideDelayMS)
	}

	if c.TickIntervalMS < 1 || c.TickIntervalMS > 1000 {
		return fmt.Errorf("invalid tick_interval_ms: %d (must be between 1 and 1000)", c.TickIntervalMS)
	}

	if c.PollIntervalMS < 1 || c.PollIntervalMS > 10000 {
		return fmt.Errorf("invalid poll_interval_ms: %d (must be between 1 and 10000)", c.PollIntervalMS)
	}

	if c.UILanguage != "ja" && c.UILanguage != "en" {
		return fmt.Errorf("invalid ui_language: %s (must be 'ja' or 'en')", c.UILanguage)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn or error)", c.LogLevel)
	}

	if c.QuitHotkey.Enabled() && c.QuitHotkey == c.Hotkey {
		return fmt.Errorf("quit_hotkey must differ from hotkey")
	}

	return nil
}
