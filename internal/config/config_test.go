package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, config.Hotkey.Shift)
	assert.True(t, config.Hotkey.Cmd)
	assert.Equal(t, "A", config.Hotkey.Key)
	assert.False(t, config.QuitHotkey.Enabled())
	assert.Equal(t, 200*time.Millisecond, config.ThrottleWindow())
	assert.Equal(t, time.Second, config.HideDelay())
	assert.Equal(t, 50*time.Millisecond, config.TickInterval())
	assert.Equal(t, 50*time.Millisecond, config.PollInterval())
	assert.True(t, config.EnforceMute)
	assert.Equal(t, "en", config.UILanguage)
	assert.NoError(t, config.Validate())
}

func TestSaveAndLoadJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.json")

	config := DefaultConfig()
	config.UILanguage = "ja"
	config.QuitHotkey = HotkeyConfig{Ctrl: true, Cmd: true, Key: "Q"}
	require.NoError(t, config.Save(configPath))

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestSaveAndLoadYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	config := DefaultConfig()
	config.HideDelayMS = 2500
	config.EnforceMute = false
	require.NoError(t, config.Save(configPath))

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestLoadNonexistent(t *testing.T) {
	config, err := Load("/nonexistent/path/config.json")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	content := "ui_language: ja\nhotkey:\n  ctrl: true\n  shift: false\n  alt: false\n  cmd: false\n  key: M\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	config, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "ja", config.UILanguage)
	assert.Equal(t, HotkeyConfig{Ctrl: true, Key: "M"}, config.Hotkey)
	assert.Equal(t, 200, config.ThrottleWindowMS)
	assert.True(t, config.EnforceMute)
}

func TestLoadEmptyKeyFallsBack(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"hotkey": {"cmd": true, "key": ""}}`), 0644))

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "A", config.Hotkey.Key)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0644))
	_, err := Load(broken)
	assert.ErrorContains(t, err, "failed to parse config file")

	outOfRange := filepath.Join(dir, "range.json")
	require.NoError(t, os.WriteFile(outOfRange, []byte(`{"hide_delay_ms": 5}`), 0644))
	_, err = Load(outOfRange)
	assert.ErrorContains(t, err, "hide_delay_ms")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"throttle too small", func(c *Config) { c.ThrottleWindowMS = 1 }, "throttle_window_ms"},
		{"hide delay too long", func(c *Config) { c.HideDelayMS = 120000 }, "hide_delay_ms"},
		{"tick zero", func(c *Config) { c.TickIntervalMS = 0 }, "tick_interval_ms"},
		{"poll zero", func(c *Config) { c.PollIntervalMS = 0 }, "poll_interval_ms"},
		{"ui language", func(c *Config) { c.UILanguage = "fr" }, "ui_language"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"same quit hotkey", func(c *Config) { c.QuitHotkey = c.Hotkey }, "quit_hotkey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, DefaultConfig().Save(configPath))

	changes := make(chan *Config, 8)
	w, err := NewWatcher(configPath, func(c *Config) { changes <- c }, func(error) {})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	updated := DefaultConfig()
	updated.UILanguage = "ja"
	require.NoError(t, updated.Save(configPath))

	require.Eventually(t, func() bool {
		for {
			select {
			case c := <-changes:
				if c.UILanguage == "ja" {
					return true
				}
			default:
				return false
			}
		}
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcherReportsInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, DefaultConfig().Save(configPath))

	errs := make(chan error, 8)
	w, err := NewWatcher(configPath, func(*Config) {}, func(err error) { errs <- err })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(configPath, []byte(`{"ui_language": "xx"}`), 0644))

	// A rewrite may surface as several events, the first seeing a truncated file.
	timeout := time.After(2 * time.Second)
	for {
		select {
		case err := <-errs:
			if strings.Contains(err.Error(), "ui_language") {
				return
			}
		case <-timeout:
			t.Fatal("invalid config was not reported")
		}
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.json"), nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcherStopAfterFailedStart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	w, err := NewWatcher(filepath.Join(dir, "config.json"), nil, nil)
	require.NoError(t, err)

	require.Error(t, w.Start(), "the config directory does not exist yet")
	assert.NoError(t, w.Stop())
	assert.ErrorIs(t, w.watcher.Add(t.TempDir()), fsnotify.ErrClosed)
}
