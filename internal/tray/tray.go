package tray

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/getlantern/systray"

	"github.com/yok-tottii/MuteBar/internal/overlay"
	"github.com/yok-tottii/MuteBar/internal/trigger"
)

// Labels resolves menu and tooltip text
type Labels interface {
	Translate(key string) string
	TranslateWithFormat(key string, params map[string]string) string
}

// Manager manages the system tray icon and menu
type Manager struct {
	mu      sync.Mutex
	ready   bool
	muted   bool
	devices []string
	title   string

	labels          Labels
	onReadyCallback func()
	onMicCheck      func()
	onExit          func()

	events       *trigger.Adapter
	menuToggle   *systray.MenuItem
	menuDevices  *systray.MenuItem
	menuMicCheck *systray.MenuItem
	menuQuit     *systray.MenuItem
	deviceItems  []*systray.MenuItem

	// Icon cache
	iconMuted   []byte
	iconUnmuted []byte
}

// Config holds tray manager configuration
type Config struct {
	Labels     Labels
	Muted      bool   // state shown before the first SetMuted
	OnReady    func() // Called when systray is ready for initialization
	OnMicCheck func()
	OnExit     func() // Called after the tray has shut down
}

// NewManager creates a new tray manager
func NewManager(config Config) *Manager {
	m := &Manager{
		muted:           config.Muted,
		labels:          config.Labels,
		onReadyCallback: config.OnReady,
		onMicCheck:      config.OnMicCheck,
		onExit:          config.OnExit,
		events:          trigger.NewAdapter(4),
	}

	// Load icons once at initialization
	m.iconMuted = loadIconData("mic_off.png", renderIcon(true))
	m.iconUnmuted = loadIconData("mic_on.png", renderIcon(false))

	return m
}

// Run starts the system tray (blocking call, must be on the main thread)
func (m *Manager) Run() {
	systray.Run(m.onReady, m.handleExit)
}

// Events returns toggle and quit requests raised from the menu
func (m *Manager) Events() <-chan trigger.Kind {
	return m.events.Events()
}

// onReady is called when systray is ready
func (m *Manager) onReady() {
	m.mu.Lock()
	m.menuToggle = systray.AddMenuItem("", "Toggle microphone mute")
	m.menuDevices = systray.AddMenuItem("", "Controlled input devices")
	m.menuMicCheck = systray.AddMenuItem("", "Measure the input level for one second")

	systray.AddSeparator()

	m.menuQuit = systray.AddMenuItem("", "Mute and quit")

	trigger.Bind[struct{}](m.events, m.menuToggle.ClickedCh, trigger.ToggleRequested)
	trigger.Bind[struct{}](m.events, m.menuQuit.ClickedCh, trigger.QuitRequested)
	go m.handleMicCheck(m.menuMicCheck)

	m.ready = true
	m.applyLocked()
	m.rebuildDevicesLocked()
	m.mu.Unlock()

	// Call the OnReady callback if provided
	if m.onReadyCallback != nil {
		m.onReadyCallback()
	}
}

// handleExit is called when systray is exiting. onExit runs first so a
// still-running consumer can finish before the menu channel closes.
func (m *Manager) handleExit() {
	if m.onExit != nil {
		m.onExit()
	}
	m.events.Close()
}

// RequestQuit raises QuitRequested as if Quit had been clicked
func (m *Manager) RequestQuit() bool {
	return m.events.Send(trigger.QuitRequested)
}

func (m *Manager) handleMicCheck(item *systray.MenuItem) {
	for range item.ClickedCh {
		if m.onMicCheck != nil {
			m.onMicCheck()
		}
	}
}

// SetMuted updates icon, toggle label, and tooltip
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.applyLocked()
}

// Muted returns the state the tray currently shows
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// SetDevices replaces the read-only device submenu
func (m *Manager) SetDevices(names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices = append([]string(nil), names...)
	m.applyLocked()
	m.rebuildDevicesLocked()
}

// Refresh re-applies all labels, e.g. after a language change
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyLocked()
}

// applyLocked pushes the current state to systray once it is running
func (m *Manager) applyLocked() {
	if !m.ready {
		return
	}

	if m.muted {
		systray.SetTemplateIcon(m.iconMuted, m.iconMuted)
	} else {
		systray.SetTemplateIcon(m.iconUnmuted, m.iconUnmuted)
	}
	systray.SetTooltip(m.tooltipLocked())
	m.menuToggle.SetTitle(m.toggleLabelLocked())
	m.menuDevices.SetTitle(m.labels.TranslateWithFormat("menu.devices", map[string]string{
		"count": strconv.Itoa(len(m.devices)),
	}))
	m.menuMicCheck.SetTitle(m.labels.Translate("menu.mic_check"))
	m.menuQuit.SetTitle(m.labels.Translate("menu.quit"))
}

func (m *Manager) rebuildDevicesLocked() {
	if !m.ready {
		return
	}

	// Remove existing device menu items
	for _, item := range m.deviceItems {
		item.Hide()
	}
	m.deviceItems = nil

	for _, name := range m.devices {
		item := m.menuDevices.AddSubMenuItem(name, "")
		item.Disable()
		m.deviceItems = append(m.deviceItems, item)
	}
}

// ToggleLabel names the action the toggle item performs
func (m *Manager) ToggleLabel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.toggleLabelLocked()
}

func (m *Manager) toggleLabelLocked() string {
	if m.muted {
		return m.labels.Translate("menu.unmute")
	}
	return m.labels.Translate("menu.mute")
}

// Tooltip describes the state and how many devices are controlled
func (m *Manager) Tooltip() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tooltipLocked()
}

func (m *Manager) tooltipLocked() string {
	key := "tooltip.unmuted"
	if m.muted {
		key = "tooltip.muted"
	}
	return m.labels.TranslateWithFormat(key, map[string]string{
		"count": strconv.Itoa(len(m.devices)),
	})
}

// Show implements overlay.Surface by writing the text next to the icon.
// The menu bar has a fixed position, so the frame is ignored.
func (m *Manager) Show(text string, _ overlay.Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = text
	if m.ready {
		systray.SetTitle(text)
	}
}

// Move implements overlay.Surface
func (m *Manager) Move(overlay.Rect) {}

// Hide implements overlay.Surface
func (m *Manager) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = ""
	if m.ready {
		systray.SetTitle("")
	}
}

// Title returns the text currently shown next to the icon
func (m *Manager) Title() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.title
}

// Quit quits the system tray
func (m *Manager) Quit() {
	systray.Quit()
}

// loadIconData loads an icon from assets/icon next to the executable.
// If the file cannot be loaded, it returns the fallback icon.
func loadIconData(filename string, fallback []byte) []byte {
	exe, err := os.Executable()
	if err != nil {
		return fallback
	}

	iconPath := filepath.Join(filepath.Dir(exe), "assets", "icon", filename)
	data, err := os.ReadFile(iconPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("警告: アイコンファイルを読み込めませんでした (%s): %v", iconPath, err)
		}
		return fallback
	}

	return data
}
