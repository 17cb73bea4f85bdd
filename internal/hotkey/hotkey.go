package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"golang.design/x/hotkey"

	"github.com/yok-tottii/MuteBar/internal/config"
	"github.com/yok-tottii/MuteBar/internal/trigger"
)

// ErrClosed is returned by Register after Close
var ErrClosed = errors.New("hotkey manager is closed")

// Binding maps one global shortcut to the intent it raises
type Binding struct {
	Modifiers []hotkey.Modifier
	Key       hotkey.Key
	Kind      trigger.Kind
}

// String returns the display form, e.g. "⇧⌘A"
func (b Binding) String() string {
	return FormatHotkey(b.Modifiers, b.Key)
}

// FromConfig converts a configured shortcut into a binding for kind
func FromConfig(hk config.HotkeyConfig, kind trigger.Kind) (Binding, error) {
	key, err := ParseKey(hk.Key)
	if err != nil {
		return Binding{}, err
	}
	return Binding{
		Modifiers: ToModifiers(hk),
		Key:       key,
		Kind:      kind,
	}, nil
}

// ToModifiers converts the modifier flags in order Ctrl, Shift, Option, Cmd
func ToModifiers(hk config.HotkeyConfig) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if hk.Ctrl {
		mods = append(mods, hotkey.ModCtrl)
	}
	if hk.Shift {
		mods = append(mods, hotkey.ModShift)
	}
	if hk.Alt {
		mods = append(mods, hotkey.ModOption)
	}
	if hk.Cmd {
		mods = append(mods, hotkey.ModCmd)
	}
	return mods
}

// registration is the part of *hotkey.Hotkey the manager drives
type registration interface {
	Register() error
	Unregister() error
	Keydown() <-chan hotkey.Event
}

type active struct {
	binding Binding
	hk      registration
	unbind  func()
}

// Manager owns the registered global shortcuts. Its event channel stays
// open across re-registration and is closed only by Close.
type Manager struct {
	adapter   *trigger.Adapter
	newHotkey func([]hotkey.Modifier, hotkey.Key) registration
	active    []active
	mu        sync.Mutex
	closed    bool
}

// New creates a manager with nothing registered
func New() *Manager {
	return &Manager{
		adapter: trigger.NewAdapter(10),
		newHotkey: func(mods []hotkey.Modifier, key hotkey.Key) registration {
			return hotkey.New(mods, key)
		},
	}
}

// Register replaces the current bindings with the given set. If any of the
// new bindings fails to register, the previous set is restored and the
// registration error is returned.
func (m *Manager) Register(bindings ...Binding) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	for i := range bindings {
		for j := i + 1; j < len(bindings); j++ {
			if hotkeyMatches(bindings[i].Modifiers, bindings[i].Key, bindings[j].Modifiers, bindings[j].Key) {
				return fmt.Errorf("duplicate hotkey %s", bindings[i])
			}
		}
	}

	previous := make([]Binding, len(m.active))
	for i, a := range m.active {
		previous[i] = a.binding
	}

	// 既存のホットキーを解除（エラーでも続行する）
	unregisterErr := m.releaseLocked()

	if err := m.registerLocked(bindings); err != nil {
		// ロールバック: 旧ホットキーを再登録
		if rollbackErr := m.registerLocked(previous); rollbackErr != nil {
			return fmt.Errorf("failed to register hotkeys and rollback failed: %w, rollback error: %v", err, rollbackErr)
		}
		return err
	}

	return unregisterErr
}

// registerLocked registers all bindings or none of them
func (m *Manager) registerLocked(bindings []Binding) error {
	for _, b := range bindings {
		hk := m.newHotkey(b.Modifiers, b.Key)
		if err := hk.Register(); err != nil {
			_ = m.releaseLocked()
			return fmt.Errorf("failed to register hotkey %s: %w", b, err)
		}
		m.active = append(m.active, active{
			binding: b,
			hk:      hk,
			unbind:  trigger.Bind(m.adapter, hk.Keydown(), b.Kind),
		})
	}
	return nil
}

func (m *Manager) releaseLocked() error {
	var errs []error
	for _, a := range m.active {
		a.unbind()
		if err := a.hk.Unregister(); err != nil {
			errs = append(errs, fmt.Errorf("failed to unregister hotkey %s: %w", a.binding, err))
		}
	}
	m.active = nil
	return errors.Join(errs...)
}

// Events returns the channel of intents raised by key presses
func (m *Manager) Events() <-chan trigger.Kind {
	return m.adapter.Events()
}

// Bindings returns a copy of the registered bindings
func (m *Manager) Bindings() []Binding {
	m.mu.Lock()
	defer m.mu.Unlock()

	bindings := make([]Binding, len(m.active))
	for i, a := range m.active {
		b := a.binding
		b.Modifiers = append([]hotkey.Modifier(nil), a.binding.Modifiers...)
		bindings[i] = b
	}
	return bindings
}

// IsRunning returns whether any hotkey is currently registered
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active) > 0
}

// Close unregisters every hotkey and closes the event channel
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	err := m.releaseLocked()
	m.mu.Unlock()

	m.adapter.Close()
	return err
}
