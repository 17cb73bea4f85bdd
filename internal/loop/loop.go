// Package loop is the single-threaded dispatcher that keeps the UI in step
// with the aggregate mute state.
//
// Each tick drains, without blocking, at most one pending poll, one menu
// event and one shortcut event, then any deferred hide signal. Only the
// idle wait between ticks blocks.
package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yok-tottii/MuteBar/internal/logger"
	"github.com/yok-tottii/MuteBar/internal/ratelimit"
	"github.com/yok-tottii/MuteBar/internal/scheduler"
	"github.com/yok-tottii/MuteBar/internal/trigger"
)

// ErrSourceClosed is returned by Run when a trigger source channel is closed
var ErrSourceClosed = errors.New("trigger source closed")

// Controller is the aggregate mute state owner
type Controller interface {
	Muted() bool
	Toggle() (bool, error)
	SetAll(muted bool) error
	Reassert() error
}

// UI receives state changes. It must not block.
type UI interface {
	Update(muted bool)
	Hide()
	DetectAndReposition()
}

// Sources are the trigger streams polled on every tick. A nil channel is never ready.
type Sources struct {
	Menu     <-chan trigger.Kind
	Shortcut <-chan trigger.Kind
	Poll     <-chan time.Time
}

// State is the dispatcher state
type State int

const (
	Idle State = iota
	Dispatch
	Exit
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Dispatch:
		return "Dispatch"
	case Exit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Config holds loop timing and behaviour
type Config struct {
	TickInterval   time.Duration
	ThrottleWindow time.Duration
	HideDelay      time.Duration
	// EnforceMute re-mutes every device on each admitted poll while muted
	EnforceMute bool
	// Limiter overrides the limiter built from ThrottleWindow
	Limiter *ratelimit.Limiter
	// OnError is told about aggregate failures so the user can be alerted
	OnError func(error)
}

// DefaultConfig returns the default loop configuration
func DefaultConfig() Config {
	return Config{
		TickInterval:   50 * time.Millisecond,
		ThrottleWindow: ratelimit.DefaultWindow,
		HideDelay:      scheduler.DefaultDelay,
		EnforceMute:    true,
	}
}

// Loop coordinates triggers, the controller and the UI
type Loop struct {
	ctrl     Controller
	ui       UI
	src      Sources
	cfg      Config
	log      *logger.Logger
	limiter  *ratelimit.Limiter
	hide     chan struct{}
	deferred *scheduler.Deferred
	cancel   context.CancelFunc
	state    State
}

// New creates a loop. Call Run, or Tick followed by Close.
func New(ctrl Controller, ui UI, src Sources, cfg Config, log *logger.Logger) *Loop {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.New(cfg.ThrottleWindow)
	}

	ctx, cancel := context.WithCancel(context.Background())
	hide := make(chan struct{}, 8)

	return &Loop{
		ctrl:     ctrl,
		ui:       ui,
		src:      src,
		cfg:      cfg,
		log:      log,
		limiter:  limiter,
		hide:     hide,
		deferred: scheduler.New(ctx, cfg.HideDelay, hide),
		cancel:   cancel,
		state:    Idle,
	}
}

// State returns the current dispatcher state
func (l *Loop) State() State {
	return l.state
}

// HidesScheduled returns how many deferred hides have been scheduled
func (l *Loop) HidesScheduled() int64 {
	return l.deferred.Scheduled()
}

// Run ticks until a quit trigger, a closed source, or ctx cancellation.
// Cancellation is handled like a quit: devices are muted before returning.
// A mute that failed on every device is returned even after a clean quit.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()

	ticker := time.NewTicker(l.cfg.TickInterval)
	defer ticker.Stop()

	l.log.Info("Coordination loop started (tick=%v)", l.cfg.TickInterval)

	for {
		select {
		case <-ctx.Done():
			l.log.Info("Coordination loop cancelled")
			if err := l.quit(); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
		}

		if done, err := l.Tick(); done {
			l.log.Info("Coordination loop finished")
			return err
		}
	}
}

// Tick performs one dispatch pass. done is true once the loop reached Exit.
func (l *Loop) Tick() (done bool, err error) {
	if l.state == Exit {
		return true, nil
	}
	l.state = Dispatch

	select {
	case _, ok := <-l.src.Poll:
		if !ok {
			return l.fail("poll")
		}
		l.poll()
	default:
	}

	quit := false
	for _, s := range []struct {
		name string
		ch   <-chan trigger.Kind
	}{
		{"menu", l.src.Menu},
		{"shortcut", l.src.Shortcut},
	} {
		select {
		case kind, ok := <-s.ch:
			if !ok {
				return l.fail(s.name)
			}
			l.log.Debug("Trigger %v from %s", kind, s.name)
			switch kind {
			case trigger.ToggleRequested:
				l.toggle()
			case trigger.QuitRequested:
				quit = true
			case trigger.PollTick:
				l.poll()
			}
		default:
		}
	}

	select {
	case <-l.hide:
		if l.ctrl.Muted() {
			l.log.Debug("Stale hide signal ignored")
		} else {
			l.ui.Hide()
		}
	default:
	}

	if quit {
		return true, l.quit()
	}

	l.state = Idle
	return false, nil
}

// Close abandons pending deferred hides
func (l *Loop) Close() {
	l.cancel()
	l.deferred.Wait()
}

func (l *Loop) poll() {
	if err := l.limiter.Accept(); err != nil {
		return
	}

	if l.cfg.EnforceMute {
		if err := l.ctrl.Reassert(); err != nil {
			l.log.Debug("Mute re-assert failed: %v", err)
		}
	}
	l.ui.DetectAndReposition()
}

func (l *Loop) toggle() {
	muted, err := l.ctrl.Toggle()
	if err != nil {
		l.log.Error("Toggle failed: %v", err)
		if l.cfg.OnError != nil {
			l.cfg.OnError(err)
		}
		return
	}

	l.log.Info("Microphone muted=%v", muted)
	l.ui.Update(muted)
	if !muted {
		l.deferred.Schedule()
	}
}

// quit mutes everything and enters Exit. The mute failure is returned rather
// than passed to OnError; the caller decides how to alert before exiting.
func (l *Loop) quit() error {
	l.log.Info("Quit requested, muting all devices")
	err := l.ctrl.SetAll(true)
	if err != nil {
		l.log.Error("Mute on quit failed: %v", err)
		err = fmt.Errorf("mute on quit: %w", err)
	}
	l.ui.Update(l.ctrl.Muted())
	l.state = Exit
	return err
}

func (l *Loop) fail(source string) (bool, error) {
	l.log.Error("Trigger source %q closed, shutting down", source)
	closed := fmt.Errorf("%w: %s", ErrSourceClosed, source)
	if err := l.quit(); err != nil {
		return true, errors.Join(closed, err)
	}
	return true, closed
}
