// Package trigger defines the closed set of user intents the coordination
// loop reacts to, and an adapter that turns platform event channels into them.
package trigger

import (
	"sync"
)

// Kind is a user intent
type Kind int

const (
	// PollTick asks the UI to re-check pointer position
	PollTick Kind = iota
	// ToggleRequested flips the aggregate mute state
	ToggleRequested
	// QuitRequested mutes everything and ends the loop
	QuitRequested
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case PollTick:
		return "PollTick"
	case ToggleRequested:
		return "ToggleRequested"
	case QuitRequested:
		return "QuitRequested"
	default:
		return "Unknown"
	}
}

// Adapter merges platform event channels into one channel of Kinds.
// Each source is mapped to its Kind once, when it is bound.
type Adapter struct {
	out    chan Kind
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewAdapter creates an adapter whose output channel has the given buffer
func NewAdapter(buffer int) *Adapter {
	return &Adapter{
		out:  make(chan Kind, buffer),
		stop: make(chan struct{}),
	}
}

// Events returns the merged channel. It is closed by Close.
func (a *Adapter) Events() <-chan Kind {
	return a.out
}

// Bind forwards every value received on src as kind until src is closed,
// the returned unbind func is called, or the adapter is closed.
func Bind[T any](a *Adapter, src <-chan T, kind Kind) (unbind func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return func() {}
	}

	done := make(chan struct{})
	var once sync.Once
	unbind = func() { once.Do(func() { close(done) }) }

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case _, ok := <-src:
				if !ok {
					return
				}
				select {
				case a.out <- kind:
				case <-done:
					return
				case <-a.stop:
					return
				}
			case <-done:
				return
			case <-a.stop:
				return
			}
		}
	}()

	return unbind
}

// Send injects a kind directly, e.g. from a signal handler.
// It returns false once the adapter is closed.
func (a *Adapter) Send(kind Kind) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return false
	}
	select {
	case a.out <- kind:
		return true
	default:
		// Full buffer means the loop already has work queued
		return false
	}
}

// Close stops all bindings and closes the output channel
func (a *Adapter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.stop)
	a.mu.Unlock()

	a.wg.Wait()
	close(a.out)
}
