// Package ratelimit implements a sliding-window admission gate.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// DefaultWindow is the admission window used for pointer polling
const DefaultWindow = 200 * time.Millisecond

// LimitError is returned by Accept when the window is full
type LimitError struct {
	// RetryAt is when the oldest admitted event leaves the window
	RetryAt time.Time
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limited until %s", e.RetryAt.Format("15:04:05.000"))
}

// Limiter admits at most Limit events per trailing Window
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	hits   []time.Time
	now    func() time.Time
}

// Option configures a Limiter
type Option func(*Limiter)

// WithLimit sets how many events may be admitted per window (default 1)
func WithLimit(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a limiter with the given window. A non-positive window uses DefaultWindow.
func New(window time.Duration, opts ...Option) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{
		window: window,
		limit:  1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.hits = make([]time.Time, 0, l.limit)
	return l
}

// Window returns the configured window length
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Available purges expired entries and reports whether an event would be admitted
func (l *Limiter) Available() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.purge(l.now())
	return len(l.hits) < l.limit
}

// Accept admits the event and records it, or returns a *LimitError
func (l *Limiter) Accept() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.purge(now)
	if len(l.hits) >= l.limit {
		return &LimitError{RetryAt: l.hits[0].Add(l.window)}
	}

	l.hits = append(l.hits, now)
	return nil
}

// purge drops entries older than the window; hits is ordered oldest first
func (l *Limiter) purge(now time.Time) {
	n := 0
	for n < len(l.hits) && now.Sub(l.hits[n]) >= l.window {
		n++
	}
	if n > 0 {
		l.hits = append(l.hits[:0], l.hits[n:]...)
	}
}
