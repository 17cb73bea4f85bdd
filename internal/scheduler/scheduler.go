// Package scheduler posts delayed one-shot signals into a channel
// without blocking the goroutine that schedules them.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDelay is the overlay auto-hide grace period
const DefaultDelay = time.Second

// Deferred sends one value on its output channel Delay after each Schedule call.
// There is no cancellation per call; receivers must re-validate every signal
// against current state when it arrives.
type Deferred struct {
	ctx       context.Context
	delay     time.Duration
	out       chan<- struct{}
	wg        sync.WaitGroup
	scheduled atomic.Int64
}

// New creates a scheduler posting to out. Pending tasks are abandoned when ctx is done.
func New(ctx context.Context, delay time.Duration, out chan<- struct{}) *Deferred {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Deferred{
		ctx:   ctx,
		delay: delay,
		out:   out,
	}
}

// Delay returns the configured delay
func (d *Deferred) Delay() time.Duration {
	return d.delay
}

// Schedule starts a task that sleeps once and then posts a signal
func (d *Deferred) Schedule() {
	d.scheduled.Add(1)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		timer := time.NewTimer(d.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-d.ctx.Done():
			return
		}

		select {
		case d.out <- struct{}{}:
		case <-d.ctx.Done():
		}
	}()
}

// Scheduled returns how many signals have been scheduled so far
func (d *Deferred) Scheduled() int64 {
	return d.scheduled.Load()
}

// Wait blocks until every scheduled task has posted or been abandoned
func (d *Deferred) Wait() {
	d.wg.Wait()
}
