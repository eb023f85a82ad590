// Package debounce coalesces bursts of calls into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// Timer runs the most recently triggered function once Delay has passed
// without another Trigger. The function runs on the timer's goroutine;
// callers that own single-threaded state should marshal it back to their
// own loop.
type Timer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
	gen   uint64
}

// New returns a Timer with the given delay.
func New(delay time.Duration) *Timer {
	return &Timer{delay: delay}
}

// Delay returns the configured delay.
func (t *Timer) Delay() time.Duration { return t.delay }

// Trigger schedules fn, replacing and restarting any pending call.
func (t *Timer) Trigger(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.fn = fn
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

// Pending reports whether a call is scheduled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fn != nil
}

// Stop cancels the pending call, if any.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Flush runs the pending call immediately on the calling goroutine.
// It reports whether there was one.
func (t *Timer) Flush() bool {
	t.mu.Lock()
	fn := t.fn
	t.cancelLocked()
	t.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

func (t *Timer) cancelLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.fn = nil
	t.gen++
}

// fire runs fn if no Trigger, Stop or Flush happened since it was
// scheduled.
func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.fn == nil {
		t.mu.Unlock()
		return
	}
	fn := t.fn
	t.fn = nil
	t.timer = nil
	t.mu.Unlock()

	fn()
}
