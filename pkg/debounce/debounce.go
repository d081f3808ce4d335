// Package debounce coalesces bursts of input into a single dispatch after a
// quiescence window, the pattern behind the search box: typing faster than
// the window issues exactly one query, for the final value typed.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Dispatcher debounces Submit calls. Each Submit restarts the quiescence
// timer and invalidates any pending dispatch; when the timer fires, fn runs
// with the last submitted value and a generation token. Apply-side staleness
// is handled by Latest: a completion whose generation is no longer current
// must be dropped, so only the most recently dispatched query's result ever
// reaches view state.
type Dispatcher struct {
	window time.Duration
	fn     func(ctx context.Context, generation uint64, value string)

	mu         sync.Mutex
	timer      *time.Timer
	value      string
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	closed     bool
}

func NewDispatcher(window time.Duration, fn func(ctx context.Context, generation uint64, value string)) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		window: window,
		fn:     fn,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit records the value and arms the quiescence timer. A pending timer is
// reset, so only the last value in a burst dispatches.
func (d *Dispatcher) Submit(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.value = value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Dispatcher) fire() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.generation++
	generation := d.generation
	value := d.value
	ctx := d.ctx
	d.mu.Unlock()

	d.fn(ctx, generation, value)
}

// Latest reports whether the generation is still the most recent dispatch.
// Results carrying a stale generation must not be applied.
func (d *Dispatcher) Latest(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return generation == d.generation
}

// Flush dispatches a pending value immediately. Used on teardown paths where
// waiting out the window loses the final keystrokes.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	timer := d.timer
	d.timer = nil
	d.mu.Unlock()
	if timer != nil && timer.Stop() {
		d.fire()
	}
}

// Close cancels any pending dispatch and the context handed to fn.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.cancel()
}
