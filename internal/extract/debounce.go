package extract

import (
	"sync"
	"time"
)

// DefaultDebounce is how long input must be quiet before a capture fires.
const DefaultDebounce = 1000 * time.Millisecond

// Debouncer coalesces rapid input edits into a single capture trigger. Only
// the newest submitted value ever fires, and a value that already fired is
// never re-dispatched. Used for URL and identifier entry; file input does
// not debounce and should call Now directly.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(value string)

	timer  *time.Timer
	latest string
	fired  string
}

// NewDebouncer returns a debouncer that calls fn with the settled value.
// A non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration, fn func(value string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Submit records a new input value and restarts the quiet-period timer.
// Re-submitting the value that last fired is a no-op, so a settled capture
// is not repeated when the input is touched without changing.
func (d *Debouncer) Submit(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if value == d.fired {
		if d.timer != nil {
			d.timer.Stop()
			d.timer = nil
		}
		d.latest = value
		return
	}

	d.latest = value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(value) })
}

// fire dispatches value unless a newer submission superseded it while the
// timer was pending.
func (d *Debouncer) fire(value string) {
	d.mu.Lock()
	if value != d.latest || value == d.fired {
		d.mu.Unlock()
		return
	}
	d.fired = value
	d.timer = nil
	d.mu.Unlock()

	d.fn(value)
}

// Now dispatches value immediately, bypassing the quiet period. Any pending
// timer is cancelled.
func (d *Debouncer) Now(value string) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.latest = value
	if value == d.fired {
		d.mu.Unlock()
		return
	}
	d.fired = value
	d.mu.Unlock()

	d.fn(value)
}

// Stop cancels any pending dispatch.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
