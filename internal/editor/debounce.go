package editor

import (
	"sync"
	"time"
)

// Debouncer delays a function until its delay has elapsed with no newer
// schedule. Superseded schedules are cancelled, never fired. The timer
// backend is injectable so tests can drive virtual time.
type Debouncer struct {
	delay time.Duration
	start func(d time.Duration, f func()) (cancel func() bool)

	mu     sync.Mutex
	cancel func() bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return newDebouncer(delay, func(d time.Duration, f func()) func() bool {
		t := time.AfterFunc(d, f)
		return t.Stop
	})
}

func newDebouncer(delay time.Duration, start func(time.Duration, func()) func() bool) *Debouncer {
	return &Debouncer{delay: delay, start: start}
}

// Schedule arms the debouncer with f, cancelling any pending schedule.
func (d *Debouncer) Schedule(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = d.start(d.delay, f)
}

// Cancel drops any pending schedule.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
