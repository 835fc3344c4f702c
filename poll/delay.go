package poll

import "time"

// Delay is a one-shot timer: it becomes Ready the first time Poll is
// called with a time at or after the deadline, and stays Ready on every
// later call. The zero value is already expired; use [NewDelay] to
// construct a meaningful deadline.
type Delay struct {
	deadline time.Time
}

// NewDelay creates a [Delay] that fires duration after now.
func NewDelay(now time.Time, duration time.Duration) Delay {
	return Delay{deadline: now.Add(duration)}
}

// Poll reports whether the delay has elapsed.
func (d Delay) Poll(now time.Time) Poll[Void] {
	if now.Before(d.deadline) {
		return Pending[Void]()
	}
	return ReadyVoid()
}

// Remaining returns how long is left before the deadline, clamped to
// zero. Useful for arming an external ticker/timer at the right moment
// instead of busy-polling.
func (d Delay) Remaining(now time.Time) time.Duration {
	if d.deadline.Before(now) {
		return 0
	}
	return d.deadline.Sub(now)
}

// Debounce is a recurring timer: each time the interval elapses it
// becomes Ready exactly once and immediately rearms for the next
// interval measured from the firing instant. It is the building block
// for the broker sweep tick and the Ethernet link-state poll.
type Debounce struct {
	interval time.Duration
	next     time.Time
}

// NewDebounce creates a [Debounce] whose first tick fires interval
// after now.
func NewDebounce(now time.Time, interval time.Duration) *Debounce {
	return &Debounce{interval: interval, next: now.Add(interval)}
}

// Poll reports whether the interval has elapsed, rearming on fire.
func (d *Debounce) Poll(now time.Time) Poll[Void] {
	if now.Before(d.next) {
		return Pending[Void]()
	}
	d.next = now.Add(d.interval)
	return ReadyVoid()
}

// Reset rearms the debounce to fire duration from now, discarding any
// pending tick. Used when a consumer wants to skip ahead instead of
// firing immediately (e.g. "send the next frame's deadline, not the
// generic sweep interval").
func (d *Debounce) Reset(now time.Time, duration time.Duration) {
	d.next = now.Add(duration)
}
