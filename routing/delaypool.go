package routing

import (
	"time"

	"github.com/keke1008/meshnet/poll"
)

// DelayPoolCapacity bounds how many received routing frames can be
// pending expiration at once, per spec.md §4.7.
const DelayPoolCapacity = 8

// delayedFrame pairs a parsed routing frame with its expiration delay.
type delayedFrame struct {
	frame Frame
	delay poll.Delay
}

// DelayPool reorders received routing frames by a cost-derived
// expiration instant rather than arrival order, per spec.md §5 ("The
// routing delay pool reorders frames by expiration time, not arrival
// time"). Capacity is bounded; a linear scan is used rather than a
// true min-heap since the bound is tiny (8 entries), mirroring the
// broker's own small bounded-queue style (link/queue.go).
type DelayPool struct {
	entries []delayedFrame
}

// NewDelayPool creates an empty pool.
func NewDelayPool() *DelayPool {
	return &DelayPool{entries: make([]delayedFrame, 0, DelayPoolCapacity)}
}

// Push schedules f to expire after cost's derived duration. It reports
// false without scheduling anything if the pool is already at
// capacity; the caller should drop the frame in that case.
func (p *DelayPool) Push(now time.Time, cost Cost, f Frame) bool {
	if len(p.entries) >= DelayPoolCapacity {
		return false
	}
	p.entries = append(p.entries, delayedFrame{
		frame: f,
		delay: poll.NewDelay(now, cost.Duration()),
	})
	return true
}

// PopExpired removes and returns every entry whose delay has elapsed,
// in the order they were scheduled.
func (p *DelayPool) PopExpired(now time.Time) []Frame {
	var expired []Frame
	kept := p.entries[:0]
	for _, e := range p.entries {
		if e.delay.Poll(now).IsReady() {
			expired = append(expired, e.frame)
		} else {
			kept = append(kept, e)
		}
	}
	p.entries = kept
	return expired
}

// Len reports how many frames are currently pending expiration.
func (p *DelayPool) Len() int {
	return len(p.entries)
}
