// Package frame implements the pool-backed frame buffer that every
// media port and the routing overlay use to stage a payload between
// "bytes are arriving on the wire" and "a complete LinkFrame is ready to
// dispatch". This is deliberately the simplest allocator that satisfies
// spec.md §3's invariants (bounded live-buffer count, frozen capacity
// once a reader exists, aliasing subreaders) — the spec calls the pool
// and codec plumbing out of core scope, so there is no third-party
// buffer-pool or serialization library pulled in here: a fixed-size
// slab with a free list is the whole job.
package frame

import (
	"errors"

	"github.com/keke1008/meshnet/poll"
)

// MaxPayloadLength is the per-medium MTU payload size, per spec.md §1/§6
// (≈254 bytes, plus the 1-byte protocol number carried alongside it,
// not inside it).
const MaxPayloadLength = 254

// DefaultPoolSize bounds the number of frame buffers live at once
// across every port and the routing overlay, per spec.md §3 ("the pool
// guarantees at most a fixed number of live buffers across sizes").
const DefaultPoolSize = 8

// ErrPoolExhausted names the pool-exhaustion error kind. [Pool.RequestWriter]
// does not return it; it reports an exhausted pool by returning Pending.
var ErrPoolExhausted = errors.New("frame: pool exhausted")

// slot is one pool-owned backing array. refs tracks how many live
// Readers (the original plus any subreaders) still need the bytes;
// the slot returns to the free list when refs drops to zero.
type slot struct {
	pool    *Pool
	backing [MaxPayloadLength]byte
	length  int
	inUse   bool
	refs    int
}

// Pool is a bounded, fixed-size-slab allocator for [Writer]/[Reader]
// pairs. The zero value is not usable; construct with [NewPool].
type Pool struct {
	slots []*slot
}

// NewPool creates a [Pool] with the given number of slots.
func NewPool(size int) *Pool {
	p := &Pool{slots: make([]*slot, size)}
	for i := range p.slots {
		p.slots[i] = &slot{pool: p}
	}
	return p
}

// RequestWriter reserves a slot capable of holding length bytes
// (length must not exceed [MaxPayloadLength]) and returns a [Writer]
// over it, or Pending if every slot is currently in use.
func (p *Pool) RequestWriter(length int) poll.Poll[*Writer] {
	if length < 0 || length > MaxPayloadLength {
		// Programming error: callers must clamp to the medium MTU
		// before ever reaching the pool.
		panic("frame: requested writer length exceeds MaxPayloadLength")
	}
	for _, s := range p.slots {
		if s.inUse {
			continue
		}
		s.inUse = true
		s.length = length
		s.refs = 0
		return poll.Ready(&Writer{slot: s})
	}
	return poll.Pending[*Writer]()
}

// RequestMaxLengthWriter is shorthand for RequestWriter(MaxPayloadLength).
func (p *Pool) RequestMaxLengthWriter() poll.Poll[*Writer] {
	return p.RequestWriter(MaxPayloadLength)
}

// release returns a slot to the free list. Called by a [Reader] once
// its (and every subreader's) refcount drops to zero.
func (p *Pool) release(s *slot) {
	s.inUse = false
	s.length = 0
}
