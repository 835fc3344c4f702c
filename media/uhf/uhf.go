// Package uhf implements the UHF packet-modem port driver (spec.md
// §4.3): an AT-command state machine for an equipment-id-bearing
// half-duplex modem, covering its three-step initialization sequence,
// unsolicited `*DR=` receive headers, and carrier-sense-then-transmit
// send path. Grounded on
// original_source/arduino/lib/net/src/net/link/uhf/command/{ri,sn,ei,cs,dr,dt}.h.
package uhf

import (
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/link"
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

// Logger is the subset of logging this package needs.
type Logger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
}

// commandTimeout is the default AT command round-trip budget, per
// spec.md §4.3's "task timeout (default 3s)".
const commandTimeout = 3 * time.Second

// informationResponseWait is how long the modem needs after
// acknowledging a @DT command before the port may be handed to the
// next frame; grounded on dt.h's 20ms comment (datasheet says 6ms, the
// original pads to 20ms for the information-report window).
const informationResponseWait = 20 * time.Millisecond

// Port drives one UHF modem attached via a [media.Stream]. The zero
// value is not usable; construct with [NewPort].
type Port struct {
	stream media.Stream
	handle link.Handle
	pool   *frame.Pool
	logger Logger
	rng    *poll.Rand

	equipmentID byte
	init        *initState
	drPrefix    drPrefixMatcher

	rx *receiveState
	tx *transmitState
}

// NewPort constructs a Port. initialization begins the next time
// Execute is called.
func NewPort(now time.Time, stream media.Stream, handle link.Handle, pool *frame.Pool, logger Logger, rng *poll.Rand) *Port {
	return &Port{
		stream: stream,
		handle: handle,
		pool:   pool,
		logger: logger,
		rng:    rng,
		init:   newInitState(now),
	}
}

// AddressType implements link.Port.
func (p *Port) AddressType() addr.Type {
	return addr.UHF
}

// Execute advances the port's state machine by one tick: initializing
// if not yet initialized, otherwise servicing an in-progress transmit
// exchange to completion before starting a new one, and otherwise
// watching for an unsolicited `*DR=` receive header. A UHF modem's AT
// replies are not interleaved with unsolicited reports while a command
// is outstanding, so it is safe to let a transmit exchange own the
// stream exclusively until it finishes.
func (p *Port) Execute(now time.Time) {
	if p.init != nil {
		if p.init.poll(now, p.stream, p.logger).IsPending() {
			return
		}
		p.equipmentID = p.init.equipmentID
		p.init = nil
	}

	if p.tx != nil {
		if p.tx.poll(now, p.stream, p.logger).IsReady() {
			p.tx = nil
		}
		return
	}

	if p.rx != nil {
		if reader, done := p.rx.poll(p.stream).Unwrap(); done {
			if reader != nil {
				remote := addr.NewUHFAddress(p.rx.source)
				if p.handle.PollDispatchReceivedFrame(frame.LinkFrame{
					ProtocolNumber: p.rx.protocol,
					Remote:         addr.NewUnicastLinkAddress(remote),
					Reader:         reader,
				}).IsPending() {
					p.logger.Warnf("uhf: dropping received frame, broker queue full")
					reader.Release()
				}
			}
			p.rx = nil
		}
		return
	}

	if p.tryBeginReceive() {
		return
	}

	p.tryBeginTransmit(now)
}

// tryBeginReceive checks for the unsolicited "*DR=" prefix one byte at
// a time and, once matched, starts a [receiveState].
func (p *Port) tryBeginReceive() bool {
	if p.stream.ReadableCount() == 0 {
		return false
	}
	// Peeking isn't available on Stream, so drHeaderPrefix consumes
	// bytes as it matches; a byte that breaks the match is simply
	// dropped, matching the original's tolerance for line noise.
	for p.stream.ReadableCount() > 0 {
		b := p.stream.ReadByte()
		if !p.drPrefix.feed(b) {
			continue
		}
		p.rx = newReceiveState(p.pool)
		return true
	}
	return false
}

// tryBeginTransmit pulls the next UHF-addressed send-requested frame
// from the broker, if any, and starts a [transmitState] for it.
func (p *Port) tryBeginTransmit(now time.Time) {
	f, ok := p.handle.PollGetSendRequestedFrame(addr.UHF, nil).Unwrap()
	if !ok {
		return
	}
	destination, ok := f.Remote.Unicast()
	if !ok {
		// UHF has no broadcast wire encoding distinct from the
		// broadcast modem id; route it through the same path.
		destination = addr.NewUHFAddress(addr.UHFBroadcastID)
	}
	p.tx = newTransmitState(now, f, destination.Body()[0], p.rng)
}
