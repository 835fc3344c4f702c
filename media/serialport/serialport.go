// Package serialport implements the preamble-synchronised framed-bus
// port driver (spec.md §4.5): an 8-byte `0xAA` preamble, a fixed
// header of protocol/source/destination/length, and a self-address
// that is either fixed up front or learned from the first inbound
// frame. Grounded on
// original_source/lib/net/src/net/link/serial/{layout,receiver,sender,executor}.h.
package serialport

import (
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/link"
	"github.com/keke1008/meshnet/media"
)

// Logger is the subset of logging this package needs.
type Logger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
}

// preambleLength is the number of consecutive 0xAA bytes that must
// arrive before a header is read, per spec.md §4.5's layout table.
const preambleLength = 8

const preambleByte byte = 0b10101010

// headerLength is protocol + source + destination + length, each 1 byte.
const headerLength = 4

// Port drives one framed-serial bus attached via a [media.Stream]. The
// zero value is not usable; construct with [NewPort].
type Port struct {
	stream media.Stream
	handle link.Handle
	pool   *frame.Pool
	logger Logger

	self selfAddress

	rx *receiveState
	tx *sendState
}

// NewPort constructs a Port whose self-address is not yet known; it
// will be adopted from the first received frame's destination field
// unless TryInitializeLocalAddress is called first.
func NewPort(stream media.Stream, handle link.Handle, pool *frame.Pool, logger Logger) *Port {
	return &Port{stream: stream, handle: handle, pool: pool, logger: logger, rx: newReceiveState()}
}

// TryInitializeLocalAddress fixes the port's self-address before the
// first frame arrives, per spec.md §4.5's bootstrap rule. It has no
// effect once the address has already been set (either this way or by
// the bootstrap).
func (p *Port) TryInitializeLocalAddress(addr byte) bool {
	if p.self.has {
		return false
	}
	p.self.value = addr
	p.self.has = true
	return true
}

// LocalAddress returns the port's self-address, if known yet.
func (p *Port) LocalAddress() (byte, bool) {
	return p.self.value, p.self.has
}

// AddressType implements link.Port.
func (p *Port) AddressType() addr.Type {
	return addr.Serial
}

// Execute advances the receive and send state machines by one tick.
// Both run independently: the bus is full-duplex byte-wise (a real
// UART has separate TX/RX lines), unlike the half-duplex AT-modem
// drivers that must serialize command and report traffic onto one
// logical channel.
func (p *Port) Execute(now time.Time) {
	if p.rx.poll(p.stream, &p.self, p.pool) {
		p.deliverReceived()
		p.rx = newReceiveState()
	}

	if p.tx == nil {
		p.tryBeginSend()
	}
	if p.tx != nil && p.tx.poll(p.stream).IsReady() {
		p.tx = nil
	}
}

func (p *Port) deliverReceived() {
	if p.rx.reader == nil {
		return
	}
	remote := addr.NewSerialAddress(p.rx.source)
	f := frame.LinkFrame{
		ProtocolNumber: p.rx.protocol,
		Remote:         addr.NewUnicastLinkAddress(remote),
		Reader:         p.rx.reader,
	}
	if p.handle.PollDispatchReceivedFrame(f).IsPending() {
		p.logger.Warnf("serialport: dropping received frame, broker queue full")
		p.rx.reader.Release()
	}
}

// tryBeginSend pulls the next Serial-addressed send-requested frame
// from the broker, if any, and starts a [sendState] for it. A
// broadcast destination has no dedicated wire encoding on this medium;
// per spec.md §4.5's plain unicast header, such a request is dropped.
func (p *Port) tryBeginSend() {
	if !p.self.has {
		return
	}
	f, ok := p.handle.PollGetSendRequestedFrame(addr.Serial, nil).Unwrap()
	if !ok {
		return
	}
	destination, ok := f.Remote.Unicast()
	if !ok {
		p.logger.Warnf("serialport: dropping broadcast send request, no wire encoding")
		f.Reader.Release()
		return
	}
	p.tx = newSendState(f, p.self.value, destination.Body()[0])
}
