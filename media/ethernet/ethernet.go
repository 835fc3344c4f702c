// Package ethernet implements the Ethernet-attached UDP port driver
// (spec.md §4.6): random locally-administered MAC generation, a DHCP
// attempt, shield-presence detection, a debounced link-state check with
// one-shot JustDown handling, and chunked send/receive over a UDP
// datagram socket. Grounded on
// original_source/arduino/lib/media/src/media/ethernet/{constants,shield,interactor,receiver,sender}.h.
package ethernet

import (
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/link"
	"github.com/keke1008/meshnet/poll"
)

// Logger is the subset of logging this package needs.
type Logger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
}

// CheckLinkUpInterval is how often the port re-checks link status, per
// spec.md §4.6.
const CheckLinkUpInterval = 5 * time.Second

// UDPPort is the fixed listener port, per spec.md §4.6.
const UDPPort uint16 = 8888

// MaxTransferrableBytesPerTick bounds how many payload bytes the send
// and receive paths move per Execute call, per spec.md §4.6.
const MaxTransferrableBytesPerTick = 64

// Port drives one Ethernet shield attached via a [Socket]. The zero
// value is not usable; construct with [NewPort].
type Port struct {
	socket Socket
	handle link.Handle
	pool   *frame.Pool
	logger Logger

	hasShield bool
	isLinkUp  bool
	debounce  *poll.Debounce

	tx *sendState
	rx *receiveState
}

// generateLocallyAdministeredMAC builds a random MAC address with the
// locally-administered bit set and the unicast bit cleared, per
// spec.md §4.6.
func generateLocallyAdministeredMAC(rng *poll.Rand) [6]byte {
	var mac [6]byte
	for i := range mac {
		mac[i] = byte(rng.Intn(256))
	}
	mac[0] |= 0b00000010
	mac[0] &^= 0b00000001
	return mac
}

// NewPort constructs a Port, synchronously attempting DHCP and
// detecting shield presence through socket — a one-shot hardware
// bring-up step, mirroring original_source's EthernetShield
// constructor rather than something that needs to suspend across
// ticks.
func NewPort(now time.Time, rng *poll.Rand, socket Socket, handle link.Handle, pool *frame.Pool, logger Logger) *Port {
	mac := generateLocallyAdministeredMAC(rng)
	dhcpOK, hasShield := socket.Begin(mac)
	if !dhcpOK {
		logger.Warnf("ethernet: failed to configure address using DHCP")
	}
	if !hasShield {
		logger.Warnf("ethernet: shield not found")
	}
	return &Port{
		socket:    socket,
		handle:    handle,
		pool:      pool,
		logger:    logger,
		hasShield: hasShield,
		isLinkUp:  hasShield && socket.LinkUp(),
		debounce:  poll.NewDebounce(now, CheckLinkUpInterval),
	}
}

// AddressType implements link.Port.
func (p *Port) AddressType() addr.Type {
	return addr.UDP
}

// Execute advances the link-state check and, while the link is up,
// the send and receive paths.
func (p *Port) Execute(now time.Time) {
	if !p.hasShield {
		return
	}

	if p.debounce.Poll(now).IsPending() {
		if p.isLinkUp {
			p.runTraffic()
		}
		return
	}

	wasUp := p.isLinkUp
	p.isLinkUp = p.socket.LinkUp()
	if wasUp && !p.isLinkUp {
		p.onLinkDown()
		return
	}
	if p.isLinkUp {
		p.runTraffic()
	}
}

// onLinkDown drops any in-flight send/receive state on a Up→Down
// transition, per spec.md §4.6's "one JustDown observation".
func (p *Port) onLinkDown() {
	if p.tx != nil {
		p.tx.abort()
		p.tx = nil
	}
	if p.rx != nil {
		p.rx.abort()
		p.rx = nil
	}
}

func (p *Port) runTraffic() {
	p.executeSend()
	p.executeReceive()
}

func (p *Port) executeSend() {
	if p.tx == nil {
		f, ok := p.handle.PollGetSendRequestedFrame(addr.UDP, nil).Unwrap()
		if !ok {
			return
		}
		destination, ok := f.Remote.Unicast()
		if !ok {
			p.logger.Warnf("ethernet: dropping broadcast send request, no wire encoding")
			f.Reader.Release()
			return
		}
		ip, port := destination.IPPort()
		if !p.socket.BeginPacket(ip, port) {
			f.Reader.Release()
			return
		}
		p.tx = newSendState(f)
	}
	if p.tx.poll(p.socket) {
		p.tx = nil
	}
}

func (p *Port) executeReceive() {
	if p.rx == nil {
		total := p.socket.ParsePacket()
		if total == 0 {
			return
		}
		bodyLength := total - frame.Size
		if bodyLength < 0 || bodyLength > frame.MaxPayloadLength {
			return
		}
		var protocolByte [1]byte
		if p.socket.Read(protocolByte[:]) != 1 {
			return
		}
		writer, ok := p.pool.RequestWriter(bodyLength).Unwrap()
		if !ok {
			p.logger.Infof("ethernet: no buffer available, discarding received frame")
			return
		}
		ip, port := p.socket.RemoteIP(), p.socket.RemotePort()
		p.rx = newReceiveState(frame.ProtocolNumber(protocolByte[0]), addr.NewUDPAddress(ip, port), writer, bodyLength)
	}

	received, done := p.rx.poll(p.socket)
	if !done {
		return
	}
	p.rx = nil
	f := frame.LinkFrame{
		ProtocolNumber: received.protocol,
		Remote:         addr.NewUnicastLinkAddress(received.remote),
		Reader:         received.reader,
	}
	if p.handle.PollDispatchReceivedFrame(f).IsPending() {
		p.logger.Warnf("ethernet: dropping received frame, broker queue full")
		f.Reader.Release()
	}
}

// SetLocalIP forwards to the underlying network interface, per
// spec.md §4.6's upper-layer IP/subnet setters.
func (p *Port) SetLocalIP(ip [4]byte) error {
	return p.socket.SetLocalIP(ip)
}

// SetSubnetMask forwards to the underlying network interface.
func (p *Port) SetSubnetMask(mask [4]byte) error {
	return p.socket.SetSubnetMask(mask)
}

// LocalIP returns the port's current IPv4 address, if DHCP succeeded.
func (p *Port) LocalIP() ([4]byte, bool) {
	return p.socket.LocalIP()
}
