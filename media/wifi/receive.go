package wifi

import (
	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

// decimalField accumulates ASCII decimal digits until a terminator
// byte is seen, used for the `+IPD,<length>,<ip>,<port>:` header's two
// numeric fields. Any non-digit byte before the terminator marks the
// field malformed.
type decimalField struct {
	value      int
	hasDigit   bool
	overflowed bool
}

// feed processes one byte. done reports whether terminator was just
// consumed; when done, ok reports whether the field parsed cleanly.
func (d *decimalField) feed(b, terminator byte) (done bool, ok bool) {
	if b == terminator {
		return true, d.hasDigit && !d.overflowed
	}
	if b < '0' || b > '9' {
		d.overflowed = true
		return false, false
	}
	d.value = d.value*10 + int(b-'0')
	d.hasDigit = true
	if d.value > frame.MaxPayloadLength*4 {
		d.overflowed = true
	}
	return false, false
}

type rxPhase int

const (
	rxLength rxPhase = iota
	rxIP
	rxPort
	rxProtocol
	rxPayload
	rxDiscard
)

// receiveState parses one `+IPD,<length>,<ip>,<port>:<protocol><payload>`
// notification, per spec.md §4.4. The `+IPD,` prefix itself has
// already been consumed by the caller before this is constructed.
type receiveState struct {
	pool  *frame.Pool
	phase rxPhase

	length decimalField
	ipRaw  []byte
	ip     [4]byte
	port   decimalField

	remote   addr.Address
	protocol frame.ProtocolNumber

	payloadReader    *media.FramePayloadReader
	discardRemaining int
}

func newReceiveState(pool *frame.Pool) *receiveState {
	return &receiveState{pool: pool, phase: rxLength, ipRaw: make([]byte, 0, 15)}
}

// poll returns Ready(nil) for a malformed header or a pool-exhausted
// frame (discarded per spec.md §4.3's "discard on pool exhaustion"
// convention, extended here to the Wi-Fi receive path), or Ready with
// a populated reader on success. After Ready, remote/protocol name the
// frame's origin.
func (s *receiveState) poll(stream media.Stream) poll.Poll[*frame.Reader] {
	for {
		switch s.phase {
		case rxLength:
			if stream.ReadableCount() == 0 {
				return poll.Pending[*frame.Reader]()
			}
			done, ok := s.length.feed(stream.ReadByte(), ',')
			if !done {
				if s.length.overflowed {
					return poll.Ready[*frame.Reader](nil)
				}
				continue
			}
			if !ok {
				return poll.Ready[*frame.Reader](nil)
			}
			s.phase = rxIP

		case rxIP:
			if stream.ReadableCount() == 0 {
				return poll.Pending[*frame.Reader]()
			}
			b := stream.ReadByte()
			if b == ',' {
				ip, ok := parseIPv4(s.ipRaw)
				if !ok {
					return poll.Ready[*frame.Reader](nil)
				}
				s.ip = ip
				s.phase = rxPort
				continue
			}
			if len(s.ipRaw) >= 15 {
				return poll.Ready[*frame.Reader](nil)
			}
			s.ipRaw = append(s.ipRaw, b)

		case rxPort:
			if stream.ReadableCount() == 0 {
				return poll.Pending[*frame.Reader]()
			}
			done, ok := s.port.feed(stream.ReadByte(), ':')
			if !done {
				if s.port.overflowed {
					return poll.Ready[*frame.Reader](nil)
				}
				continue
			}
			if !ok {
				return poll.Ready[*frame.Reader](nil)
			}
			s.remote = addr.NewUDPAddress(s.ip, uint16(s.port.value))
			s.phase = rxProtocol

		case rxProtocol:
			if stream.ReadableCount() == 0 {
				return poll.Pending[*frame.Reader]()
			}
			s.protocol = frame.ProtocolNumber(stream.ReadByte())
			payloadLen := s.length.value - frame.Size
			if payloadLen < 0 {
				return poll.Ready[*frame.Reader](nil)
			}
			writer, ok := s.pool.RequestWriter(payloadLen).Unwrap()
			if !ok {
				s.discardRemaining = payloadLen
				s.phase = rxDiscard
				continue
			}
			s.payloadReader = media.NewFramePayloadReader(writer)
			s.phase = rxPayload

		case rxPayload:
			reader, done := s.payloadReader.Poll(stream).Unwrap()
			if !done {
				return poll.Pending[*frame.Reader]()
			}
			return poll.Ready(reader)

		case rxDiscard:
			for s.discardRemaining > 0 && stream.ReadableCount() > 0 {
				stream.ReadByte()
				s.discardRemaining--
			}
			if s.discardRemaining > 0 {
				return poll.Pending[*frame.Reader]()
			}
			return poll.Ready[*frame.Reader](nil)
		}
	}
}
