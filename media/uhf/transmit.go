package uhf

import (
	"time"

	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

type txPhase int

const (
	txCarrierSense txPhase = iota
	txCarrierBackoff
	txSendCommand
	txWaitAck
	txWaitInfoResponse
)

// backoff bounds the random delay before retrying a busy carrier
// sense, per spec.md §4.3 ("back off a short random duration"). The
// source leaves the exact range to the implementation.
const (
	backoffMin = 10 * time.Millisecond
	backoffMax = 50 * time.Millisecond
)

// transmitState drives carrier-sense-then-transmit for one outbound
// frame: poll `@CS`, retry with jittered backoff while the medium is
// busy, then emit `@DT` with the frame body and wait out the modem's
// post-ack information-report window before releasing the port, per
// spec.md §4.3.
type transmitState struct {
	frame       frame.LinkFrame
	destination byte
	rng         *poll.Rand

	phase   txPhase
	writer  *media.ByteWriter
	reader  *media.FixedResponseReader
	backoff poll.Delay
	wait    poll.Delay
}

func newTransmitState(now time.Time, f frame.LinkFrame, destination byte, rng *poll.Rand) *transmitState {
	return &transmitState{
		frame:       f,
		destination: destination,
		rng:         rng,
		phase:       txCarrierSense,
		writer:      media.NewStringWriter("@CS\r\n"),
		reader:      media.NewFixedResponseReader(2),
	}
}

func (s *transmitState) poll(now time.Time, stream media.Stream, logger Logger) poll.Poll[poll.Void] {
	if s.phase == txCarrierBackoff {
		if s.backoff.Poll(now).IsPending() {
			return poll.Pending[poll.Void]()
		}
		s.phase = txCarrierSense
		s.writer = media.NewStringWriter("@CS\r\n")
		s.reader = media.NewFixedResponseReader(2)
	}

	if s.phase == txCarrierSense {
		if s.writer.Poll(stream).IsPending() {
			return poll.Pending[poll.Void]()
		}
		body, ok := s.reader.Poll(stream).Unwrap()
		if !ok {
			return poll.Pending[poll.Void]()
		}
		if string(body) == "EN" {
			s.backoff = poll.NewDelay(now, s.rng.DurationBetween(backoffMin, backoffMax))
			s.phase = txCarrierBackoff
			return poll.Pending[poll.Void]()
		}
		s.phase = txSendCommand
		s.writer = media.NewByteWriter(s.buildCommand())
	}

	if s.phase == txSendCommand {
		if s.writer.Poll(stream).IsPending() {
			return poll.Pending[poll.Void]()
		}
		s.phase = txWaitAck
		s.reader = media.NewFixedResponseReader(2)
	}

	if s.phase == txWaitAck {
		if _, ok := s.reader.Poll(stream).Unwrap(); !ok {
			return poll.Pending[poll.Void]()
		}
		s.wait = poll.NewDelay(now, informationResponseWait)
		s.phase = txWaitInfoResponse
	}

	if s.phase == txWaitInfoResponse {
		if s.wait.Poll(now).IsPending() {
			return poll.Pending[poll.Void]()
		}
		s.frame.Reader.Release()
		return poll.ReadyVoid()
	}

	return poll.Pending[poll.Void]()
}

// buildCommand renders "@DT<length_hex><protocol><payload>/R<dest_hex>\r\n".
func (s *transmitState) buildCommand() []byte {
	length := s.frame.Reader.BufferLength() + frame.Size
	lengthHex := media.EncodeHexByte(byte(length))
	destHex := media.EncodeHexByte(s.destination)

	buf := make([]byte, 0, 3+2+1+s.frame.Reader.ReadableLength()+2+2+2)
	buf = append(buf, "@DT"...)
	buf = append(buf, lengthHex[:]...)
	buf = append(buf, byte(s.frame.ProtocolNumber))
	if s.frame.Reader.ReadableLength() > 0 {
		buf = append(buf, s.frame.Reader.ReadBufferUnchecked(s.frame.Reader.ReadableLength())...)
	}
	buf = append(buf, "/R"...)
	buf = append(buf, destHex[:]...)
	buf = append(buf, "\r\n"...)
	return buf
}
