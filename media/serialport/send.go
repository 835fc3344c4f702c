package serialport

import (
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

type txPhase int

const (
	txPreamble txPhase = iota
	txHeader
	txPayload
)

// sendState emits preamble, header (protocol/source/destination/length),
// then the frame payload, per spec.md §4.5's transmit path.
type sendState struct {
	phase    txPhase
	preamble *media.ByteWriter
	header   *media.ByteWriter
	payload  *media.FramePayloadWriter
	reader   *frame.Reader
}

func newSendState(f frame.LinkFrame, source byte, destination byte) *sendState {
	preamble := make([]byte, preambleLength)
	for i := range preamble {
		preamble[i] = preambleByte
	}
	header := []byte{
		byte(f.ProtocolNumber),
		source,
		destination,
		byte(f.Reader.BufferLength()),
	}
	return &sendState{
		phase:    txPreamble,
		preamble: media.NewByteWriter(preamble),
		header:   media.NewByteWriter(header),
		reader:   f.Reader,
	}
}

func (s *sendState) poll(stream media.Stream) poll.Poll[poll.Void] {
	if s.phase == txPreamble {
		if s.preamble.Poll(stream).IsPending() {
			return poll.Pending[poll.Void]()
		}
		s.phase = txHeader
	}

	if s.phase == txHeader {
		if s.header.Poll(stream).IsPending() {
			return poll.Pending[poll.Void]()
		}
		s.payload = media.NewFramePayloadWriter(s.reader)
		s.phase = txPayload
	}

	if s.payload.Poll(stream).IsPending() {
		return poll.Pending[poll.Void]()
	}
	s.reader.Release()
	return poll.ReadyVoid()
}
