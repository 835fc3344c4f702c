package ethernet

import "github.com/keke1008/meshnet/frame"

// sendState drives one outbound frame: write the protocol byte, then
// the payload in chunks of up to [MaxTransferrableBytesPerTick] bytes,
// then flush. The socket's BeginPacket has already been called
// successfully by the time this is constructed, per
// original_source's sender.h (which checks beginPacket before ever
// writing the protocol byte).
type sendState struct {
	reader          *frame.Reader
	protocol        byte
	protocolWritten bool
}

func newSendState(f frame.LinkFrame) *sendState {
	return &sendState{reader: f.Reader, protocol: byte(f.ProtocolNumber)}
}

// poll writes one tick's worth of bytes and reports whether the frame
// has been fully sent (and the packet flushed).
func (s *sendState) poll(socket Socket) bool {
	if !s.protocolWritten {
		socket.Write([]byte{s.protocol})
		s.protocolWritten = true
	}

	remaining := s.reader.ReadableLength()
	if remaining > 0 {
		chunk := remaining
		if chunk > MaxTransferrableBytesPerTick {
			chunk = MaxTransferrableBytesPerTick
		}
		socket.Write(s.reader.ReadBufferUnchecked(chunk))
	}

	if !s.reader.IsAllRead() {
		return false
	}
	socket.EndPacket()
	s.reader.Release()
	return true
}

// abort releases the frame buffer without flushing, used when the
// link goes down mid-send.
func (s *sendState) abort() {
	s.reader.Release()
}
