package ethernet

import (
	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
)

// receivedFrame is what a completed receiveState hands back to Port
// for dispatch.
type receivedFrame struct {
	protocol frame.ProtocolNumber
	remote   addr.Address
	reader   *frame.Reader
}

// receiveState streams one inbound datagram's body into a pool-backed
// buffer in chunks of up to [MaxTransferrableBytesPerTick] bytes, per
// original_source's receiver.h. The protocol byte and buffer
// allocation have already happened by the time this is constructed.
type receiveState struct {
	protocol frame.ProtocolNumber
	remote   addr.Address
	writer   *frame.Writer
	length   int
	written  int
}

func newReceiveState(protocol frame.ProtocolNumber, remote addr.Address, writer *frame.Writer, length int) *receiveState {
	return &receiveState{protocol: protocol, remote: remote, writer: writer, length: length}
}

// poll reads one tick's worth of bytes and reports the completed
// frame once every byte has arrived.
func (s *receiveState) poll(socket Socket) (*receivedFrame, bool) {
	remaining := s.length - s.written
	if remaining > 0 {
		chunk := remaining
		if chunk > MaxTransferrableBytesPerTick {
			chunk = MaxTransferrableBytesPerTick
		}
		buf := make([]byte, chunk)
		n := socket.Read(buf)
		if n > 0 {
			dst := s.writer.WriteBufferUnchecked(n)
			copy(dst, buf[:n])
			s.written += n
		}
	}
	if s.written < s.length {
		return nil, false
	}
	return &receivedFrame{protocol: s.protocol, remote: s.remote, reader: s.writer.CreateReader()}, true
}

// abort releases the buffer without dispatching, used when the link
// goes down mid-receive.
func (s *receiveState) abort() {
	reader := s.writer.CreateReader()
	reader.Release()
}
