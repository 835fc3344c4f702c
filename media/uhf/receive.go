package uhf

import (
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

type rxPhase int

const (
	rxHeader rxPhase = iota
	rxAllocate
	rxPayload
	rxTrailer
	rxDiscard
)

// receiveState parses one unsolicited `*DR=` frame: header (2-hex
// length + 1 protocol byte), payload, and trailer (`/R` + 2-hex source
// id + `\r\n`), per spec.md §4.3. If the frame buffer pool has no slot
// available when the header names the payload length, the frame is
// discarded by draining the remaining bytes instead of dispatching it
// (spec.md §4.3's "if the pool is empty, the frame is discarded").
type receiveState struct {
	pool *frame.Pool
	phase rxPhase

	headerReader  *media.ByteReader
	payload       *media.FramePayloadReader
	trailerReader *media.ByteReader
	discardRemain int

	protocol   frame.ProtocolNumber
	payloadLen int
	reader     *frame.Reader
	source     byte
}

func newReceiveState(pool *frame.Pool) *receiveState {
	return &receiveState{pool: pool, phase: rxHeader, headerReader: media.NewByteReader(3)}
}

// poll advances parsing by one tick. It returns Ready with a non-nil
// reader once a frame is ready to dispatch, or Ready(nil) once a
// malformed or discarded frame has been fully consumed.
func (s *receiveState) poll(stream media.Stream) poll.Poll[*frame.Reader] {
	if s.phase == rxHeader {
		body, ok := s.headerReader.Poll(stream).Unwrap()
		if !ok {
			return poll.Pending[*frame.Reader]()
		}
		length, lengthOK := media.DecodeHexByte(body[0], body[1])
		if !lengthOK || int(length) < frame.Size {
			return poll.Ready[*frame.Reader](nil)
		}
		s.protocol = frame.ProtocolNumber(body[2])
		s.payloadLen = int(length) - frame.Size
		s.phase = rxAllocate
	}

	if s.phase == rxAllocate {
		writer, ok := s.pool.RequestWriter(s.payloadLen).Unwrap()
		if !ok {
			s.discardRemain = s.payloadLen + 6
			s.phase = rxDiscard
		} else {
			s.payload = media.NewFramePayloadReader(writer)
			s.phase = rxPayload
		}
	}

	if s.phase == rxDiscard {
		for s.discardRemain > 0 && stream.ReadableCount() > 0 {
			stream.ReadByte()
			s.discardRemain--
		}
		if s.discardRemain > 0 {
			return poll.Pending[*frame.Reader]()
		}
		return poll.Ready[*frame.Reader](nil)
	}

	if s.phase == rxPayload {
		reader, ok := s.payload.Poll(stream).Unwrap()
		if !ok {
			return poll.Pending[*frame.Reader]()
		}
		s.reader = reader
		s.trailerReader = media.NewByteReader(6)
		s.phase = rxTrailer
	}

	if s.phase == rxTrailer {
		trailer, ok := s.trailerReader.Poll(stream).Unwrap()
		if !ok {
			return poll.Pending[*frame.Reader]()
		}
		source, sourceOK := media.DecodeHexByte(trailer[2], trailer[3])
		if !sourceOK {
			s.reader.Release()
			return poll.Ready[*frame.Reader](nil)
		}
		s.source = source
		return poll.Ready(s.reader)
	}

	return poll.Pending[*frame.Reader]()
}
