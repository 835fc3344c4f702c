package serialport

import (
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/media"
)

type rxPhase int

const (
	rxPreamble rxPhase = iota
	rxHeader
	rxAllocate
	rxPayload
	rxDiscard
)

// receiveState parses one framed-bus frame: preamble, header, and
// payload, per spec.md §4.5. If the header's destination does not
// match the port's self-address the payload is discarded byte-count
// times instead of buffered; if it matches but the frame pool has no
// slot available the payload is discarded too.
type receiveState struct {
	phase         rxPhase
	preambleCount int
	header        *media.ByteReader
	payload       *media.FramePayloadReader
	discardRemain int

	protocol frame.ProtocolNumber
	source   byte
	length   int
	reader   *frame.Reader
}

func newReceiveState() *receiveState {
	return &receiveState{phase: rxPreamble, header: media.NewByteReader(headerLength)}
}

// poll advances parsing by one tick and returns true once a frame has
// been fully consumed this or a prior tick: either a non-nil reader is
// ready to dispatch (s.reader != nil) or the frame was discarded
// (s.reader == nil). self is consulted (and, on the first ever header,
// possibly set) to decide whether the destination is ours.
func (s *receiveState) poll(stream media.Stream, self *selfAddress, pool *frame.Pool) bool {
	if s.phase == rxPreamble {
		for stream.ReadableCount() > 0 {
			b := stream.ReadByte()
			if b == preambleByte {
				s.preambleCount++
			} else {
				s.preambleCount = 0
			}
			if s.preambleCount >= preambleLength {
				s.phase = rxHeader
				break
			}
		}
		if s.phase == rxPreamble {
			return false
		}
	}

	if s.phase == rxHeader {
		body, ok := s.header.Poll(stream).Unwrap()
		if !ok {
			return false
		}
		s.protocol = frame.ProtocolNumber(body[0])
		s.source = body[1]
		destination := body[2]
		s.length = int(body[3])

		if !self.adoptOrMatch(destination) {
			s.discardRemain = s.length
			s.phase = rxDiscard
		} else {
			s.phase = rxAllocate
		}
	}

	if s.phase == rxAllocate {
		writer, ok := pool.RequestWriter(s.length).Unwrap()
		if !ok {
			s.discardRemain = s.length
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
			return false
		}
		return true
	}

	if s.phase == rxPayload {
		reader, ok := s.payload.Poll(stream).Unwrap()
		if !ok {
			return false
		}
		s.reader = reader
		return true
	}

	return false
}
