package uhf

import (
	"bytes"
	"time"

	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

type initPhase int

const (
	phaseRION initPhase = iota
	phaseSN
	phaseEI
)

// initState drives the three-step UHF initialization sequence
// (spec.md §4.3): enable route-info reporting, query the serial
// number to learn the equipment id, then program that id back into
// the modem. Any step timing out restarts the whole sequence from the
// top, with a warning logged, and so does an unexpected body in the
// RION or SN step. The EI step accepts any reply line as its
// acknowledgement.
type initState struct {
	phase    initPhase
	writer   *media.ByteWriter
	snReader *media.FixedResponseReader
	line     media.LineAccumulator
	timeout  poll.Delay

	equipmentID byte
}

func newInitState(now time.Time) *initState {
	return &initState{
		phase:   phaseRION,
		writer:  media.NewStringWriter("@RION\r\n"),
		timeout: poll.NewDelay(now, commandTimeout),
	}
}

func (s *initState) reset(now time.Time) {
	*s = *newInitState(now)
}

func (s *initState) advanceToSN(now time.Time) {
	s.phase = phaseSN
	s.writer = media.NewStringWriter("@SN\r\n")
	s.snReader = nil
	s.timeout = poll.NewDelay(now, commandTimeout)
}

func (s *initState) advanceToEI(now time.Time, equipmentID byte) {
	hex := media.EncodeHexByte(equipmentID)
	s.phase = phaseEI
	s.writer = media.NewByteWriter([]byte("@EI" + string(hex[:]) + "\r\n"))
	s.equipmentID = equipmentID
	s.timeout = poll.NewDelay(now, commandTimeout)
}

func (s *initState) readLine(stream media.Stream) ([]byte, bool) {
	for stream.ReadableCount() > 0 {
		b := stream.ReadByte()
		line, ok, overflowed := s.line.Feed(b)
		if overflowed {
			s.line.Reset()
			continue
		}
		if ok {
			return line, true
		}
	}
	return nil, false
}

// poll drives the sequence forward by one tick. It returns Ready once
// every step has completed and s.equipmentID holds the learned id.
func (s *initState) poll(now time.Time, stream media.Stream, logger Logger) poll.Poll[poll.Void] {
	if s.timeout.Poll(now).IsReady() {
		logger.Warnf("uhf: initialization step timed out, restarting")
		s.reset(now)
		return poll.Pending[poll.Void]()
	}

	if s.writer.Poll(stream).IsPending() {
		return poll.Pending[poll.Void]()
	}

	switch s.phase {
	case phaseRION:
		line, ok := s.readLine(stream)
		if !ok {
			return poll.Pending[poll.Void]()
		}
		if !bytes.Contains(line, []byte("*RI")) {
			logger.Warnf("uhf: unexpected RION acknowledgement %q, restarting", line)
			s.reset(now)
			return poll.Pending[poll.Void]()
		}
		s.advanceToSN(now)
		s.writer.Poll(stream)
		return poll.Pending[poll.Void]()

	case phaseSN:
		if s.snReader == nil {
			s.snReader = media.NewFixedResponseReader(9)
		}
		body, ok := s.snReader.Poll(stream).Unwrap()
		if !ok {
			return poll.Pending[poll.Void]()
		}
		id, ok := media.DecodeHexByte(body[7], body[8])
		if !ok {
			logger.Warnf("uhf: unexpected serial number body %q, restarting", body)
			s.reset(now)
			return poll.Pending[poll.Void]()
		}
		s.advanceToEI(now, id)
		s.writer.Poll(stream)
		return poll.Pending[poll.Void]()

	case phaseEI:
		if _, ok := s.readLine(stream); !ok {
			return poll.Pending[poll.Void]()
		}
		return poll.ReadyVoid()
	}
	return poll.Pending[poll.Void]()
}
