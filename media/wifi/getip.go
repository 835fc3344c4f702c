package wifi

import (
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

// cipstaLineCap bounds the `+CIPSTA:ip:"A.B.C.D"` report line.
const cipstaLineCap = 40

type getIpOutcome struct {
	ip [4]byte
	ok bool
}

type getIpPhase int

const (
	getIpSendCommand getIpPhase = iota
	getIpWaitLine
	getIpWaitFinalOk
)

// getIpState implements the GetIp dynamic operation, per spec.md
// §4.4: emit `AT+CIPSTA?`, parse the `+CIPSTA:ip:"A.B.C.D"` report
// line, then wait for the command's own closing `OK`.
type getIpState struct {
	phase  getIpPhase
	writer *media.ByteWriter
	line   *media.LineBuffer
	ip     [4]byte
}

func newGetIpState() *getIpState {
	return &getIpState{
		phase:  getIpSendCommand,
		writer: media.NewStringWriter("AT+CIPSTA?\r\n"),
		line:   media.NewLineBuffer(cipstaLineCap),
	}
}

func (s *getIpState) poll(stream media.Stream) poll.Poll[getIpOutcome] {
	if s.phase == getIpSendCommand {
		if s.writer.Poll(stream).IsPending() {
			return poll.Pending[getIpOutcome]()
		}
		s.phase = getIpWaitLine
	}

	if s.phase == getIpWaitLine {
		for stream.ReadableCount() > 0 {
			line, ok, overflowed := s.line.Feed(stream.ReadByte())
			if overflowed {
				s.line.Reset()
				continue
			}
			if !ok {
				continue
			}
			if len(line) == 2 {
				continue
			}
			ip, matched := parseCIPSTAIPLine(line)
			if !matched {
				return poll.Ready(getIpOutcome{})
			}
			s.ip = ip
			s.phase = getIpWaitFinalOk
			s.line.Reset()
			break
		}
		if s.phase == getIpWaitLine {
			return poll.Pending[getIpOutcome]()
		}
	}

	for stream.ReadableCount() > 0 {
		line, ok, overflowed := s.line.Feed(stream.ReadByte())
		if overflowed {
			s.line.Reset()
			continue
		}
		if !ok {
			continue
		}
		if len(line) == 2 {
			continue
		}
		return poll.Ready(getIpOutcome{ip: s.ip, ok: string(line) == "OK\r\n"})
	}
	return poll.Pending[getIpOutcome]()
}

// parseCIPSTAIPLine matches `+CIPSTA:ip:"A.B.C.D"` followed by CRLF.
func parseCIPSTAIPLine(line []byte) (ip [4]byte, ok bool) {
	const prefix = `+CIPSTA:ip:"`
	const suffix = "\"\r\n"
	if len(line) <= len(prefix)+len(suffix) {
		return ip, false
	}
	if string(line[:len(prefix)]) != prefix {
		return ip, false
	}
	if string(line[len(line)-len(suffix):]) != suffix {
		return ip, false
	}
	return parseIPv4(line[len(prefix) : len(line)-len(suffix)])
}
