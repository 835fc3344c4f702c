package wifi

import (
	"strconv"

	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

type txPhase int

const (
	txSendCommand txPhase = iota
	txWaitOk
	txWaitPrompt
	txWriteBody
	txWaitResult
)

// sendState drives the two-phase CIPSEND transmit, per spec.md §4.4:
// announce the payload length and destination, wait for `OK` then the
// `> ` prompt, stream the frame body, then wait for `SEND OK`/`SEND
// FAIL`.
type sendState struct {
	phase  txPhase
	writer *media.ByteWriter
	line   *media.LineBuffer
	prompt *media.ByteReader

	protocol        byte
	protocolWritten bool
	bodyWriter      *media.FramePayloadWriter
	reader          *frame.Reader

	success bool
}

func newSendState(f frame.LinkFrame, ip [4]byte, port uint16) *sendState {
	length := f.Reader.BufferLength() + frame.Size
	cmd := "AT+CIPSEND=" + strconv.Itoa(length) + ",\"" + formatIPv4(ip) + "\"," + strconv.Itoa(int(port)) + "\r\n"
	return &sendState{
		phase:    txSendCommand,
		writer:   media.NewStringWriter(cmd),
		line:     media.NewLineBuffer(maxResponseLineLength),
		protocol: byte(f.ProtocolNumber),
		reader:   f.Reader,
	}
}

// abort releases the frame buffer without sending, used when the
// modem rejects the request or a timeout fires mid-exchange.
func (s *sendState) abort() {
	if s.reader != nil {
		s.reader.Release()
		s.reader = nil
	}
}

func (s *sendState) poll(stream media.Stream, logger Logger) poll.Poll[poll.Void] {
	if s.phase == txSendCommand {
		if s.writer.Poll(stream).IsPending() {
			return poll.Pending[poll.Void]()
		}
		s.phase = txWaitOk
	}

	if s.phase == txWaitOk {
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
			if string(line) != "OK\r\n" {
				logger.Warnf("wifi: CIPSEND rejected: %q", line)
				s.abort()
				return poll.ReadyVoid()
			}
			s.phase = txWaitPrompt
			s.prompt = media.NewByteReader(2)
			break
		}
		if s.phase == txWaitOk {
			return poll.Pending[poll.Void]()
		}
	}

	if s.phase == txWaitPrompt {
		body, ok := s.prompt.Poll(stream).Unwrap()
		if !ok {
			return poll.Pending[poll.Void]()
		}
		if string(body) != "> " {
			logger.Warnf("wifi: expected send prompt, got %q", body)
			s.abort()
			return poll.ReadyVoid()
		}
		s.phase = txWriteBody
	}

	if s.phase == txWriteBody {
		if !s.protocolWritten {
			if stream.WritableCount() == 0 {
				return poll.Pending[poll.Void]()
			}
			if !stream.WriteByte(s.protocol) {
				return poll.Pending[poll.Void]()
			}
			s.protocolWritten = true
			s.bodyWriter = media.NewFramePayloadWriter(s.reader)
		}
		if s.bodyWriter.Poll(stream).IsPending() {
			return poll.Pending[poll.Void]()
		}
		s.reader.Release()
		s.reader = nil
		s.phase = txWaitResult
		s.line.Reset()
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
		s.success = string(line) == "SEND OK\r\n"
		if !s.success {
			logger.Warnf("wifi: send failed: %q", line)
		}
		return poll.ReadyVoid()
	}
	return poll.Pending[poll.Void]()
}
