package media

import (
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/poll"
)

// ByteWriter drives writing a fixed byte sequence onto a [Stream]
// across as many ticks as it takes, used for every AT-style command a
// port driver emits (media/uhf's "@CS\r\n", media/wifi's
// "AT+CWMODE=1\r\n", and so on).
type ByteWriter struct {
	data []byte
	sent int
}

// NewByteWriter starts writing data.
func NewByteWriter(data []byte) *ByteWriter {
	return &ByteWriter{data: data}
}

// NewStringWriter is NewByteWriter for a string command.
func NewStringWriter(s string) *ByteWriter {
	return NewByteWriter([]byte(s))
}

// Poll writes as much as s accepts this tick, returning Ready once
// every byte has gone out.
func (w *ByteWriter) Poll(s Stream) poll.Poll[poll.Void] {
	w.sent += WriteString(s, string(w.data[w.sent:]))
	if w.sent >= len(w.data) {
		return poll.ReadyVoid()
	}
	return poll.Pending[poll.Void]()
}

// ByteReader drives reading a fixed number of bytes off a [Stream]
// across as many ticks as it takes, used for fixed-width AT-modem
// response bodies (the UHF driver's `@CS` EN/DI body, the DR header's
// length+protocol fields, and so on).
type ByteReader struct {
	buf   []byte
	filled int
}

// NewByteReader allocates a reader for exactly n bytes.
func NewByteReader(n int) *ByteReader {
	return &ByteReader{buf: make([]byte, n)}
}

// Poll reads as many bytes as s offers this tick, returning the
// completed buffer once full.
func (r *ByteReader) Poll(s Stream) poll.Poll[[]byte] {
	for r.filled < len(r.buf) && s.ReadableCount() > 0 {
		r.buf[r.filled] = s.ReadByte()
		r.filled++
	}
	if r.filled >= len(r.buf) {
		return poll.Ready(r.buf)
	}
	return poll.Pending[[]byte]()
}

// FixedResponseReader drives reading an AT-modem fixed-width response
// off a [Stream]: a 4-byte prefix (e.g. "*SN=", "*CS="), an n-byte
// body, and a 2-byte suffix ("\r\n"). The prefix and suffix are
// consumed and discarded; Poll yields only the body once all three
// segments have arrived.
type FixedResponseReader struct {
	prefix       [4]byte
	prefixFilled int
	body         []byte
	bodyFilled   int
	suffix       [2]byte
	suffixFilled int
}

// NewFixedResponseReader allocates a reader for a response whose body
// is exactly n bytes.
func NewFixedResponseReader(n int) *FixedResponseReader {
	return &FixedResponseReader{body: make([]byte, n)}
}

// Poll reads as many bytes as s offers this tick, returning the body
// once the prefix, body, and suffix have all been consumed.
func (r *FixedResponseReader) Poll(s Stream) poll.Poll[[]byte] {
	for r.prefixFilled < len(r.prefix) && s.ReadableCount() > 0 {
		r.prefix[r.prefixFilled] = s.ReadByte()
		r.prefixFilled++
	}
	if r.prefixFilled < len(r.prefix) {
		return poll.Pending[[]byte]()
	}
	for r.bodyFilled < len(r.body) && s.ReadableCount() > 0 {
		r.body[r.bodyFilled] = s.ReadByte()
		r.bodyFilled++
	}
	if r.bodyFilled < len(r.body) {
		return poll.Pending[[]byte]()
	}
	for r.suffixFilled < len(r.suffix) && s.ReadableCount() > 0 {
		r.suffix[r.suffixFilled] = s.ReadByte()
		r.suffixFilled++
	}
	if r.suffixFilled < len(r.suffix) {
		return poll.Pending[[]byte]()
	}
	return poll.Ready(r.body)
}

// FramePayloadReader streams bytes off a [Stream] into a
// [frame.Writer] until it is full, then yields a reader over the
// completed frame. Used by every port driver's receive path once the
// header has named a payload length.
type FramePayloadReader struct {
	writer *frame.Writer
}

// NewFramePayloadReader wraps writer for streaming.
func NewFramePayloadReader(writer *frame.Writer) *FramePayloadReader {
	return &FramePayloadReader{writer: writer}
}

// Poll copies as many bytes as s offers this tick into the writer,
// returning a reader once the writer is full.
func (r *FramePayloadReader) Poll(s Stream) poll.Poll[*frame.Reader] {
	for !r.writer.IsAllWritten() && s.ReadableCount() > 0 {
		r.writer.Write(s.ReadByte())
	}
	if r.writer.IsAllWritten() {
		return poll.Ready(r.writer.CreateReader())
	}
	return poll.Pending[*frame.Reader]()
}

// FramePayloadWriter streams the remaining bytes of a [frame.Reader]
// out onto a [Stream]. Used by every port driver's transmit path to
// emit a frame's payload onto the wire.
type FramePayloadWriter struct {
	reader *frame.Reader
}

// NewFramePayloadWriter wraps reader for streaming.
func NewFramePayloadWriter(reader *frame.Reader) *FramePayloadWriter {
	return &FramePayloadWriter{reader: reader}
}

// Poll writes as many bytes as s accepts this tick, returning Ready
// once the reader is exhausted.
func (w *FramePayloadWriter) Poll(s Stream) poll.Poll[poll.Void] {
	for !w.reader.IsAllRead() && s.WritableCount() > 0 {
		b := w.reader.ReadBufferUnchecked(1)[0]
		if !s.WriteByte(b) {
			break
		}
	}
	if w.reader.IsAllRead() {
		return poll.ReadyVoid()
	}
	return poll.Pending[poll.Void]()
}
