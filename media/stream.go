// Package media implements the media-detection protocol (spec.md
// §4.2): the one-shot probe that decides which port driver
// (media/uhf, media/wifi, media/serialport, media/ethernet) should own
// a freshly attached serial stream. It also defines Stream, the
// non-blocking byte-stream abstraction the serial-attached port drivers
// are built on.
package media

// Stream is a non-blocking byte stream: a caller must check
// ReadableCount/WritableCount before calling ReadByte/WriteByte,
// mirroring the teacher's own preference for explicit counts over
// blocking reads (model.go's FrameReader follows the same shape).
// Concrete ports are driven by a single Stream per instance — a UART
// for media/uhf and media/serialport, a command channel to an AT
// modem for media/wifi. media/ethernet does not use Stream; it has its
// own datagram Socket interface.
type Stream interface {
	// ReadableCount returns how many bytes are available to read right
	// now without blocking.
	ReadableCount() int
	// ReadByte reads one byte. The caller must have checked
	// ReadableCount() > 0 first.
	ReadByte() byte
	// WritableCount returns how many bytes can be written right now
	// without blocking.
	WritableCount() int
	// WriteByte writes one byte and reports whether more can still be
	// written immediately afterward. The caller must have checked
	// WritableCount() > 0 first.
	WriteByte(b byte) bool
}

// DrainReadable discards every byte currently available on s without
// blocking, per the media detector's "clear any buffered bytes before
// probing" step (spec.md §4.2).
func DrainReadable(s Stream) {
	for s.ReadableCount() > 0 {
		s.ReadByte()
	}
}

// WriteString writes as much of msg as s currently accepts, returning
// the number of bytes written. Callers drive this across multiple
// ticks until the return value equals len(msg).
func WriteString(s Stream, msg string) int {
	n := 0
	for n < len(msg) && s.WritableCount() > 0 {
		if !s.WriteByte(msg[n]) {
			n++
			break
		}
		n++
	}
	return n
}
