package media

// LineAccumulator assembles a single `\n`-terminated line up to a
// fixed byte budget, mirroring the original detector's
// AsyncMaxLengthSingleLineBytesDeserializer<15>. Feeding past the
// budget without seeing a newline is treated as a decode failure; the
// caller resets and resynchronizes on the next byte, exactly as
// media.Detector does.
type LineAccumulator struct {
	buf    [15]byte
	length int
}

// MaxLineLength is the maximum line length the accumulator holds
// before it is considered overflowed.
const MaxLineLength = 15

// Feed appends b to the line. If b completes a line (a trailing `\n`
// has just been seen), it returns the accumulated bytes, including the
// terminator, and ok is true. If the byte budget is exhausted without
// seeing a newline, ok is false and overflowed is true; the caller
// should call Reset and resynchronize. Otherwise ok and overflowed are
// both false: more bytes are needed.
func (l *LineAccumulator) Feed(b byte) (line []byte, ok bool, overflowed bool) {
	if l.length >= len(l.buf) {
		return nil, false, true
	}
	l.buf[l.length] = b
	l.length++
	if b == '\n' {
		line := make([]byte, l.length)
		copy(line, l.buf[:l.length])
		l.Reset()
		return line, true, false
	}
	return nil, false, false
}

// Reset discards any bytes accumulated so far.
func (l *LineAccumulator) Reset() {
	l.length = 0
}
