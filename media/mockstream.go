package media

// MockStream is an in-memory [Stream] for tests, following the
// teacher's MockableNIC pattern: a growable queue of bytes to read
// from and a plain slice capturing everything written, so a test can
// feed a canned response and inspect what a driver sent.
type MockStream struct {
	in  []byte
	out []byte
}

// NewMockStream creates a MockStream whose read side is pre-loaded
// with pending.
func NewMockStream(pending ...byte) *MockStream {
	return &MockStream{in: append([]byte(nil), pending...)}
}

// Feed appends more bytes to the read side, as if the peer just sent
// them.
func (m *MockStream) Feed(b ...byte) {
	m.in = append(m.in, b...)
}

// Written returns everything written to this stream so far.
func (m *MockStream) Written() []byte {
	return m.out
}

// ReadableCount implements Stream.
func (m *MockStream) ReadableCount() int {
	return len(m.in)
}

// ReadByte implements Stream.
func (m *MockStream) ReadByte() byte {
	b := m.in[0]
	m.in = m.in[1:]
	return b
}

// WritableCount implements Stream.
func (m *MockStream) WritableCount() int {
	return 1 << 20
}

// WriteByte implements Stream.
func (m *MockStream) WriteByte(b byte) bool {
	m.out = append(m.out, b)
	return true
}

var _ Stream = &MockStream{}
