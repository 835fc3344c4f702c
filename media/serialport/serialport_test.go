package serialport

import (
	"testing"
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/internal"
	"github.com/keke1008/meshnet/link"
	"github.com/keke1008/meshnet/media"
)

type testLogger struct {
	warnings []string
}

func (l *testLogger) Infof(format string, v ...any) {}
func (l *testLogger) Warnf(format string, v ...any) { l.warnings = append(l.warnings, format) }

func newTestBroker(t *testing.T, now time.Time) (*link.Broker, link.Handle) {
	t.Helper()
	b := link.NewBroker(now, &internal.NullLogger{})
	return b, link.NewHandle(b, link.PortNumber(0))
}

func feedPreamble(stream *media.MockStream) {
	preamble := make([]byte, preambleLength)
	for i := range preamble {
		preamble[i] = preambleByte
	}
	stream.Feed(preamble...)
}

// TestSerialFrameRoundTrip matches spec.md §8 scenario #4 exactly: a
// preamble followed by protocol 0x01, source 0x03, destination 0x05,
// length 4, payload "abcd", into a port whose self-address is 0x05.
func TestSerialFrameRoundTrip(t *testing.T) {
	now := time.Unix(0, 0)
	pool := frame.NewPool(4)
	broker, handle := newTestBroker(t, now)
	logger := &testLogger{}

	stream := media.NewMockStream()
	port := NewPort(stream, handle, pool, logger)
	port.TryInitializeLocalAddress(0x05)

	feedPreamble(stream)
	stream.Feed(0x01, 0x03, 0x05, 0x04)
	stream.Feed('a', 'b', 'c', 'd')

	port.Execute(now)

	f, ok := broker.PollReceiveFrame(0x01).Unwrap()
	if !ok {
		t.Fatal("expected a dispatched frame")
	}
	if f.ProtocolNumber != 0x01 {
		t.Fatalf("got protocol %#x, want 0x01", f.ProtocolNumber)
	}
	remote, ok := f.Remote.Unicast()
	if !ok || remote.Type() != addr.Serial || remote.Body()[0] != 0x03 {
		t.Fatalf("got remote %v, want Serial(3)", f.Remote)
	}
	if got := f.Reader.ReadBufferUnchecked(f.Reader.ReadableLength()); string(got) != "abcd" {
		t.Fatalf("got payload %q, want abcd", got)
	}
}

func TestSerialPortAdoptsSelfAddressFromFirstFrame(t *testing.T) {
	now := time.Unix(0, 0)
	pool := frame.NewPool(4)
	_, handle := newTestBroker(t, now)
	logger := &testLogger{}
	stream := media.NewMockStream()
	port := NewPort(stream, handle, pool, logger)

	feedPreamble(stream)
	stream.Feed(0x02, 0x01, 0x09, 0x00)

	port.Execute(now)

	self, ok := port.LocalAddress()
	if !ok || self != 0x09 {
		t.Fatalf("expected self-address adopted as 0x09, got %#x (ok=%v)", self, ok)
	}
}

func TestSerialPortDiscardsMismatchedDestination(t *testing.T) {
	now := time.Unix(0, 0)
	pool := frame.NewPool(4)
	broker, handle := newTestBroker(t, now)
	logger := &testLogger{}
	stream := media.NewMockStream()
	port := NewPort(stream, handle, pool, logger)
	port.TryInitializeLocalAddress(0x05)

	feedPreamble(stream)
	stream.Feed(0x01, 0x03, 0x06, 0x02)
	stream.Feed('x', 'y')
	feedPreamble(stream)
	stream.Feed(0x01, 0x03, 0x05, 0x01)
	stream.Feed('z')

	port.Execute(now) // consumes and discards the mismatched frame
	port.Execute(now) // consumes and dispatches the matching frame

	if stream.ReadableCount() != 0 {
		t.Fatal("expected the whole stream consumed across both frames")
	}
	if _, ok := broker.PollReceiveFrame(0x01).Unwrap(); !ok {
		t.Fatal("expected the second, matching frame to be dispatched")
	}
}

func TestSerialPortSendRoundTrip(t *testing.T) {
	now := time.Unix(0, 0)
	pool := frame.NewPool(4)
	broker, handle := newTestBroker(t, now)
	logger := &testLogger{}
	stream := media.NewMockStream()
	port := NewPort(stream, handle, pool, logger)
	port.TryInitializeLocalAddress(0x05)

	w, ok := pool.RequestWriter(2).Unwrap()
	if !ok {
		t.Fatal("expected a writer")
	}
	w.Write('h')
	w.Write('i')
	if broker.PollRequestSendFrame(0x02, addr.NewUnicastLinkAddress(addr.NewSerialAddress(0x07)), w.CreateReader(), nil).IsPending() {
		t.Fatal("expected the broker to accept the send request")
	}

	port.Execute(now)

	written := stream.Written()
	preamble := written[:preambleLength]
	for _, b := range preamble {
		if b != preambleByte {
			t.Fatalf("expected an 8-byte preamble, got %v", preamble)
		}
	}
	header := written[preambleLength : preambleLength+headerLength]
	if header[0] != 0x02 || header[1] != 0x05 || header[2] != 0x07 || header[3] != 2 {
		t.Fatalf("got header %v, want [02 05 07 02]", header)
	}
	if string(written[preambleLength+headerLength:]) != "hi" {
		t.Fatalf("got payload %q, want hi", written[preambleLength+headerLength:])
	}
}
