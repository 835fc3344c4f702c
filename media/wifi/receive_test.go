package wifi

import (
	"testing"

	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/media"
)

func TestReceiveStateRoundTrip(t *testing.T) {
	pool := frame.NewPool(4)
	s := newReceiveState(pool)

	// "+IPD,5,192.168.1.2,4242:" + protocol(0x07) + "abcd"
	stream := media.NewMockStream()
	stream.Feed([]byte("5,192.168.1.2,4242:")...)
	stream.Feed(0x07)
	stream.Feed([]byte("abcd")...)

	reader, ok := s.poll(stream).Unwrap()
	if !ok {
		t.Fatal("expected completion in one tick")
	}
	if reader == nil {
		t.Fatal("expected a non-nil reader")
	}
	if s.protocol != 0x07 {
		t.Fatalf("got protocol %02x, want 07", s.protocol)
	}
	ip, port := s.remote.IPPort()
	if ip != [4]byte{192, 168, 1, 2} || port != 4242 {
		t.Fatalf("got remote %v:%d, want 192.168.1.2:4242", ip, port)
	}
	if reader.ReadableLength() != 4 {
		t.Fatalf("got payload length %d, want 4", reader.ReadableLength())
	}
	if got := reader.ReadBufferUnchecked(4); string(got) != "abcd" {
		t.Fatalf("got payload %q, want abcd", got)
	}
}

func TestReceiveStateDiscardsOnPoolExhaustion(t *testing.T) {
	pool := frame.NewPool(1)
	_, ok := pool.RequestWriter(1).Unwrap()
	if !ok {
		t.Fatal("expected to reserve the only slot")
	}

	s := newReceiveState(pool)
	stream := media.NewMockStream()
	stream.Feed([]byte("5,10.0.0.1,1:")...)
	stream.Feed(0x01)
	stream.Feed([]byte("abcd")...)

	reader, ok := s.poll(stream).Unwrap()
	if !ok {
		t.Fatal("expected completion (discard) in one tick")
	}
	if reader != nil {
		t.Fatal("expected a nil reader for a discarded frame")
	}
	if stream.ReadableCount() != 0 {
		t.Fatal("expected the discarded frame's remaining bytes to be drained")
	}
}

func TestReceiveStateMalformedLengthDiscardsImmediately(t *testing.T) {
	pool := frame.NewPool(4)
	s := newReceiveState(pool)
	stream := media.NewMockStream()
	stream.Feed([]byte("x,")...)

	reader, ok := s.poll(stream).Unwrap()
	if !ok || reader != nil {
		t.Fatal("expected an immediate nil-reader result for a non-numeric length field")
	}
}

func TestReceiveStateAcrossTicks(t *testing.T) {
	pool := frame.NewPool(4)
	s := newReceiveState(pool)

	stream := media.NewMockStream()
	stream.Feed([]byte("3,1.2.3.4,")...)
	if _, ok := s.poll(stream).Unwrap(); ok {
		t.Fatal("expected pending with the port field incomplete")
	}

	stream.Feed([]byte("99:")...)
	stream.Feed(0x02)
	if _, ok := s.poll(stream).Unwrap(); ok {
		t.Fatal("expected pending with the payload not yet arrived")
	}

	stream.Feed([]byte("hi")...)
	reader, ok := s.poll(stream).Unwrap()
	if !ok || reader == nil {
		t.Fatal("expected completion once the payload arrived")
	}
}
