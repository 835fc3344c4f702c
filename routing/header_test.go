package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
)

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{
			Source:      addr.NodeIDFromAddress(addr.NewSerialAddress(3)),
			Destination: addr.NewUnicastDestination(addr.NodeIDFromAddress(addr.NewSerialAddress(5))),
			PreviousHop: addr.NodeIDFromAddress(addr.NewSerialAddress(3)),
			FrameID:     0xBEEF,
		},
		{
			Source:      addr.NodeIDFromAddress(addr.NewUHFAddress(1)),
			Destination: addr.NewBroadcastDestination(),
			PreviousHop: addr.NodeIDFromAddress(addr.NewUHFAddress(2)),
			FrameID:     0x0001,
		},
		{
			Source:      addr.NodeIDFromAddress(addr.NewUDPAddress([4]byte{10, 0, 0, 1}, 9000)),
			Destination: addr.NewMulticastDestination(7),
			PreviousHop: addr.BroadcastNodeID(),
			FrameID:     0xFFFF,
		},
	}

	for _, original := range cases {
		buf := original.Encode(nil)
		decoded, n, err := DecodeHeader(buf)
		if err != nil {
			t.Fatalf("decode failed: %s", err)
		}
		if n != len(buf) {
			t.Fatalf("expected to consume %d bytes, consumed %d", len(buf), n)
		}
		if diff := cmp.Diff(original, decoded); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	h := Header{
		Source:      addr.NodeIDFromAddress(addr.NewSerialAddress(1)),
		Destination: addr.NewUnicastDestination(addr.NodeIDFromAddress(addr.NewSerialAddress(2))),
		PreviousHop: addr.NodeIDFromAddress(addr.NewSerialAddress(1)),
		FrameID:     0x1234,
	}
	buf := h.Encode(nil)
	if _, _, err := DecodeHeader(buf[:len(buf)-1]); err == nil {
		t.Fatal("expected an error decoding a truncated header")
	}
}

func TestParseFrameSplitsHeaderFromPayload(t *testing.T) {
	pool := frame.NewPool(4)
	h := Header{
		Source:      addr.NodeIDFromAddress(addr.NewSerialAddress(1)),
		Destination: addr.NewUnicastDestination(addr.NodeIDFromAddress(addr.NewSerialAddress(2))),
		PreviousHop: addr.NodeIDFromAddress(addr.NewSerialAddress(1)),
		FrameID:     0xABCD,
	}
	raw := append(h.Encode(nil), []byte("payload")...)

	w, ok := pool.RequestWriter(len(raw)).Unwrap()
	if !ok {
		t.Fatal("expected a writer")
	}
	copy(w.WriteBufferUnchecked(len(raw)), raw)
	reader := w.CreateReader()

	f, ok, err := ParseFrame(pool, reader)
	if err != nil || !ok {
		t.Fatalf("expected a parsed frame, got ok=%v err=%v", ok, err)
	}
	if f.Header.FrameID != 0xABCD {
		t.Fatalf("got frame id %x, want ABCD", f.Header.FrameID)
	}
	if got := f.Payload.ReadBufferUnchecked(f.Payload.ReadableLength()); string(got) != "payload" {
		t.Fatalf("got payload %q, want payload", got)
	}
}
