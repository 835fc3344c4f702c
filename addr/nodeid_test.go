package addr

import "testing"

func TestNodeIDEquality(t *testing.T) {
	a := NodeIDFromAddress(NewSerialAddress(3))
	b := NodeIDFromAddress(NewSerialAddress(3))
	if !a.Equal(b) {
		t.Fatal("expected equal")
	}
	if a.Equal(BroadcastNodeID()) {
		t.Fatal("unicast should never equal broadcast")
	}
	if !BroadcastNodeID().Equal(BroadcastNodeID()) {
		t.Fatal("broadcast should equal broadcast")
	}
}

func TestNodeIDRoundTrip(t *testing.T) {
	cases := []NodeId{
		NodeIDFromAddress(NewSerialAddress(5)),
		NodeIDFromAddress(NewUHFAddress(0x10)),
		NodeIDFromAddress(NewUDPAddress([4]byte{8, 8, 8, 8}, 53)),
		NodeIDFromAddress(NewWebSocketAddress([4]byte{1, 1, 1, 1}, 443)),
		BroadcastNodeID(),
	}
	for _, original := range cases {
		buf := original.Encode(nil)
		decoded, n, err := DecodeNodeID(buf)
		if err != nil {
			t.Fatalf("decode failed: %s", err)
		}
		if n != len(buf) {
			t.Fatalf("expected to consume %d bytes, consumed %d", len(buf), n)
		}
		if !decoded.Equal(original) {
			t.Fatalf("round trip mismatch: %v != %v", decoded, original)
		}
	}
}

func TestDecodeNodeIDInvalidTag(t *testing.T) {
	_, _, err := DecodeNodeID([]byte{0x42})
	if err != ErrInvalidWireBytes {
		t.Fatalf("expected ErrInvalidWireBytes, got %v", err)
	}
}

func TestDecodeNodeIDEmpty(t *testing.T) {
	_, _, err := DecodeNodeID(nil)
	if err != ErrInvalidWireBytes {
		t.Fatalf("expected ErrInvalidWireBytes, got %v", err)
	}
}
