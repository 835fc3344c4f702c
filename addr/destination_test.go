package addr

import "testing"

func TestDestinationKind(t *testing.T) {
	unicast := NewUnicastDestination(NodeIDFromAddress(NewSerialAddress(1)))
	if !unicast.IsUnicast() || unicast.IsMulticast() || unicast.IsBroadcast() {
		t.Fatal("unexpected kind for unicast destination")
	}

	multicast := NewMulticastDestination(7)
	if multicast.IsUnicast() || !multicast.IsMulticast() || multicast.IsBroadcast() {
		t.Fatal("unexpected kind for multicast destination")
	}

	broadcast := NewBroadcastDestination()
	if broadcast.IsUnicast() || broadcast.IsMulticast() || !broadcast.IsBroadcast() {
		t.Fatal("unexpected kind for broadcast destination")
	}
}

func TestDestinationRoundTrip(t *testing.T) {
	cases := []Destination{
		NewUnicastDestination(NodeIDFromAddress(NewSerialAddress(9))),
		NewMulticastDestination(3),
		NewBroadcastDestination(),
	}
	for _, original := range cases {
		buf := original.Encode(nil)
		decoded, n, err := DecodeDestination(buf)
		if err != nil {
			t.Fatalf("decode failed: %s", err)
		}
		if n != len(buf) {
			t.Fatalf("expected to consume %d bytes, consumed %d", len(buf), n)
		}
		if !decoded.Equal(original) {
			t.Fatalf("round trip mismatch: %+v != %+v", decoded, original)
		}
	}
}

func TestClusterIdZeroMeansAbsent(t *testing.T) {
	o := SomeClusterId(0)
	if _, present := o.Get(); present {
		t.Fatal("cluster id 0 must be treated as absent")
	}
}
