package addr

import "testing"

func TestAddressEquality(t *testing.T) {
	t.Run("same type and body are equal", func(t *testing.T) {
		a := NewSerialAddress(5)
		b := NewSerialAddress(5)
		if !a.Equal(b) {
			t.Fatal("expected equal")
		}
	})

	t.Run("different bodies are not equal", func(t *testing.T) {
		a := NewUHFAddress(1)
		b := NewUHFAddress(2)
		if a.Equal(b) {
			t.Fatal("expected not equal")
		}
	})

	t.Run("different types are never equal even with the same bytes", func(t *testing.T) {
		a := NewSerialAddress(1)
		b := NewUHFAddress(1)
		if a.Equal(b) {
			t.Fatal("expected not equal across types")
		}
	})
}

func TestAddressRoundTrip(t *testing.T) {
	cases := []Address{
		NewSerialAddress(0x05),
		NewUHFAddress(0x00),
		NewUHFAddress(0x7f),
		NewUDPAddress([4]byte{192, 168, 1, 42}, 8080),
		NewWebSocketAddress([4]byte{10, 0, 0, 1}, 1),
	}
	for _, original := range cases {
		buf := original.Encode(nil)
		decoded, n, err := DecodeAddress(original.Type(), buf)
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

func TestAddressBodyLength(t *testing.T) {
	if NewSerialAddress(1).Type().BodyLength() != 1 {
		t.Fatal("serial body length should be 1")
	}
	if NewUDPAddress([4]byte{}, 0).Type().BodyLength() != 6 {
		t.Fatal("udp body length should be 6")
	}
}

func TestUHFBroadcast(t *testing.T) {
	if !NewUHFAddress(UHFBroadcastID).IsUHFBroadcast() {
		t.Fatal("0x00 should be the UHF broadcast id")
	}
	if NewUHFAddress(0x01).IsUHFBroadcast() {
		t.Fatal("non-zero modem id should not be broadcast")
	}
}

func TestIPPort(t *testing.T) {
	ip := [4]byte{1, 2, 3, 4}
	a := NewUDPAddress(ip, 0xBEEF)
	gotIP, gotPort := a.IPPort()
	if gotIP != ip || gotPort != 0xBEEF {
		t.Fatalf("unexpected round trip: %v %x", gotIP, gotPort)
	}
}

func TestDecodeAddressTooShort(t *testing.T) {
	_, _, err := DecodeAddress(UDP, []byte{1, 2, 3})
	if err != ErrInvalidWireBytes {
		t.Fatalf("expected ErrInvalidWireBytes, got %v", err)
	}
}
