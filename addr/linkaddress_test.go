package addr

import "testing"

func TestLinkAddressMatches(t *testing.T) {
	broadcast := NewBroadcastLinkAddress(UHF)
	if !broadcast.Matches(NewUHFAddress(5)) {
		t.Fatal("broadcast link address should match any address of the same type")
	}
	if broadcast.Matches(NewSerialAddress(5)) {
		t.Fatal("broadcast link address should not match a different medium")
	}

	unicast := NewUnicastLinkAddress(NewSerialAddress(3))
	if !unicast.Matches(NewSerialAddress(3)) {
		t.Fatal("unicast link address should match its own address")
	}
	if unicast.Matches(NewSerialAddress(4)) {
		t.Fatal("unicast link address should not match a different address")
	}
}

func TestLinkAddressUnicastAccessor(t *testing.T) {
	unicast := NewUnicastLinkAddress(NewSerialAddress(1))
	if _, ok := unicast.Unicast(); !ok {
		t.Fatal("expected unicast accessor to succeed")
	}

	broadcast := NewBroadcastLinkAddress(Serial)
	if _, ok := broadcast.Unicast(); ok {
		t.Fatal("expected unicast accessor to fail on broadcast")
	}
}
