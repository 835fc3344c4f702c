package link

import (
	"testing"
	"time"

	"github.com/keke1008/meshnet/addr"
)

func TestMockPort(t *testing.T) {
	t.Run("MockAddressType", func(t *testing.T) {
		p := &MockPort{
			MockAddressType: func() addr.Type { return addr.UHF },
		}
		if got := p.AddressType(); got != addr.UHF {
			t.Fatalf("got %v, want %v", got, addr.UHF)
		}
	})

	t.Run("MockExecute", func(t *testing.T) {
		var called time.Time
		p := &MockPort{
			MockExecute: func(now time.Time) { called = now },
		}
		now := time.Unix(42, 0)
		p.Execute(now)
		if !called.Equal(now) {
			t.Fatal("Execute did not invoke MockExecute with the given time")
		}
	})

	t.Run("zero value is inert", func(t *testing.T) {
		p := &MockPort{}
		if p.AddressType() != addr.Type(0) {
			t.Fatal("expected zero Type from an unset mock")
		}
		p.Execute(time.Unix(0, 0))
	})
}
