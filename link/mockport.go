package link

import (
	"time"

	"github.com/keke1008/meshnet/addr"
)

// Port is the minimal surface the broker's caller needs from a
// registered media port: its address type (for matching against
// [Broker.PollGetSendRequestedFrame]) and a tick entry point. The
// concrete media/uhf, media/wifi, media/serialport and media/ethernet
// Port types, and the root package's meshnet.Port sum type, satisfy
// this interface, so code driving a set of heterogeneous ports can
// hold them through it. cmd/meshsim does not use it; its loop calls
// the concrete ports' Execute directly.
type Port interface {
	AddressType() addr.Type
	Execute(now time.Time)
}

// MockPort is a test double for [Port], following the teacher's
// MockableNIC pattern: a struct of Mock* function fields, each
// optional, implementing the interface by delegating to whichever
// fields are set.
type MockPort struct {
	MockAddressType func() addr.Type
	MockExecute     func(now time.Time)
}

var _ Port = &MockPort{}

// AddressType implements Port.
func (m *MockPort) AddressType() addr.Type {
	if m.MockAddressType != nil {
		return m.MockAddressType()
	}
	return addr.Type(0)
}

// Execute implements Port.
func (m *MockPort) Execute(now time.Time) {
	if m.MockExecute != nil {
		m.MockExecute(now)
	}
}
