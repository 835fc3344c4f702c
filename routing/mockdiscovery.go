package routing

import (
	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/poll"
)

// MockDiscovery is an in-memory [Discovery] for tests: next hops are
// set directly on Routes, and DelayTicks (if positive) makes the first
// few polls for a given destination report Pending before resolving,
// exercising the overlay's "discovery may itself take several ticks"
// path.
type MockDiscovery struct {
	Routes     map[addr.NodeId]addr.NodeId
	DelayTicks int

	ticksLeft map[addr.NodeId]int
}

var _ Discovery = &MockDiscovery{}

// NewMockDiscovery creates an empty MockDiscovery.
func NewMockDiscovery() *MockDiscovery {
	return &MockDiscovery{Routes: make(map[addr.NodeId]addr.NodeId), ticksLeft: make(map[addr.NodeId]int)}
}

// PollNextHop implements Discovery.
func (m *MockDiscovery) PollNextHop(destination addr.NodeId) poll.Poll[NextHop] {
	if m.DelayTicks > 0 {
		left, seen := m.ticksLeft[destination]
		if !seen {
			left = m.DelayTicks
		}
		if left > 0 {
			m.ticksLeft[destination] = left - 1
			return poll.Pending[NextHop]()
		}
	}
	neighbor, found := m.Routes[destination]
	return poll.Ready(NextHop{Neighbor: neighbor, Found: found})
}
