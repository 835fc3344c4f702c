package routing

import (
	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/poll"
)

// Logger is the subset of logging this package needs.
type Logger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
}

// NeighborSocket is the overlay's transport: logically the same shape
// as a link socket (frame.LinkFrame in, bytes out) but keyed to the
// routing protocol number rather than an upper-layer one, per spec.md
// §4.7. Out-of-core-scope per spec.md's "specified only as collaborator
// interfaces in §6": this package supplies the interface and a
// [MockNeighborSocket] test double, not a concrete implementation.
type NeighborSocket interface {
	// MTU reports the largest payload, including the routing header,
	// that a single neighbor-socket frame can carry.
	MTU() int

	// PollRequestWriter reserves a frame buffer of the given total
	// length (header plus payload).
	PollRequestWriter(length int) poll.Poll[*frame.Writer]

	// PollReceiveFrame returns the next inbound neighbor frame, or
	// Pending if none has arrived.
	PollReceiveFrame() poll.Poll[*frame.Reader]

	// PollSendUnicast asks the socket to deliver reader to a single
	// neighbor.
	PollSendUnicast(neighbor addr.NodeId, reader *frame.Reader) poll.Poll[poll.Void]

	// PollSendBroadcast asks the socket to deliver reader to every
	// current neighbor except ignore (when hasIgnore is true).
	PollSendBroadcast(reader *frame.Reader, ignore addr.NodeId, hasIgnore bool) poll.Poll[poll.Void]
}

// NextHop is the result of a [Discovery] lookup.
type NextHop struct {
	Neighbor addr.NodeId
	Found    bool
}

// Discovery resolves a routing destination to the neighbor a unicast
// frame should be forwarded to next, per spec.md §4.7/GLOSSARY's
// "next hop / gateway". It is polled rather than returning a value
// synchronously since discovering a path may itself take several
// ticks; a Ready result with Found=false means discovery gave up, which
// the overlay surfaces as [ErrUnreachableNode].
type Discovery interface {
	PollNextHop(destination addr.NodeId) poll.Poll[NextHop]
}

// CostEstimator reports the link quality to a neighbor as a [Cost],
// supplementing the core routing model with a hook a future
// neighbor-table could use to weight delay-pool residency by actual
// link quality rather than a flat default. It is synchronous rather
// than polled: a cost estimate is always a locally cached number, never
// something that itself waits on I/O.
type CostEstimator interface {
	EstimateCost(previousHop addr.NodeId) Cost
}

// staticCostEstimator reports [DefaultCost] for every neighbor; used
// when the overlay is constructed without a real neighbor table.
type staticCostEstimator struct{}

func (staticCostEstimator) EstimateCost(addr.NodeId) Cost {
	return DefaultCost
}
