package link

import (
	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/poll"
)

// Handle is a non-owning reference to a [Broker] bound to one
// registered port, per spec.md §9's guidance to avoid a cyclic
// reference between a port and its broker: the port holds a Handle
// (conceptually an index into the broker's port registry) rather than
// a pointer back to the broker, and the handle never outlives the
// broker it was constructed from.
type Handle struct {
	broker *Broker
	port   PortNumber
}

// NewHandle binds a [Handle] to the given port number on broker.
func NewHandle(broker *Broker, port PortNumber) Handle {
	return Handle{broker: broker, port: port}
}

// Port returns the port number this handle is bound to.
func (h Handle) Port() PortNumber {
	return h.port
}

// PollGetSendRequestedFrame polls the broker for a frame this handle's
// port should transmit, per [Broker.PollGetSendRequestedFrame].
func (h Handle) PollGetSendRequestedFrame(addressType addr.Type, remoteHint *addr.Address) poll.Poll[frame.LinkFrame] {
	return h.broker.PollGetSendRequestedFrame(addressType, h.port, remoteHint)
}

// PollDispatchReceivedFrame dispatches an inbound frame to the broker,
// labelled with this handle's port, per
// [Broker.PollDispatchReceivedFrame].
func (h Handle) PollDispatchReceivedFrame(f frame.LinkFrame) poll.Poll[poll.Void] {
	return h.broker.PollDispatchReceivedFrame(f, h.port)
}
