package link

import "github.com/keke1008/meshnet/frame"

// ReceivedFrame is a broker queue entry wrapping an inbound
// [frame.LinkFrame]. markedForSweep flips to true on each sweep tick;
// an entry entering a sweep tick already marked is evicted, bounding
// residency to two sweep intervals, per spec.md §3.
type ReceivedFrame struct {
	Frame          frame.LinkFrame
	Port           PortNumber
	markedForSweep bool
}

// SendRequestedFrame is a broker queue entry wrapping an outbound
// [frame.LinkFrame], optionally pinned to a specific port.
type SendRequestedFrame struct {
	Frame          frame.LinkFrame
	PinnedPort     *PortNumber
	markedForSweep bool
}
