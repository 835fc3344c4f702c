package link

import (
	"time"

	"github.com/keke1008/meshnet"
	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/poll"
	"golang.org/x/time/rate"
)

// QueueCapacity bounds each of the broker's two queues, per spec.md
// §4.1.
const QueueCapacity = 2

// SweepInterval is how often the broker sweeps its queues for stale
// entries, per spec.md §4.1.
const SweepInterval = 100 * time.Millisecond

// Broker mediates link-layer frames between media ports and upper
// layers. It owns two bounded queues — received and send-requested —
// and sweeps both on a timer to bound how long an unclaimed frame can
// sit around, per spec.md §4.1. The zero value is not usable; construct
// with [NewBroker].
type Broker struct {
	received       []*ReceivedFrame
	sendRequested  []*SendRequestedFrame
	sweep          *poll.Debounce
	logger         meshnet.Logger
	evictionNotice rate.Sometimes
}

// NewBroker creates a [Broker] whose sweep timer starts counting from
// now.
func NewBroker(now time.Time, logger meshnet.Logger) *Broker {
	return &Broker{
		sweep:          poll.NewDebounce(now, SweepInterval),
		logger:         logger,
		evictionNotice: rate.Sometimes{Interval: time.Second},
	}
}

// PollDispatchReceivedFrame inserts an inbound frame received on port
// into the received queue, or reports Pending if the queue is full.
func (b *Broker) PollDispatchReceivedFrame(f frame.LinkFrame, port PortNumber) poll.Poll[poll.Void] {
	if len(b.received) >= QueueCapacity {
		return poll.Pending[poll.Void]()
	}
	b.received = append(b.received, &ReceivedFrame{Frame: f, Port: port})
	return poll.ReadyVoid()
}

// PollReceiveFrame removes and returns the first received entry whose
// protocol number matches, or Pending if none does.
func (b *Broker) PollReceiveFrame(protocol frame.ProtocolNumber) poll.Poll[frame.LinkFrame] {
	for i, entry := range b.received {
		if entry.Frame.ProtocolNumber == protocol {
			b.received = append(b.received[:i], b.received[i+1:]...)
			return poll.Ready(entry.Frame)
		}
	}
	return poll.Pending[frame.LinkFrame]()
}

// PollRequestSendFrame enqueues an outbound frame, optionally pinned to
// a specific port, or reports Pending if the send queue is full.
func (b *Broker) PollRequestSendFrame(
	protocol frame.ProtocolNumber,
	remote addr.LinkAddress,
	reader *frame.Reader,
	pinnedPort *PortNumber,
) poll.Poll[poll.Void] {
	if len(b.sendRequested) >= QueueCapacity {
		return poll.Pending[poll.Void]()
	}
	b.sendRequested = append(b.sendRequested, &SendRequestedFrame{
		Frame: frame.LinkFrame{
			ProtocolNumber: protocol,
			Remote:         remote,
			Reader:         reader,
		},
		PinnedPort: pinnedPort,
	})
	return poll.ReadyVoid()
}

// removeSendRequested deletes the entry at index i, preserving the
// order of the remaining entries (order determines "first match").
func (b *Broker) removeSendRequested(i int) {
	b.sendRequested = append(b.sendRequested[:i], b.sendRequested[i+1:]...)
}

// PollGetSendRequestedFrame lets port poll for a frame it should
// transmit next, matching candidates in the priority order documented
// in spec.md §4.1:
//
//  1. a unicast entry whose remote equals remoteHint, if given;
//  2. a pinned entry whose pinned port equals port and whose address
//     type matches (a pinned entry whose address type does not match is
//     discarded, protecting against misrouting);
//  3. the first unpinned entry with a matching address type — but only
//     considered when remoteHint is absent, mirroring the reference
//     behaviour exactly.
func (b *Broker) PollGetSendRequestedFrame(
	addressType addr.Type,
	port PortNumber,
	remoteHint *addr.Address,
) poll.Poll[frame.LinkFrame] {
	for i := 0; i < len(b.sendRequested); i++ {
		entry := b.sendRequested[i]
		if remoteHint != nil {
			if unicastAddr, ok := entry.Frame.Remote.Unicast(); ok && unicastAddr.Equal(*remoteHint) {
				f := entry.Frame
				b.removeSendRequested(i)
				return poll.Ready(f)
			}
		}

		sameAddressType := entry.Frame.Remote.AddressType() == addressType

		if entry.PinnedPort != nil {
			if *entry.PinnedPort != port {
				continue
			}
			if !sameAddressType {
				b.removeSendRequested(i)
				i--
				continue
			}
			f := entry.Frame
			b.removeSendRequested(i)
			return poll.Ready(f)
		}

		if remoteHint == nil && sameAddressType {
			f := entry.Frame
			b.removeSendRequested(i)
			return poll.Ready(f)
		}
	}
	return poll.Pending[frame.LinkFrame]()
}

// Execute runs the sweep: each unmarked entry becomes marked; each
// already-marked entry is evicted. This bounds residency to two sweep
// intervals after an entry's last touch, per spec.md §4.1.
func (b *Broker) Execute(now time.Time) {
	if b.sweep.Poll(now).IsPending() {
		return
	}

	evicted := 0
	kept := b.received[:0]
	for _, entry := range b.received {
		if entry.markedForSweep {
			evicted++
			continue
		}
		entry.markedForSweep = true
		kept = append(kept, entry)
	}
	b.received = kept

	keptSend := b.sendRequested[:0]
	for _, entry := range b.sendRequested {
		if entry.markedForSweep {
			evicted++
			continue
		}
		entry.markedForSweep = true
		keptSend = append(keptSend, entry)
	}
	b.sendRequested = keptSend

	if evicted > 0 {
		b.evictionNotice.Do(func() {
			b.logger.Infof("link: broker swept %d stale entries", evicted)
		})
	}
}
