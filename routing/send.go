package routing

import (
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/poll"
)

// sendTaskTimeout bounds how long the overlay's one in-flight send
// task may take, mirroring the AT-modem command timeouts elsewhere in
// the module (e.g. media/wifi's defaultCommandTimeout).
const sendTaskTimeout = 3 * time.Second

type sendKind int

const (
	sendUnicast sendKind = iota
	sendBroadcast
)

// sendTask is the overlay's single outstanding send, covering both a
// caller-initiated request and an internally generated repeat; the
// distinction is only that a repeat carries no promise to resolve, per
// spec.md §4.7's "one task at a time" send pipeline.
type sendTask struct {
	kind    sendKind
	timeout poll.Delay

	destination addr.NodeId // unicast: discovery target
	neighbor    addr.NodeId // unicast: resolved next hop
	resolved    bool

	ignore    addr.NodeId // broadcast: excluded neighbor (the previous hop)
	hasIgnore bool

	reader     *frame.Reader
	promise    poll.Promise[error]
	hasPromise bool
}

func newUnicastSendTask(now time.Time, destination addr.NodeId, reader *frame.Reader) *sendTask {
	return &sendTask{
		kind:        sendUnicast,
		timeout:     poll.NewDelay(now, sendTaskTimeout),
		destination: destination,
		reader:      reader,
	}
}

func newBroadcastSendTask(now time.Time, reader *frame.Reader, ignore addr.NodeId, hasIgnore bool) *sendTask {
	return &sendTask{
		kind:      sendBroadcast,
		timeout:   poll.NewDelay(now, sendTaskTimeout),
		reader:    reader,
		ignore:    ignore,
		hasIgnore: hasIgnore,
	}
}

// withPromise attaches a caller-visible result promise; repeats never
// call this and simply let resolve's no-op path discard the outcome.
func (t *sendTask) withPromise(p poll.Promise[error]) *sendTask {
	t.promise = p
	t.hasPromise = true
	return t
}

func (t *sendTask) resolve(err error) {
	if t.hasPromise {
		t.promise.Resolve(err)
	}
}

// poll drives the task one tick. It returns Ready once the task has
// either succeeded or failed terminally (the result, if any caller is
// watching, is already on its promise).
func (t *sendTask) poll(now time.Time, socket NeighborSocket, discovery Discovery, logger Logger) poll.Poll[poll.Void] {
	if t.timeout.Poll(now).IsReady() {
		logger.Warnf("routing: send task timed out")
		t.resolve(ErrTimeout)
		return poll.ReadyVoid()
	}

	switch t.kind {
	case sendUnicast:
		if !t.resolved {
			next, done := discovery.PollNextHop(t.destination).Unwrap()
			if !done {
				return poll.Pending[poll.Void]()
			}
			if !next.Found {
				logger.Infof("routing: no route to %s", t.destination)
				t.resolve(ErrUnreachableNode)
				return poll.ReadyVoid()
			}
			t.neighbor = next.Neighbor
			t.resolved = true
		}
		if socket.PollSendUnicast(t.neighbor, t.reader).IsPending() {
			return poll.Pending[poll.Void]()
		}
		t.resolve(nil)
		return poll.ReadyVoid()

	case sendBroadcast:
		if socket.PollSendBroadcast(t.reader, t.ignore, t.hasIgnore).IsPending() {
			return poll.Pending[poll.Void]()
		}
		t.resolve(nil)
		return poll.ReadyVoid()

	default:
		return poll.ReadyVoid()
	}
}
