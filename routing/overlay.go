package routing

import (
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/poll"
)

// pendingRepeatsCapacity bounds the queue of repeat tasks waiting for
// the single send-task slot to free up; sized the same as
// [DelayPoolCapacity] since at most one repeat is ever scheduled per
// delay-pool expiration.
const pendingRepeatsCapacity = DelayPoolCapacity

// Overlay is the routing overlay: one [FrameIdCache], one [DelayPool],
// a single accept slot, and a single in-flight send task, per spec.md
// §4.7. The zero value is not usable; construct with [NewOverlay].
type Overlay struct {
	local addr.NodeId

	socket        NeighborSocket
	discovery     Discovery
	costEstimator CostEstimator
	pool          *frame.Pool
	rng           *poll.Rand
	logger        Logger

	cache  FrameIdCache
	delays *DelayPool

	accepted *Frame
	task     *sendTask
	repeats  []*sendTask
}

// NewOverlay constructs an Overlay for local, using socket as its
// transport, pool for assembling outbound frames, and rng for frame id
// generation. costEstimator may be nil, in which case every neighbor is
// estimated at [DefaultCost].
func NewOverlay(
	local addr.NodeId,
	socket NeighborSocket,
	discovery Discovery,
	costEstimator CostEstimator,
	pool *frame.Pool,
	rng *poll.Rand,
	logger Logger,
) *Overlay {
	if costEstimator == nil {
		costEstimator = staticCostEstimator{}
	}
	return &Overlay{
		local:         local,
		socket:        socket,
		discovery:     discovery,
		costEstimator: costEstimator,
		pool:          pool,
		rng:           rng,
		logger:        logger,
		delays:        NewDelayPool(),
	}
}

// matchesLocal reports whether destination addresses this node,
// covering both the unicast and broadcast/multicast "we belong" cases
// spec.md §4.7's accept rule names.
func (o *Overlay) matchesLocal(destination addr.Destination) bool {
	if destination.IsUnicast() {
		return destination.NodeID.Equal(o.local)
	}
	// Broadcast/multicast: every node, including this one, belongs.
	// Cluster membership is out of scope for this layer (see
	// SPEC_FULL.md); a concrete deployment would consult a cluster
	// membership table here instead of unconditionally accepting.
	return true
}

// pollIngest dispatches a raw neighbor frame into the cache and delay
// pool. It reports PoolExhausted/InvalidWireBytes failures via logging
// only, per spec.md §7; callers never see those as distinct from
// "nothing happened this tick".
func (o *Overlay) pollIngest(now time.Time) {
	reader, ready := o.socket.PollReceiveFrame().Unwrap()
	if !ready {
		return
	}

	f, ok, err := ParseFrame(o.pool, reader)
	if err != nil {
		o.logger.Warnf("routing: malformed neighbor frame: %v", err)
		return
	}
	if !ok {
		o.logger.Infof("routing: dropped neighbor frame, pool exhausted")
		return
	}

	if o.cache.Contains(f.Header.FrameID) {
		f.Payload.Release()
		return
	}
	o.cache.Insert(f.Header.FrameID)

	cost := o.costEstimator.EstimateCost(f.Header.PreviousHop)
	if !o.delays.Push(now, cost, f) {
		o.logger.Infof("routing: delay pool full, dropping frame %v", f.Header.FrameID)
		f.Payload.Release()
	}
}

// scheduleRepeat queues a repeat send task, dropping it silently (with
// a log line) if the pending-repeats queue is already full.
func (o *Overlay) scheduleRepeat(t *sendTask) {
	if len(o.repeats) >= pendingRepeatsCapacity {
		o.logger.Infof("routing: repeat queue full, dropping frame")
		t.reader.Release()
		return
	}
	o.repeats = append(o.repeats, t)
}

// pollExpire runs the accept/repeat decision for every frame the delay
// pool has released this tick, per spec.md §4.7/§8 invariant 4.
func (o *Overlay) pollExpire(now time.Time) {
	for _, f := range o.delays.PopExpired(now) {
		matches := o.matchesLocal(f.Header.Destination)
		isBroadcastLike := !f.Header.Destination.IsUnicast()

		accepting := matches && o.accepted == nil
		repeating := isBroadcastLike || !matches

		switch {
		case accepting && repeating:
			// Broadcast/multicast that also includes us: exactly both,
			// per spec.md §8 invariant 4. Hand the repeat an
			// independent reader over the same bytes so consuming one
			// never disturbs the other.
			repeatPayload := f.Payload.Subreader()
			accepted := f
			o.accepted = &accepted
			if t := o.buildRepeatTask(now, Frame{Header: f.Header, Payload: repeatPayload}, true); t != nil {
				o.scheduleRepeat(t)
			}
		case accepting:
			accepted := f
			o.accepted = &accepted
		case repeating:
			if t := o.buildRepeatTask(now, f, isBroadcastLike); t != nil {
				o.scheduleRepeat(t)
			}
		default:
			// Accept slot occupied and nothing to repeat: drop
			// silently, per spec.md §4.7's accept-slot policy.
			f.Payload.Release()
		}
	}
}

// buildRepeatTask rewrites previous_hop to the local node and encodes
// a fresh header, keeping source, destination, and frame id unchanged,
// per spec.md §4.7's repeat rules.
func (o *Overlay) buildRepeatTask(now time.Time, f Frame, broadcast bool) *sendTask {
	header := Header{
		Source:      f.Header.Source,
		Destination: f.Header.Destination,
		PreviousHop: o.local,
		FrameID:     f.Header.FrameID,
	}
	headerLen := len(header.Encode(nil))
	payloadLen := f.Payload.ReadableLength()

	writer, ready := o.socket.PollRequestWriter(headerLen + payloadLen).Unwrap()
	if !ready {
		o.logger.Infof("routing: dropped repeat, pool exhausted")
		f.Payload.Release()
		return nil
	}
	copy(writer.WriteBufferUnchecked(headerLen), header.Encode(make([]byte, 0, headerLen)))
	copy(writer.WriteBufferUnchecked(payloadLen), f.Payload.ReadBufferUnchecked(payloadLen))
	f.Payload.Release()

	reader := writer.CreateReader()
	if broadcast {
		return newBroadcastSendTask(now, reader, f.Header.PreviousHop, true)
	}
	return newUnicastSendTask(now, f.Header.Destination.NodeID, reader)
}

// PollReceiveFrame returns an accepted frame addressed to this node, or
// Pending if none is waiting.
func (o *Overlay) PollReceiveFrame() poll.Poll[Frame] {
	if o.accepted == nil {
		return poll.Pending[Frame]()
	}
	f := *o.accepted
	o.accepted = nil
	return poll.Ready(f)
}

// PollRequestSend reserves a routing header addressed to destination
// and hands payload's bytes off to the neighbor socket, per spec.md
// §4.7's send-initiation steps. payload is always released by this
// call, whether or not the send is accepted.
//
// It reports Pending if a send task is already in flight (the overlay
// allows exactly one at a time); the caller should retry on a later
// tick, same as the port drivers' dynamic command gating.
func (o *Overlay) PollRequestSend(now time.Time, destination addr.Destination, payload *frame.Reader) poll.Poll[poll.Future[error]] {
	if o.task != nil {
		return poll.Pending[poll.Future[error]]()
	}

	header := Header{
		Source:      o.local,
		Destination: destination,
		PreviousHop: o.local,
		FrameID:     NewFrameId(o.rng),
	}
	headerLen := len(header.Encode(nil))
	payloadLen := payload.ReadableLength()

	if headerLen+payloadLen > o.socket.MTU() {
		payload.Release()
		future, promise := poll.NewFuture[error]()
		promise.Resolve(ErrPayloadTooLarge)
		return poll.Ready(future)
	}

	writer, ready := o.socket.PollRequestWriter(headerLen + payloadLen).Unwrap()
	if !ready {
		return poll.Pending[poll.Future[error]]()
	}

	copy(writer.WriteBufferUnchecked(headerLen), header.Encode(make([]byte, 0, headerLen)))
	copy(writer.WriteBufferUnchecked(payloadLen), payload.ReadBufferUnchecked(payloadLen))
	payload.Release()
	o.cache.Insert(header.FrameID)

	future, promise := poll.NewFuture[error]()
	reader := writer.CreateReader()

	var task *sendTask
	if destination.IsUnicast() {
		task = newUnicastSendTask(now, destination.NodeID, reader)
	} else {
		task = newBroadcastSendTask(now, reader, addr.NodeId{}, false)
	}
	o.task = task.withPromise(promise)
	return poll.Ready(future)
}

// Execute advances ingestion, delay-pool expiration, and the
// in-flight send task by one tick.
func (o *Overlay) Execute(now time.Time) {
	o.pollIngest(now)
	o.pollExpire(now)

	if o.task == nil {
		if len(o.repeats) > 0 {
			o.task, o.repeats = o.repeats[0], o.repeats[1:]
		} else {
			return
		}
	}

	if o.task.poll(now, o.socket, o.discovery, o.logger).IsReady() {
		o.task = nil
	}
}
