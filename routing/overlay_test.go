package routing

import (
	"testing"
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/internal"
	"github.com/keke1008/meshnet/poll"
)

func nodeID(n byte) addr.NodeId {
	return addr.NodeIDFromAddress(addr.NewSerialAddress(n))
}

func encodeRoutingFrame(h Header, payload string) []byte {
	return append(h.Encode(nil), []byte(payload)...)
}

func newTestOverlay(local addr.NodeId) (*Overlay, *MockNeighborSocket, *MockDiscovery) {
	pool := frame.NewPool(8)
	socket := NewMockNeighborSocket(pool, frame.MaxPayloadLength)
	discovery := NewMockDiscovery()
	overlay := NewOverlay(local, socket, discovery, nil, pool, poll.NewRand(1), &internal.NullLogger{})
	return overlay, socket, discovery
}

func TestOverlayDuplicateSuppressionDeliversOnlyOnce(t *testing.T) {
	now := time.Unix(0, 0)
	local := nodeID(2)
	overlay, socket, _ := newTestOverlay(local)

	h := Header{
		Source:      nodeID(1),
		Destination: addr.NewUnicastDestination(local),
		PreviousHop: nodeID(1),
		FrameID:     0xBEEF,
	}
	data := encodeRoutingFrame(h, "hello")
	socket.FeedFrame(data)
	socket.FeedFrame(data)

	overlay.Execute(now) // ingests the first copy
	overlay.Execute(now) // ingests the second copy; dropped as a duplicate

	if overlay.delays.Len() != 1 {
		t.Fatalf("expected exactly one delay-pool entry, got %d", overlay.delays.Len())
	}

	overlay.Execute(now.Add(DefaultCost.Duration() + time.Millisecond)) // expires and accepts

	f, ok := overlay.PollReceiveFrame().Unwrap()
	if !ok {
		t.Fatal("expected the surviving frame to be accepted")
	}
	if got := f.Payload.ReadBufferUnchecked(f.Payload.ReadableLength()); string(got) != "hello" {
		t.Fatalf("got payload %q, want hello", got)
	}

	if _, ok := overlay.PollReceiveFrame().Unwrap(); ok {
		t.Fatal("expected no second accepted frame")
	}
}

func TestOverlayUnicastRepeatRewritesPreviousHop(t *testing.T) {
	now := time.Unix(0, 0)
	localB := nodeID(2)
	nodeC := nodeID(3)
	nodeD := nodeID(4)

	overlay, socket, discovery := newTestOverlay(localB)
	discovery.Routes[nodeC] = nodeD

	h := Header{
		Source:      nodeID(1),
		Destination: addr.NewUnicastDestination(nodeC),
		PreviousHop: nodeID(1),
		FrameID:     0x1234,
	}
	socket.FeedFrame(encodeRoutingFrame(h, "payload"))

	overlay.Execute(now)
	overlay.Execute(now.Add(DefaultCost.Duration() + time.Millisecond))

	if len(socket.Sent) != 1 {
		t.Fatalf("expected exactly one repeat send, got %d", len(socket.Sent))
	}
	sent := socket.Sent[0]
	if sent.Broadcast {
		t.Fatal("expected a unicast repeat, not broadcast")
	}
	if !sent.Neighbor.Equal(nodeD) {
		t.Fatalf("got neighbor %v, want %v", sent.Neighbor, nodeD)
	}

	decoded, n, err := DecodeHeader(sent.Payload)
	if err != nil {
		t.Fatalf("decode failed: %s", err)
	}
	if !decoded.PreviousHop.Equal(localB) {
		t.Fatalf("expected previous_hop rewritten to %v, got %v", localB, decoded.PreviousHop)
	}
	if !decoded.Destination.Equal(h.Destination) || decoded.FrameID != h.FrameID {
		t.Fatalf("expected destination/frame id preserved, got %+v", decoded)
	}
	if got := string(sent.Payload[n:]); got != "payload" {
		t.Fatalf("got repeat payload %q, want payload", got)
	}

	if _, ok := overlay.PollReceiveFrame().Unwrap(); ok {
		t.Fatal("expected no accept for a destination that isn't ours")
	}
}

func TestOverlayBroadcastThatIncludesUsAcceptsAndRepeats(t *testing.T) {
	now := time.Unix(0, 0)
	local := nodeID(2)
	prev := nodeID(1)

	overlay, socket, _ := newTestOverlay(local)

	h := Header{
		Source:      prev,
		Destination: addr.NewBroadcastDestination(),
		PreviousHop: prev,
		FrameID:     0x4242,
	}
	socket.FeedFrame(encodeRoutingFrame(h, "all"))

	overlay.Execute(now)
	overlay.Execute(now.Add(DefaultCost.Duration() + time.Millisecond))

	f, ok := overlay.PollReceiveFrame().Unwrap()
	if !ok {
		t.Fatal("expected the broadcast frame to be accepted locally")
	}
	if got := f.Payload.ReadBufferUnchecked(f.Payload.ReadableLength()); string(got) != "all" {
		t.Fatalf("got payload %q, want all", got)
	}

	if len(socket.Sent) != 1 {
		t.Fatalf("expected exactly one broadcast repeat, got %d", len(socket.Sent))
	}
	sent := socket.Sent[0]
	if !sent.Broadcast || !sent.HasIgnore || !sent.Ignore.Equal(prev) {
		t.Fatalf("expected a broadcast repeat excluding %v, got %+v", prev, sent)
	}
}

func TestOverlayPollRequestSendGatesOnOutstandingTask(t *testing.T) {
	now := time.Unix(0, 0)
	local := nodeID(1)
	overlay, _, discovery := newTestOverlay(local)
	discovery.Routes[nodeID(2)] = nodeID(3)

	pool := frame.NewPool(4)
	w, ok := pool.RequestWriter(2).Unwrap()
	if !ok {
		t.Fatal("expected a writer")
	}
	w.Write('h')
	w.Write('i')

	future, ready := overlay.PollRequestSend(now, addr.NewUnicastDestination(nodeID(2)), w.CreateReader()).Unwrap()
	if !ready {
		t.Fatal("expected the first send to be accepted")
	}

	w2, ok := pool.RequestWriter(1).Unwrap()
	if !ok {
		t.Fatal("expected a writer")
	}
	w2.Write('x')
	if _, ready := overlay.PollRequestSend(now, addr.NewUnicastDestination(nodeID(2)), w2.CreateReader()).Unwrap(); ready {
		t.Fatal("expected the second send to report Pending while one task is outstanding")
	}

	overlay.Execute(now)
	if _, state := future.Poll(); state != poll.FutureReady {
		t.Fatalf("expected the first send's future to resolve, got state %d", state)
	}
}

func TestOverlayPollRequestSendRejectsOversizedPayload(t *testing.T) {
	now := time.Unix(0, 0)
	local := nodeID(1)
	pool := frame.NewPool(4)
	socket := NewMockNeighborSocket(pool, 8)
	overlay := NewOverlay(local, socket, NewMockDiscovery(), nil, pool, poll.NewRand(1), &internal.NullLogger{})

	w, ok := pool.RequestWriter(40).Unwrap()
	if !ok {
		t.Fatal("expected a writer")
	}
	copy(w.WriteBufferUnchecked(40), make([]byte, 40))

	future, ready := overlay.PollRequestSend(now, addr.NewUnicastDestination(nodeID(2)), w.CreateReader()).Unwrap()
	if !ready {
		t.Fatal("expected an immediate rejection, not Pending")
	}
	err, state := future.Poll()
	if state != poll.FutureReady || err != ErrPayloadTooLarge {
		t.Fatalf("got err=%v state=%d, want ErrPayloadTooLarge/Ready", err, state)
	}
}
