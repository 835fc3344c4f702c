package routing

import (
	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/poll"
)

// MockSentFrame is one completed outbound neighbor-socket send
// captured by [MockNeighborSocket.Sent].
type MockSentFrame struct {
	Broadcast bool
	Neighbor  addr.NodeId // set when !Broadcast
	Ignore    addr.NodeId // set when Broadcast && HasIgnore
	HasIgnore bool
	Payload   []byte
}

// MockNeighborSocket is an in-memory [NeighborSocket] for tests:
// inbound frames are queued with FeedFrame, outbound sends land in
// Sent, following the same in-memory-double shape as
// media/ethernet.MockSocket.
type MockNeighborSocket struct {
	pool *frame.Pool
	mtu  int

	pending []*frame.Reader
	Sent    []MockSentFrame
}

var _ NeighborSocket = &MockNeighborSocket{}

// NewMockNeighborSocket creates a MockNeighborSocket backed by pool,
// reporting mtu as its MTU.
func NewMockNeighborSocket(pool *frame.Pool, mtu int) *MockNeighborSocket {
	return &MockNeighborSocket{pool: pool, mtu: mtu}
}

// FeedFrame queues an inbound neighbor-socket frame (already-encoded
// routing header plus payload, exactly as it arrived on the wire).
func (m *MockNeighborSocket) FeedFrame(data []byte) {
	w, ok := m.pool.RequestWriter(len(data)).Unwrap()
	if !ok {
		panic("routing: MockNeighborSocket pool exhausted, size the test pool larger")
	}
	copy(w.WriteBufferUnchecked(len(data)), data)
	m.pending = append(m.pending, w.CreateReader())
}

// MTU implements NeighborSocket.
func (m *MockNeighborSocket) MTU() int {
	return m.mtu
}

// PollRequestWriter implements NeighborSocket.
func (m *MockNeighborSocket) PollRequestWriter(length int) poll.Poll[*frame.Writer] {
	return m.pool.RequestWriter(length)
}

// PollReceiveFrame implements NeighborSocket.
func (m *MockNeighborSocket) PollReceiveFrame() poll.Poll[*frame.Reader] {
	if len(m.pending) == 0 {
		return poll.Pending[*frame.Reader]()
	}
	r := m.pending[0]
	m.pending = m.pending[1:]
	return poll.Ready(r)
}

// PollSendUnicast implements NeighborSocket.
func (m *MockNeighborSocket) PollSendUnicast(neighbor addr.NodeId, reader *frame.Reader) poll.Poll[poll.Void] {
	m.Sent = append(m.Sent, MockSentFrame{Neighbor: neighbor, Payload: drain(reader)})
	reader.Release()
	return poll.ReadyVoid()
}

// PollSendBroadcast implements NeighborSocket.
func (m *MockNeighborSocket) PollSendBroadcast(reader *frame.Reader, ignore addr.NodeId, hasIgnore bool) poll.Poll[poll.Void] {
	m.Sent = append(m.Sent, MockSentFrame{
		Broadcast: true,
		Ignore:    ignore,
		HasIgnore: hasIgnore,
		Payload:   drain(reader),
	})
	reader.Release()
	return poll.ReadyVoid()
}

func drain(r *frame.Reader) []byte {
	return append([]byte(nil), r.ReadBufferUnchecked(r.ReadableLength())...)
}
