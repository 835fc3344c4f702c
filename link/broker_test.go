package link

import (
	"testing"
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/internal"
)

func testFrame(t *testing.T, protocol frame.ProtocolNumber, remote addr.LinkAddress) frame.LinkFrame {
	t.Helper()
	pool := frame.NewPool(4)
	w, ok := pool.RequestWriter(0).Unwrap()
	if !ok {
		t.Fatal("expected writer")
	}
	return frame.LinkFrame{ProtocolNumber: protocol, Remote: remote, Reader: w.CreateReader()}
}

func TestBrokerReceiveRoundTrip(t *testing.T) {
	base := time.Unix(0, 0)
	b := NewBroker(base, &internal.NullLogger{})

	f := testFrame(t, 7, addr.NewUnicastLinkAddress(addr.NewSerialAddress(1)))
	if b.PollDispatchReceivedFrame(f, 0).IsPending() {
		t.Fatal("expected dispatch to succeed")
	}

	if b.PollReceiveFrame(9).IsReady() {
		t.Fatal("expected no match for the wrong protocol")
	}

	got, ok := b.PollReceiveFrame(7).Unwrap()
	if !ok {
		t.Fatal("expected a match for the right protocol")
	}
	if got.ProtocolNumber != 7 {
		t.Fatal("unexpected protocol on dequeued frame")
	}

	if b.PollReceiveFrame(7).IsReady() {
		t.Fatal("a received frame must only be delivered once")
	}
}

func TestBrokerReceiveQueueFull(t *testing.T) {
	base := time.Unix(0, 0)
	b := NewBroker(base, &internal.NullLogger{})

	for i := 0; i < QueueCapacity; i++ {
		f := testFrame(t, frame.ProtocolNumber(i), addr.NewUnicastLinkAddress(addr.NewSerialAddress(1)))
		if b.PollDispatchReceivedFrame(f, 0).IsPending() {
			t.Fatal("expected room in the queue")
		}
	}

	overflow := testFrame(t, 99, addr.NewUnicastLinkAddress(addr.NewSerialAddress(1)))
	if b.PollDispatchReceivedFrame(overflow, 0).IsReady() {
		t.Fatal("expected backpressure once the queue is full")
	}
}

func TestBrokerSendRemoteHintPriority(t *testing.T) {
	base := time.Unix(0, 0)
	b := NewBroker(base, &internal.NullLogger{})

	other := addr.NewSerialAddress(2)
	hinted := addr.NewSerialAddress(5)

	f1 := testFrame(t, 1, addr.NewUnicastLinkAddress(other))
	f2 := testFrame(t, 2, addr.NewUnicastLinkAddress(hinted))
	b.PollRequestSendFrame(f1.ProtocolNumber, f1.Remote, f1.Reader, nil)
	b.PollRequestSendFrame(f2.ProtocolNumber, f2.Remote, f2.Reader, nil)

	got, ok := b.PollGetSendRequestedFrame(addr.Serial, 0, &hinted).Unwrap()
	if !ok {
		t.Fatal("expected a match")
	}
	if got.ProtocolNumber != 2 {
		t.Fatalf("expected the hinted entry, got protocol %d", got.ProtocolNumber)
	}
}

func TestBrokerSendPinnedPortMismatchDiscarded(t *testing.T) {
	base := time.Unix(0, 0)
	b := NewBroker(base, &internal.NullLogger{})

	f := testFrame(t, 1, addr.NewUnicastLinkAddress(addr.NewUHFAddress(9)))
	pinned := PortNumber(0)
	b.PollRequestSendFrame(f.ProtocolNumber, f.Remote, f.Reader, &pinned)

	// the pinned port itself polling with a mismatched address type must
	// discard the entry, not return it to anyone
	if b.PollGetSendRequestedFrame(addr.Serial, pinned, nil).IsReady() {
		t.Fatal("expected mismatched address type on a pinned entry to be discarded, not returned")
	}
	if b.PollGetSendRequestedFrame(addr.UHF, pinned, nil).IsReady() {
		t.Fatal("the entry should already have been discarded by the previous poll")
	}
}

func TestBrokerSendFirstMatchNoPin(t *testing.T) {
	base := time.Unix(0, 0)
	b := NewBroker(base, &internal.NullLogger{})

	f1 := testFrame(t, 1, addr.NewUnicastLinkAddress(addr.NewSerialAddress(1)))
	f2 := testFrame(t, 2, addr.NewUnicastLinkAddress(addr.NewSerialAddress(2)))
	b.PollRequestSendFrame(f1.ProtocolNumber, f1.Remote, f1.Reader, nil)
	b.PollRequestSendFrame(f2.ProtocolNumber, f2.Remote, f2.Reader, nil)

	got, ok := b.PollGetSendRequestedFrame(addr.Serial, 0, nil).Unwrap()
	if !ok || got.ProtocolNumber != 1 {
		t.Fatal("expected the first matching unpinned entry")
	}
}

func TestBrokerNeverDeliversSendEntryTwice(t *testing.T) {
	base := time.Unix(0, 0)
	b := NewBroker(base, &internal.NullLogger{})
	f := testFrame(t, 1, addr.NewUnicastLinkAddress(addr.NewSerialAddress(1)))
	b.PollRequestSendFrame(f.ProtocolNumber, f.Remote, f.Reader, nil)

	if _, ok := b.PollGetSendRequestedFrame(addr.Serial, 0, nil).Unwrap(); !ok {
		t.Fatal("expected first poll to succeed")
	}
	if b.PollGetSendRequestedFrame(addr.Serial, 0, nil).IsReady() {
		t.Fatal("a send entry must never be delivered to more than one port")
	}
}

// TestBrokerSweepEvictsAfterTwoIntervals covers spec.md §8 scenario 8:
// an entry nobody claims is gone by the end of the third sweep
// interval.
func TestBrokerSweepEvictsAfterTwoIntervals(t *testing.T) {
	base := time.Unix(0, 0)
	b := NewBroker(base, &internal.NullLogger{})

	f := testFrame(t, 1, addr.NewUnicastLinkAddress(addr.NewWebSocketAddress([4]byte{1, 2, 3, 4}, 9)))
	b.PollRequestSendFrame(f.ProtocolNumber, f.Remote, f.Reader, nil)

	now := base
	for i := 0; i < 3; i++ {
		now = now.Add(SweepInterval)
		b.Execute(now)
	}

	if b.PollGetSendRequestedFrame(addr.WebSocket, 0, nil).IsReady() {
		t.Fatal("expected the unclaimed entry to have been swept away")
	}
}

func TestBrokerSweepDoesNotEvictRecentlyTouchedEntry(t *testing.T) {
	base := time.Unix(0, 0)
	b := NewBroker(base, &internal.NullLogger{})
	f := testFrame(t, 1, addr.NewUnicastLinkAddress(addr.NewSerialAddress(1)))
	b.PollRequestSendFrame(f.ProtocolNumber, f.Remote, f.Reader, nil)

	// one sweep interval marks it; it should still be there
	b.Execute(base.Add(SweepInterval))
	if b.PollGetSendRequestedFrame(addr.Serial, 0, nil).IsPending() {
		t.Fatal("expected entry to still be present after only one sweep")
	}
}
