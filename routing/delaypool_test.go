package routing

import (
	"testing"
	"time"
)

func TestDelayPoolExpiresByCostNotArrivalOrder(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewDelayPool()

	late := Frame{Header: Header{FrameID: 1}}
	early := Frame{Header: Header{FrameID: 2}}

	if !p.Push(now, Cost(50), late) {
		t.Fatal("expected push to succeed")
	}
	if !p.Push(now, Cost(10), early) {
		t.Fatal("expected push to succeed")
	}

	if expired := p.PopExpired(now.Add(20 * time.Millisecond)); len(expired) != 1 || expired[0].Header.FrameID != 2 {
		t.Fatalf("expected only the cheaper frame to have expired, got %+v", expired)
	}
	if expired := p.PopExpired(now.Add(60 * time.Millisecond)); len(expired) != 1 || expired[0].Header.FrameID != 1 {
		t.Fatalf("expected the costlier frame to expire next, got %+v", expired)
	}
}

func TestDelayPoolRejectsPushPastCapacity(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewDelayPool()
	for i := 0; i < DelayPoolCapacity; i++ {
		if !p.Push(now, Cost(1), Frame{Header: Header{FrameID: FrameId(i)}}) {
			t.Fatalf("expected push %d to succeed", i)
		}
	}
	if p.Push(now, Cost(1), Frame{Header: Header{FrameID: 99}}) {
		t.Fatal("expected push past capacity to be rejected")
	}
	if p.Len() != DelayPoolCapacity {
		t.Fatalf("got len %d, want %d", p.Len(), DelayPoolCapacity)
	}
}
