package media

import (
	"testing"

	"github.com/keke1008/meshnet/frame"
)

func TestFramePayloadRoundTrip(t *testing.T) {
	pool := frame.NewPool(2)
	w, ok := pool.RequestWriter(4).Unwrap()
	if !ok {
		t.Fatal("expected a writer")
	}

	in := NewMockStream('w', 'x', 'y', 'z')
	fpr := NewFramePayloadReader(w)
	reader, ok := fpr.Poll(in).Unwrap()
	if !ok {
		t.Fatal("expected the payload to complete in one tick")
	}

	out := NewMockStream()
	fpw := NewFramePayloadWriter(reader)
	if fpw.Poll(out).IsPending() {
		t.Fatal("expected the payload to drain in one tick")
	}
	if string(out.Written()) != "wxyz" {
		t.Fatalf("got %q", out.Written())
	}
}

func TestFramePayloadReaderAcrossTicks(t *testing.T) {
	pool := frame.NewPool(2)
	w, ok := pool.RequestWriter(3).Unwrap()
	if !ok {
		t.Fatal("expected a writer")
	}

	in := NewMockStream('a')
	fpr := NewFramePayloadReader(w)
	if fpr.Poll(in).IsReady() {
		t.Fatal("expected pending with only 1 of 3 bytes available")
	}
	in.Feed('b', 'c')
	if _, ok := fpr.Poll(in).Unwrap(); !ok {
		t.Fatal("expected ready once all bytes arrived")
	}
}
