package main

import "github.com/keke1008/meshnet/media"

// pipeStream is a [media.Stream] end backed by a shared byte queue,
// used to join two port drivers directly in-process the way two nodes
// on a real wired bus would be joined by copper: there is no modem
// chip in between, so a plain byte pipe is a faithful stand-in. Built
// for the serial bus demo mode, since media/serialport's framing runs
// peer-to-peer over the wire rather than through a local AT-command
// modem the way media/uhf and media/wifi do.
type pipeStream struct {
	in  *byteQueue
	out *byteQueue
}

// newPipeStreamPair returns two ends of the same pipe: whatever is
// written to one is readable from the other.
func newPipeStreamPair() (a, b *pipeStream) {
	ab := &byteQueue{}
	ba := &byteQueue{}
	return &pipeStream{in: ba, out: ab}, &pipeStream{in: ab, out: ba}
}

var _ media.Stream = &pipeStream{}

func (p *pipeStream) ReadableCount() int {
	return p.in.Len()
}

func (p *pipeStream) ReadByte() byte {
	return p.in.Pop()
}

func (p *pipeStream) WritableCount() int {
	return 1 << 20
}

func (p *pipeStream) WriteByte(b byte) bool {
	p.out.Push(b)
	return true
}

// byteQueue is an unbounded FIFO of bytes; a real bus has no practical
// bound a host-side simulation needs to enforce.
type byteQueue struct {
	buf []byte
}

func (q *byteQueue) Push(b byte) {
	q.buf = append(q.buf, b)
}

func (q *byteQueue) Pop() byte {
	b := q.buf[0]
	q.buf = q.buf[1:]
	return b
}

func (q *byteQueue) Len() int {
	return len(q.buf)
}
