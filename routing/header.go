package routing

import (
	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
)

// Header is the routing-layer frame header, carried in front of the
// upper-layer payload on every neighbor-socket frame, per spec.md §6's
// wire format: source node id, destination node id, destination
// cluster id, previous-hop node id, frame id, all big-endian
// concatenated.
type Header struct {
	Source      addr.NodeId
	Destination addr.Destination
	PreviousHop addr.NodeId
	FrameID     FrameId
}

// Encode appends the wire representation of h to buf.
func (h Header) Encode(buf []byte) []byte {
	buf = h.Source.Encode(buf)
	buf = h.Destination.Encode(buf)
	buf = h.PreviousHop.Encode(buf)
	return h.FrameID.Encode(buf)
}

// DecodeHeader reads a [Header] from the front of buf, returning the
// decoded value and the number of bytes consumed.
func DecodeHeader(buf []byte) (Header, int, error) {
	source, n, err := addr.DecodeNodeID(buf)
	if err != nil {
		return Header{}, 0, err
	}
	destination, m, err := addr.DecodeDestination(buf[n:])
	if err != nil {
		return Header{}, 0, err
	}
	n += m
	previousHop, m, err := addr.DecodeNodeID(buf[n:])
	if err != nil {
		return Header{}, 0, err
	}
	n += m
	frameID, m, err := DecodeFrameId(buf[n:])
	if err != nil {
		return Header{}, 0, err
	}
	n += m
	return Header{
		Source:      source,
		Destination: destination,
		PreviousHop: previousHop,
		FrameID:     frameID,
	}, n, nil
}

// Frame is a fully parsed routing frame: the header plus a reader
// positioned at the start of the upper-layer payload.
type Frame struct {
	Header  Header
	Payload *frame.Reader
}

// ParseFrame decodes a [Header] off the front of r and copies the
// remaining bytes into a freshly pooled payload reader.
//
// r's bytes live in a reader tied to the neighbor socket's own receive
// buffer; since [frame.Reader] exposes no way to carve an
// already-framed reader into two independently-released pieces, the
// header bytes and payload bytes are read out of r in one shot and the
// payload is copied into a pool slot of its own, after which r is
// released regardless of outcome.
//
// It reports ok=false with a nil error when pool exhausts (the caller
// should drop the frame, per spec.md §7's PoolExhausted policy), and
// ok=false with a non-nil error when the bytes are malformed (the
// caller should resync).
func ParseFrame(pool *frame.Pool, r *frame.Reader) (f Frame, ok bool, err error) {
	raw := r.ReadBufferUnchecked(r.ReadableLength())
	defer r.Release()

	header, n, err := DecodeHeader(raw)
	if err != nil {
		return Frame{}, false, err
	}
	payload := raw[n:]

	writer, ready := pool.RequestWriter(len(payload)).Unwrap()
	if !ready {
		return Frame{}, false, nil
	}
	copy(writer.WriteBufferUnchecked(len(payload)), payload)

	return Frame{Header: header, Payload: writer.CreateReader()}, true, nil
}
