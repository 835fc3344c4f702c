package frame

import "github.com/keke1008/meshnet/addr"

// LinkFrame is a single link-layer frame in flight between a media port
// and the broker. Ownership follows whichever side currently holds it
// in a queue slot; it is moved, never copied, on dequeue (Go has no
// move semantics, so callers must simply stop using a LinkFrame once
// they have handed it off).
type LinkFrame struct {
	ProtocolNumber ProtocolNumber
	Remote         addr.LinkAddress
	Reader         *Reader
}
