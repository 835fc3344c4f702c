package addr

import "fmt"

// wire tag bytes for NodeId, distinct from the in-memory [Type]
// ordinals so the reserved broadcast tag (0xff) can sit far away from
// the small medium tags without wasting iota values in [Type].
const (
	wireTagSerial    byte = 0x00
	wireTagUHF       byte = 0x01
	wireTagUDP       byte = 0x02
	wireTagWebSocket byte = 0x03
	wireTagBroadcast byte = 0xff
)

// NodeId identifies a node in the mesh: tagged like [Address], plus a
// Broadcast tag (wire tag 0xff, zero-length body). Two NodeIds compare
// equal when their tags and bodies agree.
type NodeId struct {
	isBroadcast bool
	addr        Address
}

// NodeIDFromAddress wraps a concrete medium address as a unicast
// NodeId.
func NodeIDFromAddress(a Address) NodeId {
	return NodeId{addr: a}
}

// BroadcastNodeID is the distinguished "every node" NodeId.
func BroadcastNodeID() NodeId {
	return NodeId{isBroadcast: true}
}

// IsBroadcast reports whether this is the broadcast NodeId.
func (n NodeId) IsBroadcast() bool {
	return n.isBroadcast
}

// Address returns the wrapped address and true, or the zero address and
// false if this is the broadcast NodeId.
func (n NodeId) Address() (Address, bool) {
	if n.isBroadcast {
		return Address{}, false
	}
	return n.addr, true
}

// Equal reports whether two NodeIds have the same tag and body.
func (n NodeId) Equal(other NodeId) bool {
	if n.isBroadcast != other.isBroadcast {
		return false
	}
	if n.isBroadcast {
		return true
	}
	return n.addr.Equal(other.addr)
}

// String implements fmt.Stringer.
func (n NodeId) String() string {
	if n.isBroadcast {
		return "Broadcast"
	}
	return n.addr.String()
}

func wireTag(t Type) byte {
	switch t {
	case Serial:
		return wireTagSerial
	case UHF:
		return wireTagUHF
	case UDP:
		return wireTagUDP
	case WebSocket:
		return wireTagWebSocket
	default:
		panic(fmt.Sprintf("addr: unknown address type %v", t))
	}
}

func typeFromWireTag(tag byte) (Type, bool) {
	switch tag {
	case wireTagSerial:
		return Serial, true
	case wireTagUHF:
		return UHF, true
	case wireTagUDP:
		return UDP, true
	case wireTagWebSocket:
		return WebSocket, true
	default:
		return 0, false
	}
}

// Encode appends the wire representation of n to buf: a 1-byte tag
// followed by the tag's body (zero bytes for Broadcast).
func (n NodeId) Encode(buf []byte) []byte {
	if n.isBroadcast {
		return append(buf, wireTagBroadcast)
	}
	buf = append(buf, wireTag(n.addr.Type()))
	return n.addr.Encode(buf)
}

// DecodeNodeID reads a tagged NodeId from the front of buf, returning
// the decoded value and the number of bytes consumed.
func DecodeNodeID(buf []byte) (NodeId, int, error) {
	if len(buf) < 1 {
		return NodeId{}, 0, ErrInvalidWireBytes
	}
	tag := buf[0]
	if tag == wireTagBroadcast {
		return BroadcastNodeID(), 1, nil
	}
	t, ok := typeFromWireTag(tag)
	if !ok {
		return NodeId{}, 0, ErrInvalidWireBytes
	}
	a, n, err := DecodeAddress(t, buf[1:])
	if err != nil {
		return NodeId{}, 0, err
	}
	return NodeIDFromAddress(a), 1 + n, nil
}
