// Package addr implements the tagged address types shared by every
// media port and the routing overlay: a fixed-width [Address] tagged
// union, the unicast/broadcast [LinkAddress] wrapper, the 4-bit
// [AddressTypeSet] bitmask, and the routing-level [NodeId]/[Destination]
// pair. All codecs here are hand-rolled byte packing: every body is at
// most 6 bytes with no alignment concerns, so pulling in a serialization
// library would cost more than it would save.
package addr

import (
	"errors"
	"fmt"
)

// Type is the tag of an [Address]: which physical medium the address
// belongs to.
type Type uint8

const (
	// Serial identifies a 1-byte node number on the wired bus.
	Serial Type = iota
	// UHF identifies a 1-byte modem id; 0x00 is the UHF broadcast id.
	UHF
	// UDP identifies a 4-byte IPv4 address plus a 2-byte big-endian port.
	UDP
	// WebSocket uses the same 6-byte layout as UDP.
	WebSocket
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case Serial:
		return "Serial"
	case UHF:
		return "UHF"
	case UDP:
		return "Udp"
	case WebSocket:
		return "WebSocket"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// BodyLength returns the number of body bytes this address type's wire
// representation carries, per spec.md §3's address body-length table.
func (t Type) BodyLength() int {
	switch t {
	case Serial, UHF:
		return 1
	case UDP, WebSocket:
		return 6
	default:
		return 0
	}
}

// maxBodyLength is the widest body any [Type] currently uses.
const maxBodyLength = 6

// ErrInvalidWireBytes is returned by decoders when the input is too
// short or carries an unrecognised tag, per spec.md §7.
var ErrInvalidWireBytes = errors.New("addr: invalid wire bytes")

// Address is a tagged union over the four medium address types. The
// zero value is a Serial address with body 0x00; use the New*
// constructors to build a meaningful value. Comparisons only ever look
// at the tag and the tag's declared body length, per spec.md §3's
// invariant.
type Address struct {
	typ  Type
	body [maxBodyLength]byte
}

// NewSerialAddress builds a Serial address for the given bus node number.
func NewSerialAddress(node byte) Address {
	a := Address{typ: Serial}
	a.body[0] = node
	return a
}

// NewUHFAddress builds a UHF address for the given modem id. An id of
// 0x00 denotes the UHF medium broadcast address.
func NewUHFAddress(modemID byte) Address {
	a := Address{typ: UHF}
	a.body[0] = modemID
	return a
}

// UHFBroadcastID is the UHF modem id reserved for broadcast.
const UHFBroadcastID byte = 0x00

// NewUDPAddress builds a UDP address from an IPv4 quad and a port.
func NewUDPAddress(ip [4]byte, port uint16) Address {
	a := Address{typ: UDP}
	copy(a.body[0:4], ip[:])
	a.body[4] = byte(port >> 8)
	a.body[5] = byte(port)
	return a
}

// NewWebSocketAddress builds a WebSocket address using the same layout
// as [NewUDPAddress].
func NewWebSocketAddress(ip [4]byte, port uint16) Address {
	a := NewUDPAddress(ip, port)
	a.typ = WebSocket
	return a
}

// Type returns the address's tag.
func (a Address) Type() Type {
	return a.typ
}

// Body returns the address's body, trimmed to the tag's declared
// length.
func (a Address) Body() []byte {
	return append([]byte(nil), a.body[:a.typ.BodyLength()]...)
}

// IsUHFBroadcast reports whether this is the UHF medium broadcast
// address.
func (a Address) IsUHFBroadcast() bool {
	return a.typ == UHF && a.body[0] == UHFBroadcastID
}

// IPPort splits a UDP or WebSocket address body into its IPv4 quad and
// port. It panics if called on any other address type — callers are
// expected to check Type() first, exactly like the rest of this
// package's narrow, precondition-checked accessors.
func (a Address) IPPort() (ip [4]byte, port uint16) {
	if a.typ != UDP && a.typ != WebSocket {
		panic(fmt.Sprintf("addr: IPPort called on %s address", a.typ))
	}
	copy(ip[:], a.body[0:4])
	port = uint16(a.body[4])<<8 | uint16(a.body[5])
	return ip, port
}

// Equal implements the tag-and-prefix comparison spec.md §3 mandates.
func (a Address) Equal(other Address) bool {
	if a.typ != other.typ {
		return false
	}
	n := a.typ.BodyLength()
	for i := 0; i < n; i++ {
		if a.body[i] != other.body[i] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer for logging.
func (a Address) String() string {
	switch a.typ {
	case UDP, WebSocket:
		ip, port := a.IPPort()
		return fmt.Sprintf("%s(%d.%d.%d.%d:%d)", a.typ, ip[0], ip[1], ip[2], ip[3], port)
	default:
		return fmt.Sprintf("%s(%d)", a.typ, a.body[0])
	}
}

// Encode appends the wire representation of a to buf: no tag byte, just
// the body, since the tag is carried out of band (by the medium that
// owns this address, or by [NodeId.Encode] for the routing layer).
func (a Address) Encode(buf []byte) []byte {
	return append(buf, a.body[:a.typ.BodyLength()]...)
}

// DecodeAddress reads a body of t's declared length from buf and
// returns the resulting address plus the number of bytes consumed.
func DecodeAddress(t Type, buf []byte) (Address, int, error) {
	n := t.BodyLength()
	if len(buf) < n {
		return Address{}, 0, ErrInvalidWireBytes
	}
	a := Address{typ: t}
	copy(a.body[:n], buf[:n])
	return a, n, nil
}
