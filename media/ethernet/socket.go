package ethernet

// Socket is the underlying UDP transport a Port drives, abstracted the
// same way the teacher's Stdlib/UnderlyingNetwork split abstracts real
// OS networking from a test double: [RealSocket] wraps an actual
// *net.UDPConn, [MockSocket] is an in-memory stand-in for tests. The
// method shapes track the Arduino Ethernet/EthernetUDP API the
// original driver was written against (beginPacket/write/endPacket,
// parsePacket/read), since that is the exact sequencing spec.md §4.6
// describes.
type Socket interface {
	// Begin attempts DHCP configuration using mac and detects whether
	// networking hardware is present at all. It reports (dhcpOK,
	// hardwarePresent).
	Begin(mac [6]byte) (bool, bool)

	// LinkUp reports the current physical link status.
	LinkUp() bool

	// LocalIP returns the DHCP-assigned address, if any.
	LocalIP() ([4]byte, bool)

	// SetLocalIP and SetSubnetMask forward upper-layer configuration
	// requests to the underlying interface.
	SetLocalIP(ip [4]byte) error
	SetSubnetMask(mask [4]byte) error

	// BeginPacket starts an outbound datagram to ip:port, returning
	// false if it could not be started (the frame is then dropped).
	BeginPacket(ip [4]byte, port uint16) bool

	// Write appends to the in-progress outbound datagram.
	Write(b []byte) bool

	// EndPacket flushes and sends the in-progress outbound datagram.
	EndPacket()

	// ParsePacket checks for a waiting inbound datagram and returns
	// its total length in bytes, or 0 if none is waiting.
	ParsePacket() int

	// Read copies up to len(b) bytes of the currently parsed inbound
	// datagram into b, returning the number of bytes copied.
	Read(b []byte) int

	// RemoteIP and RemotePort report the currently parsed inbound
	// datagram's sender.
	RemoteIP() [4]byte
	RemotePort() uint16
}
