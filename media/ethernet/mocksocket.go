package ethernet

// MockSocket is an in-memory [Socket] for tests: outbound datagrams
// land in Sent, inbound datagrams are queued with FeedPacket, and
// DHCP/link/shield outcomes are set directly on the struct before the
// Port under test calls Begin.
type MockSocket struct {
	DHCPOK        bool
	HardwarePresent bool
	IsLinkUp      bool
	IP            [4]byte

	Sent []MockDatagram

	pending []mockInbound
	current mockInbound
}

// MockDatagram is one completed outbound datagram captured by Sent.
type MockDatagram struct {
	IP      [4]byte
	Port    uint16
	Payload []byte
}

type mockInbound struct {
	remaining []byte
	remoteIP  [4]byte
	remotePort uint16
}

var _ Socket = &MockSocket{}

func NewMockSocket() *MockSocket {
	return &MockSocket{DHCPOK: true, HardwarePresent: true, IsLinkUp: true}
}

// FeedPacket queues an inbound datagram (protocol byte + payload,
// exactly as it arrived on the wire) from remoteIP:remotePort.
func (m *MockSocket) FeedPacket(remoteIP [4]byte, remotePort uint16, data []byte) {
	m.pending = append(m.pending, mockInbound{remaining: append([]byte(nil), data...), remoteIP: remoteIP, remotePort: remotePort})
}

func (m *MockSocket) Begin(mac [6]byte) (bool, bool) {
	return m.DHCPOK, m.HardwarePresent
}

func (m *MockSocket) LinkUp() bool {
	return m.IsLinkUp
}

func (m *MockSocket) LocalIP() ([4]byte, bool) {
	return m.IP, m.DHCPOK
}

func (m *MockSocket) SetLocalIP(ip [4]byte) error {
	m.IP = ip
	return nil
}

func (m *MockSocket) SetSubnetMask(mask [4]byte) error {
	return nil
}

func (m *MockSocket) BeginPacket(ip [4]byte, port uint16) bool {
	m.Sent = append(m.Sent, MockDatagram{IP: ip, Port: port})
	return true
}

func (m *MockSocket) Write(b []byte) bool {
	last := &m.Sent[len(m.Sent)-1]
	last.Payload = append(last.Payload, b...)
	return true
}

func (m *MockSocket) EndPacket() {}

// ParsePacket always moves to the next queued datagram, discarding
// whatever was left unread of the previous one — matching the
// Arduino EthernetUDP.parsePacket() semantics the original driver
// relies on (a new call always advances, it never resumes a stale
// partial read).
func (m *MockSocket) ParsePacket() int {
	if len(m.pending) == 0 {
		m.current = mockInbound{}
		return 0
	}
	m.current, m.pending = m.pending[0], m.pending[1:]
	return len(m.current.remaining)
}

func (m *MockSocket) Read(b []byte) int {
	n := copy(b, m.current.remaining)
	m.current.remaining = m.current.remaining[n:]
	return n
}

func (m *MockSocket) RemoteIP() [4]byte {
	return m.current.remoteIP
}

func (m *MockSocket) RemotePort() uint16 {
	return m.current.remotePort
}
