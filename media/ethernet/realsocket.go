package ethernet

import (
	"net"
	"time"
)

// RealSocket is a [Socket] backed by an actual UDP listener, used by
// cmd/meshsim. Unlike the original's Arduino Ethernet shield, there is
// no discrete "hardware present" signal on a host OS: Begin reports
// hardwarePresent true whenever it can bind the listener at all, and
// the link is considered always up from then on (a host network
// interface does not expose the same link-down notion a physical
// Ethernet PHY does).
type RealSocket struct {
	conn *net.UDPConn

	localIP [4]byte
	hasIP   bool

	outAddr *net.UDPAddr
	outBuf  []byte

	inBuf    []byte
	inRemain []byte
	inRemote *net.UDPAddr
}

var _ Socket = &RealSocket{}

// Begin opens a UDP listener on [UDPPort] across every local
// interface and records the first non-loopback IPv4 address it finds
// as the port's local address, standing in for a real DHCP lease.
func (s *RealSocket) Begin(mac [6]byte) (dhcpOK bool, hardwarePresent bool) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: int(UDPPort)})
	if err != nil {
		return false, false
	}
	s.conn = conn
	s.inBuf = make([]byte, frameMaxDatagram)

	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}
			copy(s.localIP[:], ip4)
			s.hasIP = true
			break
		}
	}
	return s.hasIP, true
}

// frameMaxDatagram bounds a single read, generous enough for the
// 1-byte protocol number plus the medium MTU.
const frameMaxDatagram = 1500

func (s *RealSocket) LinkUp() bool {
	return s.conn != nil
}

func (s *RealSocket) LocalIP() ([4]byte, bool) {
	return s.localIP, s.hasIP
}

func (s *RealSocket) SetLocalIP(ip [4]byte) error {
	s.localIP = ip
	s.hasIP = true
	return nil
}

func (s *RealSocket) SetSubnetMask(mask [4]byte) error {
	return nil
}

func (s *RealSocket) BeginPacket(ip [4]byte, port uint16) bool {
	s.outAddr = &net.UDPAddr{IP: net.IPv4(ip[0], ip[1], ip[2], ip[3]), Port: int(port)}
	s.outBuf = s.outBuf[:0]
	return true
}

func (s *RealSocket) Write(b []byte) bool {
	s.outBuf = append(s.outBuf, b...)
	return true
}

func (s *RealSocket) EndPacket() {
	if s.conn == nil || s.outAddr == nil {
		return
	}
	s.conn.WriteToUDP(s.outBuf, s.outAddr)
	s.outAddr = nil
	s.outBuf = s.outBuf[:0]
}

// ParsePacket always attempts to read a fresh datagram, discarding
// whatever was left unread of the previous one — matching the Arduino
// EthernetUDP.parsePacket() semantics the original driver relies on.
func (s *RealSocket) ParsePacket() int {
	s.inRemain = nil
	if s.conn == nil {
		return 0
	}
	if err := s.conn.SetReadDeadline(time.Now()); err != nil {
		return 0
	}
	n, remote, err := s.conn.ReadFromUDP(s.inBuf)
	if err != nil || n == 0 {
		return 0
	}
	s.inRemain = s.inBuf[:n]
	s.inRemote = remote
	return n
}

func (s *RealSocket) Read(b []byte) int {
	n := copy(b, s.inRemain)
	s.inRemain = s.inRemain[n:]
	return n
}

func (s *RealSocket) RemoteIP() [4]byte {
	var ip [4]byte
	if s.inRemote != nil {
		copy(ip[:], s.inRemote.IP.To4())
	}
	return ip
}

func (s *RealSocket) RemotePort() uint16 {
	if s.inRemote == nil {
		return 0
	}
	return uint16(s.inRemote.Port)
}
