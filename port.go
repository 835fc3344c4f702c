package meshnet

import (
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/media/ethernet"
	"github.com/keke1008/meshnet/media/serialport"
	"github.com/keke1008/meshnet/media/uhf"
	"github.com/keke1008/meshnet/media/wifi"
)

// PortKind identifies which of the four concrete media port drivers a
// [Port] holds.
type PortKind int

const (
	PortUHF PortKind = iota
	PortWiFi
	PortSerial
	PortEthernet
)

// Port is a closed sum type over the four concrete media port
// drivers (media/uhf, media/wifi, media/serialport, media/ethernet),
// grounded on original_source/arduino/lib/net/src/net/link/{media,facade}.h's
// single discriminated "media" facade over its port drivers. It lives
// here rather than inside package media, since each concrete port
// package already imports media for Stream/Logger and a sum type
// inside media itself would be import-cyclic.
//
// Only one of the four fields is ever non-nil, selected by kind; this
// is deliberately a tagged struct rather than an interface value, per
// spec.md §9's guidance to avoid a dynamic trait object over a small,
// fixed set of implementations.
type Port struct {
	kind PortKind

	uhf      *uhf.Port
	wifi     *wifi.Port
	serial   *serialport.Port
	ethernet *ethernet.Port
}

// NewUHFPort wraps a media/uhf.Port as a [Port].
func NewUHFPort(p *uhf.Port) Port {
	return Port{kind: PortUHF, uhf: p}
}

// NewWiFiPort wraps a media/wifi.Port as a [Port].
func NewWiFiPort(p *wifi.Port) Port {
	return Port{kind: PortWiFi, wifi: p}
}

// NewSerialPort wraps a media/serialport.Port as a [Port].
func NewSerialPort(p *serialport.Port) Port {
	return Port{kind: PortSerial, serial: p}
}

// NewEthernetPort wraps a media/ethernet.Port as a [Port].
func NewEthernetPort(p *ethernet.Port) Port {
	return Port{kind: PortEthernet, ethernet: p}
}

// Kind reports which concrete driver this Port holds.
func (p Port) Kind() PortKind {
	return p.kind
}

// UHF returns the underlying media/uhf.Port and whether Kind is PortUHF.
func (p Port) UHF() (*uhf.Port, bool) {
	return p.uhf, p.kind == PortUHF
}

// WiFi returns the underlying media/wifi.Port and whether Kind is PortWiFi.
func (p Port) WiFi() (*wifi.Port, bool) {
	return p.wifi, p.kind == PortWiFi
}

// Serial returns the underlying media/serialport.Port and whether Kind
// is PortSerial.
func (p Port) Serial() (*serialport.Port, bool) {
	return p.serial, p.kind == PortSerial
}

// Ethernet returns the underlying media/ethernet.Port and whether Kind
// is PortEthernet.
func (p Port) Ethernet() (*ethernet.Port, bool) {
	return p.ethernet, p.kind == PortEthernet
}

// AddressType implements link.Port by dispatching to the wrapped
// driver.
func (p Port) AddressType() addr.Type {
	switch p.kind {
	case PortUHF:
		return p.uhf.AddressType()
	case PortWiFi:
		return p.wifi.AddressType()
	case PortSerial:
		return p.serial.AddressType()
	case PortEthernet:
		return p.ethernet.AddressType()
	default:
		panic("meshnet: Port holds no driver")
	}
}

// Execute implements link.Port by dispatching to the wrapped driver.
func (p Port) Execute(now time.Time) {
	switch p.kind {
	case PortUHF:
		p.uhf.Execute(now)
	case PortWiFi:
		p.wifi.Execute(now)
	case PortSerial:
		p.serial.Execute(now)
	case PortEthernet:
		p.ethernet.Execute(now)
	default:
		panic("meshnet: Port holds no driver")
	}
}
