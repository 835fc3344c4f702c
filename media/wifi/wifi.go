// Package wifi implements the ESP-AT Wi-Fi modem port driver (spec.md
// §4.4): the three-step CIPMUX/CWMODE/CIPDINFO initialization
// sequence, the JoinAp/StartUdpServer/CloseUdpServer/GetIp dynamic
// commands, the unsolicited `+IPD,`/`WIFI ` lines, and the two-phase
// CIPSEND transmit path. Grounded on
// original_source/arduino/lib/media/src/media/wifi/{task.h,control/*.h,message*.h}.
package wifi

import (
	"fmt"
	"time"

	"github.com/keke1008/meshnet/addr"
	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/link"
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
	"golang.org/x/time/rate"
)

// Logger is the subset of logging this package needs.
type Logger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
}

const (
	defaultCommandTimeout = 3 * time.Second
	joinApTimeout         = 20 * time.Second
)

// Port drives one ESP-AT Wi-Fi modem attached via a [media.Stream].
// The zero value is not usable; construct with [NewPort].
type Port struct {
	stream media.Stream
	handle link.Handle
	pool   *frame.Pool
	logger Logger

	init *initState
	task *taskState
	rx   *receiveState

	localIP       [4]byte
	hasLocalIP    bool
	serverStarted bool
	serverPort    uint16

	detectBuf     [5]byte
	detectN       int
	detectLine    *media.LineBuffer
	wifiEventLine *media.LineBuffer

	unknownLineLog rate.Sometimes
}

// NewPort constructs a Port. Initialization begins the next time
// Execute is called.
func NewPort(now time.Time, stream media.Stream, handle link.Handle, pool *frame.Pool, logger Logger) *Port {
	return &Port{
		stream:         stream,
		handle:         handle,
		pool:           pool,
		logger:         logger,
		init:           newInitState(now),
		unknownLineLog: rate.Sometimes{Interval: time.Second},
	}
}

// AddressType implements link.Port.
func (p *Port) AddressType() addr.Type {
	return addr.UDP
}

// Execute advances the port's state machine by one tick.
func (p *Port) Execute(now time.Time) {
	if p.init != nil {
		if p.init.poll(now, p.stream, p.logger).IsPending() {
			return
		}
		p.init = nil
	}

	if p.task != nil {
		if p.task.poll(now, p.stream, p.logger).IsReady() {
			p.applyTaskResult(p.task)
			p.task = nil
		}
		return
	}

	if p.tryBeginReceive(now) {
		return
	}

	p.tryBeginSend(now)
}

// applyTaskResult folds a just-completed internal task's outcome into
// port state. Command tasks (JoinAp/StartUdpServer/CloseUdpServer)
// deliver their result through the caller's future directly; only
// GetIp needs the port to record anything here.
func (p *Port) applyTaskResult(t *taskState) {
	if t.kind == taskGetIp && t.getIpResult.ok {
		p.localIP = t.getIpResult.ip
		p.hasLocalIP = true
	}
}

// JoinAp requests the modem join the given access point, per spec.md
// §4.4. It returns Pending while another task is outstanding.
func (p *Port) JoinAp(now time.Time, ssid, password string) poll.Poll[poll.Future[bool]] {
	if p.task != nil || p.init != nil {
		return poll.Pending[poll.Future[bool]]()
	}
	future, promise := poll.NewFuture[bool]()
	cmd := fmt.Sprintf("AT+CWJAP=%q,%q\r\n", ssid, password)
	p.task = newCommandTask(now, taskJoinAp, cmd, "OK\r\n", joinApTimeout, promise)
	return poll.Ready(future)
}

// StartUdpServer requests the modem listen for UDP datagrams on port,
// per spec.md §4.4.
func (p *Port) StartUdpServer(now time.Time, port uint16) poll.Poll[poll.Future[bool]] {
	if p.task != nil || p.init != nil {
		return poll.Pending[poll.Future[bool]]()
	}
	future, promise := poll.NewFuture[bool]()
	cmd := fmt.Sprintf("AT+CIPSTART=\"UDP\",\"0.0.0.0\",%d,2\r\n", port)
	p.task = newCommandTask(now, taskStartUdpServer, cmd, "OK\r\n", defaultCommandTimeout, promise)
	p.serverStarted = true
	p.serverPort = port
	return poll.Ready(future)
}

// CloseUdpServer requests the modem stop listening, per spec.md §4.4.
func (p *Port) CloseUdpServer(now time.Time) poll.Poll[poll.Future[bool]] {
	if p.task != nil || p.init != nil {
		return poll.Pending[poll.Future[bool]]()
	}
	future, promise := poll.NewFuture[bool]()
	p.task = newCommandTask(now, taskCloseUdpServer, "AT+CIPCLOSE\r\n", "OK\r\n", defaultCommandTimeout, promise)
	p.serverStarted = false
	return poll.Ready(future)
}

// LocalAddress reports the last address learned via GetIp, if any.
func (p *Port) LocalAddress() (addr.Address, bool) {
	if !p.hasLocalIP || !p.serverStarted {
		return addr.Address{}, false
	}
	return addr.NewUDPAddress(p.localIP, p.serverPort), true
}

// tryBeginReceive advances an in-progress unsolicited-line detection
// or +IPD receive, or starts one from freshly arrived bytes. It
// returns true if the port's attention was occupied this tick (so the
// caller should not also attempt a send).
func (p *Port) tryBeginReceive(now time.Time) bool {
	if p.rx != nil {
		return p.continueReceive()
	}
	if p.wifiEventLine != nil {
		return p.continueWifiEventLine(now)
	}
	if p.detectLine != nil {
		return p.continueUnknownLine()
	}

	for p.stream.ReadableCount() > 0 {
		b := p.stream.ReadByte()
		p.detectBuf[p.detectN] = b
		p.detectN++
		if p.detectN < len(p.detectBuf) {
			continue
		}

		switch string(p.detectBuf[:]) {
		case "+IPD,":
			p.detectN = 0
			p.rx = newReceiveState(p.pool)
			return true
		case "WIFI ":
			p.detectN = 0
			p.wifiEventLine = media.NewLineBuffer(16)
			return p.continueWifiEventLine(now)
		default:
			line := media.NewLineBuffer(40)
			for i := 0; i < len(p.detectBuf); i++ {
				line.Feed(p.detectBuf[i])
			}
			p.detectLine = line
			p.detectN = 0
			return p.continueUnknownLine()
		}
	}
	return false
}

func (p *Port) continueReceive() bool {
	reader, done := p.rx.poll(p.stream).Unwrap()
	if !done {
		return true
	}
	remote, protocol := p.rx.remote, p.rx.protocol
	p.rx = nil
	if reader == nil {
		return true
	}
	if p.handle.PollDispatchReceivedFrame(frame.LinkFrame{
		ProtocolNumber: protocol,
		Remote:         addr.NewUnicastLinkAddress(remote),
		Reader:         reader,
	}).IsPending() {
		p.logger.Warnf("wifi: dropping received frame, broker queue full")
		reader.Release()
	}
	return true
}

func (p *Port) continueWifiEventLine(now time.Time) bool {
	for p.stream.ReadableCount() > 0 {
		b := p.stream.ReadByte()
		line, ok, overflowed := p.wifiEventLine.Feed(b)
		if overflowed {
			p.wifiEventLine = nil
			return false
		}
		if !ok {
			continue
		}
		switch string(line) {
		case "DISCONNECT\r\n":
			p.hasLocalIP = false
			p.logger.Infof("wifi: disconnected from access point")
		case "GOT IP\r\n":
			p.logger.Infof("wifi: access point assigned a local address")
			if p.task == nil {
				p.task = newGetIpTask(now)
			}
		default:
			p.logger.Warnf("wifi: unrecognized WIFI event %q", line)
		}
		p.wifiEventLine = nil
		return true
	}
	return false
}

func (p *Port) continueUnknownLine() bool {
	for p.stream.ReadableCount() > 0 {
		b := p.stream.ReadByte()
		line, ok, overflowed := p.detectLine.Feed(b)
		if overflowed {
			p.unknownLineLog.Do(func() {
				p.logger.Warnf("wifi: discarding oversized unrecognized line")
			})
			p.detectLine = nil
			return false
		}
		if !ok {
			continue
		}
		p.unknownLineLog.Do(func() {
			p.logger.Warnf("wifi: discarding unrecognized line %q", line)
		})
		p.detectLine = nil
		return true
	}
	return false
}

// tryBeginSend pulls the next UDP-addressed send-requested frame from
// the broker, if any, and starts a [sendState] for it. Transmit never
// starts while a server has not been started: there is no local port
// to send from.
func (p *Port) tryBeginSend(now time.Time) {
	if !p.serverStarted {
		return
	}
	f, ok := p.handle.PollGetSendRequestedFrame(addr.UDP, nil).Unwrap()
	if !ok {
		return
	}
	remote, ok := f.Remote.Unicast()
	if !ok {
		p.logger.Warnf("wifi: dropping broadcast-addressed send request, Wi-Fi has no broadcast wire encoding")
		f.Reader.Release()
		return
	}
	ip, port := remote.IPPort()
	p.task = newSendTask(now, f, ip, port)
}
