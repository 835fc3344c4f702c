package wifi

import (
	"time"

	"github.com/keke1008/meshnet/frame"
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

type taskKind int

const (
	taskJoinAp taskKind = iota
	taskStartUdpServer
	taskCloseUdpServer
	taskGetIp
	taskSend
)

// taskState is the single outstanding dynamic operation: exactly one
// of JoinAp/StartUdpServer/CloseUdpServer/GetIp/Send may be in flight
// at a time, mirroring original_source's Task variant and spec.md
// §4.4's "multiplexes a single outbound task at a time".
type taskState struct {
	kind    taskKind
	timeout poll.Delay

	cmd     *genericCommand
	promise poll.Promise[bool]

	getIp       *getIpState
	getIpResult getIpOutcome

	send *sendState
}

func newCommandTask(now time.Time, kind taskKind, command, expected string, timeout time.Duration, promise poll.Promise[bool]) *taskState {
	return &taskState{
		kind:    kind,
		timeout: poll.NewDelay(now, timeout),
		cmd:     newGenericCommand(command, expected),
		promise: promise,
	}
}

func newGetIpTask(now time.Time) *taskState {
	return &taskState{
		kind:    taskGetIp,
		timeout: poll.NewDelay(now, defaultCommandTimeout),
		getIp:   newGetIpState(),
	}
}

func newSendTask(now time.Time, f frame.LinkFrame, ip [4]byte, port uint16) *taskState {
	return &taskState{
		kind:    taskSend,
		timeout: poll.NewDelay(now, defaultCommandTimeout),
		send:    newSendState(f, ip, port),
	}
}

// fail tears down the outstanding task on a timeout.
func (t *taskState) fail() {
	switch t.kind {
	case taskJoinAp, taskStartUdpServer, taskCloseUdpServer:
		t.promise.Resolve(false)
	case taskGetIp:
		t.getIpResult = getIpOutcome{}
	case taskSend:
		t.send.abort()
	}
}

func (t *taskState) poll(now time.Time, stream media.Stream, logger Logger) poll.Poll[poll.Void] {
	if t.timeout.Poll(now).IsReady() {
		logger.Warnf("wifi: task timed out")
		t.fail()
		return poll.ReadyVoid()
	}

	switch t.kind {
	case taskJoinAp, taskStartUdpServer, taskCloseUdpServer:
		ok, done := t.cmd.poll(stream).Unwrap()
		if !done {
			return poll.Pending[poll.Void]()
		}
		t.promise.Resolve(ok)
		return poll.ReadyVoid()

	case taskGetIp:
		outcome, done := t.getIp.poll(stream).Unwrap()
		if !done {
			return poll.Pending[poll.Void]()
		}
		t.getIpResult = outcome
		return poll.ReadyVoid()

	case taskSend:
		return t.send.poll(stream, logger)
	}
	return poll.ReadyVoid()
}
