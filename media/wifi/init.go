package wifi

import (
	"time"

	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

type initPhase int

const (
	phaseCipmux initPhase = iota
	phaseCwmode
	phaseCipdinfo
	phaseDone
)

var initCommands = [...]string{
	phaseCipmux:   "AT+CIPMUX=0\r\n",
	phaseCwmode:   "AT+CWMODE=1\r\n",
	phaseCipdinfo: "AT+CIPDINFO=1\r\n",
}

// initState drives the fixed three-command initialization sequence,
// per spec.md §4.4: disable multiplexing, enter station mode, then ask
// the modem to include remote-endpoint info on every receive
// notification. Any `ERROR`/unexpected reply or a command timeout
// restarts the whole sequence from the top.
type initState struct {
	phase   initPhase
	cmd     *genericCommand
	timeout poll.Delay
}

func newInitState(now time.Time) *initState {
	return &initState{
		phase:   phaseCipmux,
		cmd:     newGenericCommand(initCommands[phaseCipmux], "OK\r\n"),
		timeout: poll.NewDelay(now, defaultCommandTimeout),
	}
}

func (s *initState) reset(now time.Time) {
	s.phase = phaseCipmux
	s.cmd = newGenericCommand(initCommands[phaseCipmux], "OK\r\n")
	s.timeout = poll.NewDelay(now, defaultCommandTimeout)
}

func (s *initState) poll(now time.Time, stream media.Stream, logger Logger) poll.Poll[poll.Void] {
	if s.timeout.Poll(now).IsReady() {
		logger.Warnf("wifi: initialization step %d timed out, restarting", s.phase)
		s.reset(now)
		return poll.Pending[poll.Void]()
	}

	ok, done := s.cmd.poll(stream).Unwrap()
	if !done {
		return poll.Pending[poll.Void]()
	}
	if !ok {
		logger.Warnf("wifi: initialization step %d rejected, restarting", s.phase)
		s.reset(now)
		s.cmd.writer.Poll(stream)
		return poll.Pending[poll.Void]()
	}

	s.phase++
	if s.phase >= phaseDone {
		return poll.ReadyVoid()
	}
	s.cmd = newGenericCommand(initCommands[s.phase], "OK\r\n")
	s.timeout = poll.NewDelay(now, defaultCommandTimeout)
	s.cmd.writer.Poll(stream)
	return poll.Pending[poll.Void]()
}
