package media

import (
	"time"

	"github.com/keke1008/meshnet/poll"
)

// Kind identifies which port driver a newly powered serial-attached
// device turned out to be, per spec.md §4.2.
type Kind uint8

const (
	KindUHF Kind = iota
	KindWifi
	KindSerial
)

func (k Kind) String() string {
	switch k {
	case KindUHF:
		return "uhf"
	case KindWifi:
		return "wifi"
	case KindSerial:
		return "serial"
	default:
		return "unknown"
	}
}

const (
	// powerOnLockout is the window after power-up during which issuing
	// a command to a UHF modem is forbidden, plus slack, grounded on
	// original_source's 150ms constant (100ms mandated + 50ms margin).
	powerOnLockout = 150 * time.Millisecond
	// responseWindow is how long the detector waits for a response to
	// its probe command before deciding Serial.
	responseWindow = 100 * time.Millisecond
	probeCommand   = "@SN\r\n"
)

// Detector runs the media-detection protocol once on a freshly
// attached serial stream: it drains any buffered garbage, waits out
// the UHF modem's post-power-up command lockout, sends a probe
// command, and classifies whatever comes back within the response
// window. Grounded on
// original_source/arduino/lib/media/src/media/detector.h.
type Detector struct {
	stream Stream
	logger Logger

	drained       bool
	lockout       *poll.Delay
	sent          int
	responseStart *time.Time
	line          LineAccumulator
}

// Logger is the subset of logging this package needs; it is satisfied
// by meshnet.Logger without importing the root package, so media
// avoids an import cycle with cmd-level wiring.
type Logger interface {
	Infof(format string, v ...any)
}

// NewDetector starts a detector for stream, with its lockout timer
// counting from now.
func NewDetector(now time.Time, stream Stream, logger Logger) *Detector {
	d := poll.NewDelay(now, powerOnLockout)
	return &Detector{stream: stream, logger: logger, lockout: &d}
}

// Poll drives the detection protocol forward. Call it every tick until
// it returns Ready with the decided Kind.
func (d *Detector) Poll(now time.Time) poll.Poll[Kind] {
	if !d.drained {
		DrainReadable(d.stream)
		d.drained = true
	}

	if d.lockout.Poll(now).IsPending() {
		return poll.Pending[Kind]()
	}

	if d.sent < len(probeCommand) {
		d.sent += WriteString(d.stream, probeCommand[d.sent:])
		if d.sent < len(probeCommand) {
			return poll.Pending[Kind]()
		}
	}

	if d.responseStart == nil {
		t := now
		d.responseStart = &t
	}

	if now.Sub(*d.responseStart) >= responseWindow {
		d.logger.Infof("media: detected serial (no response within window)")
		return poll.Ready(KindSerial)
	}

	for d.stream.ReadableCount() > 0 {
		b := d.stream.ReadByte()
		line, ok, overflowed := d.line.Feed(b)
		if overflowed {
			d.line.Reset()
			continue
		}
		if !ok {
			continue
		}

		if len(line) >= 4 && string(line[:4]) == "*SN=" {
			d.logger.Infof("media: detected uhf")
			return poll.Ready(KindUHF)
		}
		if string(line) == "ERROR\r\n" {
			d.logger.Infof("media: detected wifi")
			return poll.Ready(KindWifi)
		}
		// anything else is garbage preceding the real response;
		// resynchronize and keep reading within the same window.
	}

	return poll.Pending[Kind]()
}
