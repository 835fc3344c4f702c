package wifi

import (
	"testing"
	"time"

	"github.com/keke1008/meshnet/media"
)

type testLogger struct {
	infos    []string
	warnings []string
}

func (l *testLogger) Infof(format string, v ...any) { l.infos = append(l.infos, format) }
func (l *testLogger) Warnf(format string, v ...any) { l.warnings = append(l.warnings, format) }

func TestInitSequenceHappyPath(t *testing.T) {
	base := time.Unix(0, 0)
	stream := media.NewMockStream()
	s := newInitState(base)
	logger := &testLogger{}

	if s.poll(base, stream, logger).IsReady() {
		t.Fatal("expected CIPMUX command still pending with no response")
	}
	if string(stream.Written()) != "AT+CIPMUX=0\r\n" {
		t.Fatalf("got %q", stream.Written())
	}

	stream.Feed([]byte("OK\r\n")...)
	s.poll(base, stream, logger)
	if string(stream.Written()) != "AT+CIPMUX=0\r\nAT+CWMODE=1\r\n" {
		t.Fatalf("expected CWMODE command written next, got %q", stream.Written())
	}

	stream.Feed([]byte("OK\r\n")...)
	s.poll(base, stream, logger)
	if string(stream.Written()) != "AT+CIPMUX=0\r\nAT+CWMODE=1\r\nAT+CIPDINFO=1\r\n" {
		t.Fatalf("expected CIPDINFO command written next, got %q", stream.Written())
	}

	stream.Feed([]byte("OK\r\n")...)
	if s.poll(base, stream, logger).IsPending() {
		t.Fatal("expected initialization to complete")
	}
	if len(logger.warnings) != 0 {
		t.Fatalf("expected no warnings on the happy path, got %v", logger.warnings)
	}
}

func TestInitSequenceRestartsOnError(t *testing.T) {
	base := time.Unix(0, 0)
	stream := media.NewMockStream()
	s := newInitState(base)
	logger := &testLogger{}

	s.poll(base, stream, logger)
	stream.Feed([]byte("ERROR\r\n")...)
	s.poll(base, stream, logger)
	if s.phase != phaseCipmux {
		t.Fatal("expected restart from the top after ERROR")
	}
	if string(stream.Written()) != "AT+CIPMUX=0\r\nAT+CIPMUX=0\r\n" {
		t.Fatalf("expected the first command resent, got %q", stream.Written())
	}
	if len(logger.warnings) == 0 {
		t.Fatal("expected a warning logged")
	}
}

func TestInitSequenceRestartsOnTimeout(t *testing.T) {
	base := time.Unix(0, 0)
	stream := media.NewMockStream()
	s := newInitState(base)
	logger := &testLogger{}

	s.poll(base, stream, logger)
	if s.poll(base.Add(defaultCommandTimeout), stream, logger).IsReady() {
		t.Fatal("a timed-out step must not report ready")
	}
	if s.phase != phaseCipmux {
		t.Fatal("expected the sequence to restart from the top")
	}
	if len(logger.warnings) == 0 {
		t.Fatal("expected a warning on timeout")
	}
}

func TestInitSequenceSkipsBlankLine(t *testing.T) {
	base := time.Unix(0, 0)
	stream := media.NewMockStream()
	s := newInitState(base)
	logger := &testLogger{}

	s.poll(base, stream, logger)
	stream.Feed([]byte("\r\nOK\r\n")...)
	if !s.poll(base, stream, logger).IsPending() {
		t.Fatal("did not expect completion after just one of three steps")
	}
	if s.phase != phaseCwmode {
		t.Fatal("expected the blank line to be skipped, not treated as a mismatch")
	}
}
