package wifi

import (
	"github.com/keke1008/meshnet/media"
	"github.com/keke1008/meshnet/poll"
)

// maxResponseLineLength bounds a single-line AT response: enough for
// "SEND FAIL\r\n" and the other fixed tokens this driver compares
// against exactly.
const maxResponseLineLength = 16

// genericCommand writes a single command string and waits for one
// CRLF-terminated reply line, reporting whether it matched an expected
// literal token. It is the building block every fixed-reply AT command
// in this driver is built from (initialization steps,
// JoinAp/StartUdpServer/CloseUdpServer), grounded on
// original_source's GenericEmptyResponseSyncControl. A blank line (the
// ESP-AT module commonly emits one before its real response) is
// skipped rather than treated as a mismatch.
type genericCommand struct {
	writer   *media.ByteWriter
	line     *media.LineBuffer
	expected string
}

func newGenericCommand(command, expected string) *genericCommand {
	return &genericCommand{
		writer:   media.NewStringWriter(command),
		line:     media.NewLineBuffer(maxResponseLineLength),
		expected: expected,
	}
}

func (c *genericCommand) poll(stream media.Stream) poll.Poll[bool] {
	if c.writer.Poll(stream).IsPending() {
		return poll.Pending[bool]()
	}
	for stream.ReadableCount() > 0 {
		b := stream.ReadByte()
		line, ok, overflowed := c.line.Feed(b)
		if overflowed {
			c.line.Reset()
			continue
		}
		if !ok {
			continue
		}
		if len(line) == 2 {
			continue
		}
		return poll.Ready(string(line) == c.expected)
	}
	return poll.Pending[bool]()
}
