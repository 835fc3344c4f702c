package routing

import "errors"

// ErrInvalidWireBytes is returned by header decoders when the input is
// too short or carries malformed fields, mirroring addr.ErrInvalidWireBytes
// one layer up.
var ErrInvalidWireBytes = errors.New("routing: invalid wire bytes")

// ErrUnreachableNode is the routing-specific send failure named in
// spec.md §7's error table: discovery could not find a next hop for a
// unicast destination.
var ErrUnreachableNode = errors.New("routing: unreachable node")

// ErrQueueFull names the queue-full error kind. No routing function
// returns it or resolves a send future with it: an occupied send task
// slot makes [Overlay.PollRequestSend] return Pending.
var ErrQueueFull = errors.New("routing: send queue full")

// ErrTimeout is returned when a send task's neighbor socket (or the
// discovery lookup feeding it) never completes within the task
// timeout, reusing the generic Timeout kind from spec.md §7's AT-modem
// task row for the routing send future.
var ErrTimeout = errors.New("routing: send task timed out")

// ErrPayloadTooLarge is returned when a caller's requested payload,
// plus the routing header, would exceed the neighbor socket's MTU, per
// spec.md §4.7 step 2.
var ErrPayloadTooLarge = errors.New("routing: payload exceeds neighbor socket MTU")
