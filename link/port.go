// Package link implements the frame broker that sits between media
// ports and upper layers (spec.md §4.1): bounded, sweep-evicted queues
// for received and send-requested frames, keyed by port and address
// type. It is grounded on the teacher's router.go (Router/RouterPort),
// recast from a goroutine-per-port channel router into a poll-driven
// broker with no background goroutines, per spec.md §5/§9.
package link

// PortNumber is a small integer assigned to a media port in
// registration order.
type PortNumber uint8

// MaxMediaPerNode bounds how many media ports a single node may
// register, per spec.md §3.
const MaxMediaPerNode = 4
