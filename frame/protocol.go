package frame

// ProtocolNumber is the 1-byte tag identifying an upper-layer protocol.
// It is opaque to the broker except for equality matching, per
// spec.md §3.
type ProtocolNumber uint8

// Size is the on-wire width of a [ProtocolNumber], referenced by every
// media port when computing a frame's total length on the wire.
const Size = 1
