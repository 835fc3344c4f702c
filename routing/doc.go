// Package routing implements the routing overlay (spec.md §4.7): frame
// identity and duplicate suppression via a [FrameIdCache], a bounded
// delay pool that reorders received frames by a cost-derived
// expiration, and the accept/repeat decision that picks local delivery
// versus unicast or broadcast forwarding. It treats next-hop selection
// and neighbor enumeration as opaque collaborators ([Discovery],
// [NeighborSocket]), grounded on
// original_source/.../net/routing/'s neighbor-service and
// discovery-service split referenced by spec.md §6.
package routing
