// Package meshnet ties together the collaborators that make up a
// heterogeneous-link mesh node: media ports (package media and its
// uhf/wifi/serialport/ethernet children) own the wire framing for each
// physical link, the link broker (package link) fans frames in and out
// of those ports, and the routing overlay (package routing) picks a next
// hop and suppresses duplicates for traffic that crosses more than one
// hop.
//
// Every suspension point in this module is explicit: package poll
// supplies the Poll[T] Ready/Pending discriminant, delays, debounces, and
// a single-slot future/promise pair. There are no goroutines and no
// channels below the top-level tick loop that a host process drives by
// repeatedly calling Execute on the broker, every registered media port,
// and the routing overlay.
//
// This package itself only holds the small amount of glue every other
// package needs: the [Logger] interface every other package accepts, and
// the Must0/Must1/Must2 panics used by wiring code (never by library
// logic) when a precondition that "cannot happen" is violated.
package meshnet
