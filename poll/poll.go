// Package poll supplies the cooperative, single-threaded scheduling
// primitives the rest of this module is built on: a Ready/Pending
// discriminated result, explicit delays and debounces carrying a
// time.Time, and a single-slot future/promise mailbox. Nothing in this
// package spawns a goroutine or blocks; every operation that cannot
// complete immediately returns a Poll value and the caller re-polls on
// its own next tick.
package poll

// Poll is the result of a non-blocking operation: either the operation
// completed with a value (Ready) or it needs to be retried later
// (Pending). The zero value is Pending.
type Poll[T any] struct {
	ready bool
	value T
}

// Ready wraps a completed value.
func Ready[T any](value T) Poll[T] {
	return Poll[T]{ready: true, value: value}
}

// Pending constructs a not-yet-complete result.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// IsReady reports whether the operation completed.
func (p Poll[T]) IsReady() bool {
	return p.ready
}

// IsPending reports whether the caller should retry later.
func (p Poll[T]) IsPending() bool {
	return !p.ready
}

// Unwrap returns the wrapped value and whether it was actually ready.
// Callers that only care about progress (no payload) should prefer
// IsReady/IsPending; Unwrap is for the common case of propagating a
// value up a call chain.
func (p Poll[T]) Unwrap() (T, bool) {
	return p.value, p.ready
}

// Void is the payload type for operations that only report completion,
// analogous to the source's `nb::Poll<void>`.
type Void = struct{}

// ReadyVoid is shorthand for Ready(Void{}).
func ReadyVoid() Poll[Void] {
	return Ready(Void{})
}

// Map transforms a ready value, passing a pending result through
// unchanged.
func Map[T, U any](p Poll[T], f func(T) U) Poll[U] {
	if v, ok := p.Unwrap(); ok {
		return Ready(f(v))
	}
	return Pending[U]()
}
