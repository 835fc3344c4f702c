package poll

// FutureState is the state of a [Future]'s single-slot mailbox.
type FutureState int

const (
	// FuturePending means the task has not produced a value yet.
	FuturePending FutureState = iota
	// FutureReady means the task produced a value.
	FutureReady
	// FutureDropped means the task slot was reset (e.g. by a timeout)
	// before it produced a value; the promise will never resolve.
	FutureDropped
)

// cell is the shared mailbox between a [Future] and its [Promise].
type cell[T any] struct {
	state FutureState
	value T
}

// Future is the read end of a single-slot future/promise pair. The
// initiating caller holds the [Future] and polls it for a result;
// exactly one of Resolve or Drop on the matching [Promise] determines
// the outcome it eventually observes.
type Future[T any] struct {
	cell *cell[T]
}

// Promise is the write end of a single-slot future/promise pair, held
// by the task that will eventually produce a result.
type Promise[T any] struct {
	cell *cell[T]
}

// NewFuture creates a fresh, pending future/promise pair.
func NewFuture[T any]() (Future[T], Promise[T]) {
	c := &cell[T]{state: FuturePending}
	return Future[T]{cell: c}, Promise[T]{cell: c}
}

// Poll reports the current state of the mailbox. Once it reports
// FutureReady or FutureDropped the state will never change again.
func (f Future[T]) Poll() (T, FutureState) {
	return f.cell.value, f.cell.state
}

// Resolve writes a value into the mailbox. Resolving an already
// resolved or dropped promise is a no-op: a task timeout that races
// with a late completion must not corrupt a slot a new task has since
// taken ownership of.
func (p Promise[T]) Resolve(value T) {
	if p.cell.state != FuturePending {
		return
	}
	p.cell.value = value
	p.cell.state = FutureReady
}

// Drop marks the promise as never going to resolve. This is what a
// task-timeout reset calls: any [Future] still held by a caller will
// observe FutureDropped instead of hanging in FuturePending forever.
func (p Promise[T]) Drop() {
	if p.cell.state != FuturePending {
		return
	}
	var zero T
	p.cell.value = zero
	p.cell.state = FutureDropped
}
