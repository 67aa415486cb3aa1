// This file implements Holder, the reference-counted keeper of a
// construct's computing function.

package slot

import "sync/atomic"

// Holder retains a computing function until every slot it serves has
// finished its one computation attempt, then drops the reference so state
// captured by the closure (a database connection, a large table) can be
// collected without the caller discarding the construct.
//
// Holder is safe for concurrent use; CountDown may be called from many
// slots finishing simultaneously.
type Holder[F any] struct {
	fn      atomic.Pointer[F]
	pending atomic.Int64
}

// NewHolder returns a Holder retaining fn until n slots have counted down.
// With n == 0 the function is never retained at all.
func NewHolder[F any](fn F, n int) *Holder[F] {
	h := new(Holder[F])
	if n > 0 {
		h.fn.Store(&fn)
	}
	h.pending.Store(int64(n))
	return h
}

// Fn returns the retained function. ok is false once every slot has
// finished and the reference has been dropped.
func (h *Holder[F]) Fn() (fn F, ok bool) {
	p := h.fn.Load()
	if p == nil {
		var zero F
		return zero, false
	}
	return *p, true
}

// CountDown records that one slot has finished its computation attempt.
// Exactly the call that takes the counter to zero drops the function
// reference; later reads of Fn report exhaustion.
func (h *Holder[F]) CountDown() {
	if h.pending.Add(-1) == 0 {
		h.fn.Store(nil)
	}
}
