// This file implements the slow-path resolution protocol shared by every
// lazy construct. All higher-level types delegate here after their
// acquire-load fast path misses.

package slot

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Resolve runs the slot resolution protocol for the slot backed by cell:
//
//  1. Acquire-load the cell; a terminal outcome is returned immediately.
//  2. Ask reg for the slot's mutex handle. If the slot already finalized,
//     re-read the cell (the terminal outcome is guaranteed visible).
//  3. Reject same-goroutine reentry with ErrCircular before blocking.
//  4. Enter the handle's critical section, then re-check the cell: a racer
//     may have completed the slot while this goroutine waited.
//  5. Invoke compute. Publish the result — value or failure — with a
//     single release-store, count down the function holder, and tombstone
//     the slot's mutex.
//
// compute reports the construct's own lookup of a computing function; when
// it returns an error matching ErrNoFunction, nothing is recorded: the
// slot stays Empty, no countdown fires, and the mutex stays live so a
// later call may retry with an ad-hoc function or an explicit bind.
//
// The goroutine whose compute ran receives its error verbatim (or has its
// panic re-raised after the Error outcome is published). Every other
// caller of a failed slot receives the ErrPreviouslyFailed wrap.
//
// countDown is invoked exactly once per finalized slot even if an explicit
// bind races with the computation; in that race the bind wins and the
// computed result is discarded.
func Resolve[V any](cell *atomic.Pointer[Outcome[V]], index int, reg *Registry,
	countDown func(), compute func() (V, error)) (V, error) {
	// Fast path: acquire-load.
	if o := cell.Load(); o != nil {
		return o.Result()
	}

	h, ok := reg.Acquire(index)
	if !ok {
		// Already finalized; the terminal outcome must be visible now.
		if o := cell.Load(); o != nil {
			return o.Result()
		}
		var zero V
		return zero, fmt.Errorf("slot: index %d finalized without an outcome", index)
	}

	if h.heldByCaller() {
		var zero V
		return zero, fmt.Errorf("%w: index %d", ErrCircular, index)
	}

	h.lock()
	defer h.unlock()

	// Double-check under the critical section.
	if o := cell.Load(); o != nil {
		return o.Result()
	}

	return runCompute(cell, index, reg, countDown, compute)
}

// runCompute invokes the computing function under the slot's critical
// section and publishes its terminal outcome. Publication is a CAS so that
// an explicit bind racing outside the mutex can never be overwritten.
func runCompute[V any](cell *atomic.Pointer[Outcome[V]], index int, reg *Registry,
	countDown func(), compute func() (V, error)) (v V, err error) {
	defer func() {
		if p := recover(); p != nil {
			if cell.CompareAndSwap(nil, panicOutcome[V](p)) {
				countDown()
				reg.Release(index)
			}
			panic(p)
		}
	}()

	v, err = compute()
	if err != nil {
		if errors.Is(err, ErrNoFunction) {
			// No attempt was made; the slot stays Empty and retryable.
			var zero V
			return zero, err
		}
		if cell.CompareAndSwap(nil, failedOutcome[V](err)) {
			countDown()
			reg.Release(index)
			var zero V
			return zero, err
		}
		// An explicit bind won while the function was failing; the bound
		// value is the slot's only truth.
		return cell.Load().Result()
	}

	if cell.CompareAndSwap(nil, Bound(v)) {
		countDown()
		reg.Release(index)
		return v, nil
	}
	return cell.Load().Result()
}

// StateOf reports the lifecycle state of the slot backed by cell. Terminal
// answers are immediately consistent; StateConstructing is advisory and may
// consult the registry's synchronization state.
func StateOf[V any](cell *atomic.Pointer[Outcome[V]], index int, reg *Registry) State {
	if o := cell.Load(); o != nil {
		if o.Failed() {
			return StateError
		}
		return StatePresent
	}
	if reg.Constructing(index) {
		return StateConstructing
	}
	return StateEmpty
}
