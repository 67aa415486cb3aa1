// This file implements Registry, the reclaimable set of per-slot mutex
// handles. Handles are created lazily via CAS, replaced by a tombstone once
// their slot is terminal, and the whole backing array is dropped when the
// last slot finalizes so the handles (and anything they keep reachable)
// become collectible.

package slot

import (
	"sync"
	"sync/atomic"
)

// tombstoneHandle marks a slot whose mutex is spent. A tombstoned slot is
// guaranteed terminal; no future caller re-acquires a mutex for it.
var tombstoneHandle = new(Handle)

// Handle is the synchronization handle of one slot. It is non-reentrant:
// the owning goroutine is recorded while the handle is locked so that
// same-goroutine reentry can be rejected instead of deadlocking.
type Handle struct {
	mu    sync.Mutex
	owner atomic.Int64 // goroutine ID of the holder, 0 when unlocked
}

func (h *Handle) lock() {
	h.mu.Lock()
	h.owner.Store(GoroutineID())
}

func (h *Handle) unlock() {
	h.owner.Store(0)
	h.mu.Unlock()
}

// heldByCaller reports whether the calling goroutine currently holds h.
// It can only return true for the goroutine that set owner, so a racing
// read never produces a false positive for the caller.
func (h *Handle) heldByCaller() bool {
	return h.owner.Load() == GoroutineID()
}

// registryBacking is the droppable part of a Registry: the handle table
// plus the count of slots that have not yet finalized.
type registryBacking struct {
	handles []atomic.Pointer[Handle]
	live    atomic.Int64
}

// Registry maps slot indices to lazily created mutex handles.
//
// Each slot's entry transitions absent → live handle → tombstone, in that
// order, at most once each. A Registry coordinates; it cannot itself fail.
type Registry struct {
	backing atomic.Pointer[registryBacking]
}

// NewRegistry returns a Registry serving n slots.
func NewRegistry(n int) *Registry {
	return NewSparseRegistry(n, n)
}

// NewSparseRegistry returns a Registry whose handle table spans slots
// indices of which only live are ever expected to finalize. The backing
// array drops once those live slots have released, even though the gap
// slots never do. The caller must guarantee no gap slot is ever resolved.
func NewSparseRegistry(slots, live int) *Registry {
	r := new(Registry)
	b := &registryBacking{handles: make([]atomic.Pointer[Handle], slots)}
	b.live.Store(int64(live))
	r.backing.Store(b)
	return r
}

// Acquire returns the mutex handle for slot i, installing a fresh one via
// CAS if none exists yet. Racing callers all receive the same winning
// handle. ok is false when the slot is already finalized (its handle was
// tombstoned, or the whole backing array has been dropped); the caller
// must then re-read the slot, whose terminal outcome is guaranteed to be
// visible.
func (r *Registry) Acquire(i int) (h *Handle, ok bool) {
	b := r.backing.Load()
	if b == nil {
		// Every slot has finalized; nothing is allocated anymore.
		return nil, false
	}
	h = b.handles[i].Load()
	if h == tombstoneHandle {
		return nil, false
	}
	if h != nil {
		return h, true
	}
	fresh := new(Handle)
	if b.handles[i].CompareAndSwap(nil, fresh) {
		return fresh, true
	}
	// A racer installed first; use the winner (which may already be spent).
	h = b.handles[i].Load()
	if h == tombstoneHandle {
		return nil, false
	}
	return h, true
}

// Release tombstones slot i's handle and decrements the live counter.
// When the counter reaches zero the backing array is dropped, at which
// point the computing function's captured state is no longer reachable
// through this Registry. Release is idempotent per slot: only the call
// that performs the handle → tombstone transition decrements.
func (r *Registry) Release(i int) {
	b := r.backing.Load()
	if b == nil {
		return
	}
	if b.handles[i].Swap(tombstoneHandle) == tombstoneHandle {
		return
	}
	if b.live.Add(-1) == 0 {
		r.backing.Store(nil)
	}
}

// Constructing reports whether some goroutine currently holds slot i's
// handle. Advisory only: the answer may be stale by the time it returns.
func (r *Registry) Constructing(i int) bool {
	b := r.backing.Load()
	if b == nil {
		return false
	}
	h := b.handles[i].Load()
	return h != nil && h != tombstoneHandle && h.owner.Load() != 0
}

// Dropped reports whether the backing array has been reclaimed, i.e.
// every slot served by this Registry has finalized.
func (r *Registry) Dropped() bool {
	return r.backing.Load() == nil
}
