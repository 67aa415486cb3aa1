// This file implements Array, the integer-indexed memoized table. All
// slots share one mutex registry and one function holder; resolving slot i
// never blocks callers of slot j.

package lazy

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/lazyslot/lazyslot/slot"
)

// Array is a fixed-length table of independently memoized slots. Slot i is
// bound at most once by fn(i), an ad-hoc function, or an explicit bind.
// All methods are safe for concurrent use.
type Array[V any] struct {
	cells  []atomic.Pointer[slot.Outcome[V]]
	reg    *slot.Registry
	holder *slot.Holder[func(int) (V, error)]
}

// NewArray returns an Array of n slots computed on demand by fn(i).
// fn may be nil, in which case slots resolve via GetWith or Set only.
// Returns ErrBadSize for negative n.
func NewArray[V any](n int, fn func(int) (V, error)) (*Array[V], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	return &Array[V]{
		cells:  make([]atomic.Pointer[slot.Outcome[V]], n),
		reg:    slot.NewRegistry(n),
		holder: slot.NewHolder(fn, n),
	}, nil
}

// Len returns the number of slots.
func (a *Array[V]) Len() int {
	return len(a.cells)
}

// Get returns slot i's value, computing it first if necessary.
func (a *Array[V]) Get(i int) (V, error) {
	return a.resolve(i, nil)
}

// GetWith is Get with an ad-hoc computing function used only when no
// preset function is available for the slot.
func (a *Array[V]) GetWith(i int, fn func(int) (V, error)) (V, error) {
	return a.resolve(i, fn)
}

// GetOr returns slot i's value, computing it if necessary, or def when
// resolution fails for any reason (including out-of-range indices).
func (a *Array[V]) GetOr(i int, def V) V {
	v, err := a.Get(i)
	if err != nil {
		return def
	}
	return v
}

// GetOrElse returns slot i's value, computing it if necessary, or the
// error produced by errFn when resolution fails.
func (a *Array[V]) GetOrElse(i int, errFn func() error) (V, error) {
	v, err := a.Get(i)
	if err != nil {
		var zero V
		return zero, errFn()
	}
	return v, nil
}

func (a *Array[V]) resolve(i int, adhoc func(int) (V, error)) (V, error) {
	if i < 0 || i >= len(a.cells) {
		var zero V
		return zero, fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, len(a.cells))
	}
	return slot.Resolve(&a.cells[i], i, a.reg, a.holder.CountDown, func() (V, error) {
		fn := adhoc
		if fn == nil {
			if preset, ok := a.holder.Fn(); ok && preset != nil {
				fn = preset
			}
		}
		if fn == nil {
			var zero V
			return zero, slot.ErrNoFunction
		}
		return fn(i)
	})
}

// TrySet binds slot i to val and reports true, or false when the slot is
// already terminal or i is out of range.
func (a *Array[V]) TrySet(i int, val V) bool {
	if i < 0 || i >= len(a.cells) {
		return false
	}
	if a.cells[i].CompareAndSwap(nil, slot.Bound(val)) {
		a.holder.CountDown()
		a.reg.Release(i)
		return true
	}
	return false
}

// Set binds slot i to val. Returns ErrIndexOutOfRange or ErrAlreadyBound.
func (a *Array[V]) Set(i int, val V) error {
	if i < 0 || i >= len(a.cells) {
		return fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, len(a.cells))
	}
	if !a.TrySet(i, val) {
		return fmt.Errorf("%w: index %d", ErrAlreadyBound, i)
	}
	return nil
}

// State reports slot i's lifecycle state.
func (a *Array[V]) State(i int) (slot.State, error) {
	if i < 0 || i >= len(a.cells) {
		return slot.StateEmpty, fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, len(a.cells))
	}
	return slot.StateOf(&a.cells[i], i, a.reg), nil
}

// Err returns slot i's recorded failure without forcing computation, or
// nil when the slot is not in StateError or i is out of range.
func (a *Array[V]) Err(i int) error {
	if i < 0 || i >= len(a.cells) {
		return nil
	}
	o := a.cells[i].Load()
	if o == nil {
		return nil
	}
	return o.Err()
}

// All iterates slots in index order, computing each on touch. Slots whose
// computation fails (or that have no computing function) are skipped; the
// failure stays queryable via Err.
func (a *Array[V]) All() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for i := range a.cells {
			v, err := a.Get(i)
			if err != nil {
				continue
			}
			if !yield(i, v) {
				return
			}
		}
	}
}
