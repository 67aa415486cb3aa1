// This file implements Value, the single-slot memoized construct.

package lazy

import (
	"fmt"
	"sync/atomic"

	"github.com/lazyslot/lazyslot/slot"
)

// Value is a single memoized value of type V. Its slot begins empty and is
// bound at most once: by the preset computing function (New), at
// construction (Of), by an ad-hoc function (GetWith), or by an explicit
// bind (Set / TrySet). All methods are safe for concurrent use.
type Value[V any] struct {
	cell   atomic.Pointer[slot.Outcome[V]]
	reg    *slot.Registry
	holder *slot.Holder[func() (V, error)]
}

// New returns a Value that computes its content by calling fn on first
// access. fn is invoked at most once; racing callers serialize and share
// the one result. fn is released for collection after that one attempt.
func New[V any](fn func() (V, error)) *Value[V] {
	return &Value[V]{
		reg:    slot.NewRegistry(1),
		holder: slot.NewHolder(fn, 1),
	}
}

// Of returns a Value already bound to v. No function or mutex is ever
// retained.
func Of[V any](v V) *Value[V] {
	val := &Value[V]{
		reg:    slot.NewRegistry(1),
		holder: slot.NewHolder[func() (V, error)](nil, 0),
	}
	val.cell.Store(slot.Bound(v))
	val.reg.Release(0)
	return val
}

// Empty returns an unbound Value with no preset function. It resolves via
// GetWith, Set, or TrySet; plain Get reports slot.ErrNoFunction without
// poisoning the slot.
func Empty[V any]() *Value[V] {
	return &Value[V]{
		reg:    slot.NewRegistry(1),
		holder: slot.NewHolder[func() (V, error)](nil, 1),
	}
}

// Get returns the bound value, computing it first if necessary.
//
// An empty Value with no preset function returns slot.ErrNoFunction. If
// the computing function failed on an earlier call, Get returns the
// slot.ErrPreviouslyFailed wrap; the failure is permanent.
func (v *Value[V]) Get() (V, error) {
	return v.resolve(nil)
}

// GetWith is Get with an ad-hoc computing function used only when no
// preset function is available. If the slot is already terminal the
// recorded result is returned and fn is ignored.
func (v *Value[V]) GetWith(fn func() (V, error)) (V, error) {
	return v.resolve(fn)
}

// GetOr returns the bound value, computing it if necessary, or def when
// resolution fails for any reason.
func (v *Value[V]) GetOr(def V) V {
	val, err := v.Get()
	if err != nil {
		return def
	}
	return val
}

// GetOrElse returns the bound value, computing it if necessary, or the
// error produced by errFn when resolution fails.
func (v *Value[V]) GetOrElse(errFn func() error) (V, error) {
	val, err := v.Get()
	if err != nil {
		var zero V
		return zero, errFn()
	}
	return val, nil
}

func (v *Value[V]) resolve(adhoc func() (V, error)) (V, error) {
	return slot.Resolve(&v.cell, 0, v.reg, v.holder.CountDown, func() (V, error) {
		fn := adhoc
		if fn == nil {
			if preset, ok := v.holder.Fn(); ok && preset != nil {
				fn = preset
			}
		}
		if fn == nil {
			var zero V
			return zero, slot.ErrNoFunction
		}
		return fn()
	})
}

// TrySet binds val and reports true, or reports false when the slot is
// already terminal. On success the preset function (if any) and the slot's
// mutex are released for collection.
func (v *Value[V]) TrySet(val V) bool {
	if v.cell.CompareAndSwap(nil, slot.Bound(val)) {
		v.holder.CountDown()
		v.reg.Release(0)
		return true
	}
	return false
}

// Set binds val, returning ErrAlreadyBound when the slot is already
// terminal.
func (v *Value[V]) Set(val V) error {
	if !v.TrySet(val) {
		return ErrAlreadyBound
	}
	return nil
}

// Warm spawns a goroutine that resolves the Value once, so a later Get
// hits the fast path. A panic in the computing function is recorded as the
// slot's permanent Error and swallowed in the background goroutine; it
// surfaces to subsequent callers as a slot.PanicError cause.
func (v *Value[V]) Warm() {
	go func() {
		defer func() { _ = recover() }()
		_, _ = v.Get()
	}()
}

// State reports the slot's lifecycle state. StatePresent and StateError
// are immediately consistent and final; StateConstructing is advisory.
func (v *Value[V]) State() slot.State {
	return slot.StateOf(&v.cell, 0, v.reg)
}

// Err returns the recorded failure without forcing computation: the
// computing function's original error, a *slot.PanicError if it panicked,
// or nil when the slot is not in StateError.
func (v *Value[V]) Err() error {
	o := v.cell.Load()
	if o == nil {
		return nil
	}
	return o.Err()
}

// String renders the Value without forcing computation.
func (v *Value[V]) String() string {
	o := v.cell.Load()
	switch {
	case o == nil:
		return "Value[unbound]"
	case o.Failed():
		return fmt.Sprintf("Value[error: %v]", o.Err())
	default:
		return fmt.Sprintf("Value[%v]", o.Value())
	}
}
