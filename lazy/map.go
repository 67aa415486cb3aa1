// This file implements Map, the memoized table over an arbitrary key set
// fixed at construction. A perfect key→index assignment is built once, so
// access cost is one map lookup plus the shared slot protocol; no hashing
// of our own is needed.

package lazy

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/lazyslot/lazyslot/slot"
)

// Map is a fixed-key-set table of independently memoized values. The key
// set is immutable after construction; each key's slot is bound at most
// once. All methods are safe for concurrent use.
type Map[K comparable, V any] struct {
	index  map[K]int
	keys   []K
	cells  []atomic.Pointer[slot.Outcome[V]]
	reg    *slot.Registry
	holder *slot.Holder[func(K) (V, error)]
}

// NewMap returns a Map over the provided keys, computing each value on
// demand by fn(key). fn may be nil, in which case slots resolve via
// GetWith only. Key order is preserved for Keys and All. Returns
// ErrDuplicateInputKey when keys repeats a key.
func NewMap[K comparable, V any](keys []K, fn func(K) (V, error)) (*Map[K, V], error) {
	n := len(keys)
	index := make(map[K]int, n)
	ordered := make([]K, n)
	for i, k := range keys {
		if _, dup := index[k]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateInputKey, k)
		}
		index[k] = i
		ordered[i] = k
	}
	return &Map[K, V]{
		index:  index,
		keys:   ordered,
		cells:  make([]atomic.Pointer[slot.Outcome[V]], n),
		reg:    slot.NewRegistry(n),
		holder: slot.NewHolder(fn, n),
	}, nil
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Contains reports whether k is in the key set. Never forces computation.
func (m *Map[K, V]) Contains(k K) bool {
	_, ok := m.index[k]
	return ok
}

// Keys returns the key set in construction order. The returned slice is a
// copy.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value bound to k, computing it first if necessary.
// Returns ErrUnknownKey for keys outside the key set.
func (m *Map[K, V]) Get(k K) (V, error) {
	return m.resolve(k, nil)
}

// GetWith is Get with an ad-hoc computing function used only when no
// preset function is available for the slot.
func (m *Map[K, V]) GetWith(k K, fn func(K) (V, error)) (V, error) {
	return m.resolve(k, fn)
}

// GetOr returns the value bound to k, computing it if necessary, or def
// when resolution fails for any reason (including unknown keys).
func (m *Map[K, V]) GetOr(k K, def V) V {
	v, err := m.Get(k)
	if err != nil {
		return def
	}
	return v
}

// GetOrElse returns the value bound to k, computing it if necessary, or
// the error produced by errFn when resolution fails.
func (m *Map[K, V]) GetOrElse(k K, errFn func() error) (V, error) {
	v, err := m.Get(k)
	if err != nil {
		var zero V
		return zero, errFn()
	}
	return v, nil
}

func (m *Map[K, V]) resolve(k K, adhoc func(K) (V, error)) (V, error) {
	i, ok := m.index[k]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrUnknownKey, k)
	}
	return slot.Resolve(&m.cells[i], i, m.reg, m.holder.CountDown, func() (V, error) {
		fn := adhoc
		if fn == nil {
			if preset, ok := m.holder.Fn(); ok && preset != nil {
				fn = preset
			}
		}
		if fn == nil {
			var zero V
			return zero, slot.ErrNoFunction
		}
		return fn(k)
	})
}

// State reports the lifecycle state of k's slot. Unknown keys report
// ErrUnknownKey.
func (m *Map[K, V]) State(k K) (slot.State, error) {
	i, ok := m.index[k]
	if !ok {
		return slot.StateEmpty, fmt.Errorf("%w: %v", ErrUnknownKey, k)
	}
	return slot.StateOf(&m.cells[i], i, m.reg), nil
}

// Err returns k's recorded failure without forcing computation, or nil
// when the slot is not in StateError or k is unknown.
func (m *Map[K, V]) Err(k K) error {
	i, ok := m.index[k]
	if !ok {
		return nil
	}
	o := m.cells[i].Load()
	if o == nil {
		return nil
	}
	return o.Err()
}

// All iterates keys in construction order, computing each value on touch.
// Keys whose computation fails are skipped; the failure stays queryable
// via Err.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			v, err := m.Get(k)
			if err != nil {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}
