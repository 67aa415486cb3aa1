// This file implements OrdinalMap, the memoized table over integer-kind
// keys. Keys map to slots by ordinal offset from the smallest key, and a
// packed bitset answers membership in O(1) before any slot is touched, so
// foreign keys never reach the slot table.

package lazy

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/lazyslot/lazyslot/slot"
)

// Ordinal is the constraint for OrdinalMap keys: any integer-kind type
// whose values fit an int64 ordinal (typical enum-style constants).
type Ordinal interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// OrdinalMap is a fixed-key-set memoized table keyed by ordinal values.
// The backing table spans [min, max] of the key set; slot index is
// ordinal − min. All methods are safe for concurrent use.
type OrdinalMap[K Ordinal, V any] struct {
	min    int64
	span   int64
	member []uint64 // bit b set ⇔ ordinal min+b is in the key set
	keys   []K
	cells  []atomic.Pointer[slot.Outcome[V]]
	reg    *slot.Registry
	holder *slot.Holder[func(K) (V, error)]
}

// NewOrdinalMap returns an OrdinalMap over the provided keys, computing
// each value on demand by fn(key). Key order is preserved for Keys and
// All. Returns ErrDuplicateInputKey when keys repeats a key.
func NewOrdinalMap[K Ordinal, V any](keys []K, fn func(K) (V, error)) (*OrdinalMap[K, V], error) {
	n := len(keys)
	if n == 0 {
		return &OrdinalMap[K, V]{
			reg:    slot.NewRegistry(0),
			holder: slot.NewHolder(fn, 0),
		}, nil
	}

	minOrd, maxOrd := int64(keys[0]), int64(keys[0])
	for _, k := range keys[1:] {
		ord := int64(k)
		if ord < minOrd {
			minOrd = ord
		}
		if ord > maxOrd {
			maxOrd = ord
		}
	}
	span := maxOrd - minOrd + 1

	member := make([]uint64, (span+63)/64)
	ordered := make([]K, n)
	for i, k := range keys {
		bit := uint64(int64(k) - minOrd)
		if member[bit/64]&(1<<(bit%64)) != 0 {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateInputKey, k)
		}
		member[bit/64] |= 1 << (bit % 64)
		ordered[i] = k
	}

	return &OrdinalMap[K, V]{
		min:    minOrd,
		span:   span,
		member: member,
		keys:   ordered,
		cells:  make([]atomic.Pointer[slot.Outcome[V]], span),
		// The registry table spans the ordinal range, but only the n
		// member slots ever finalize; counting them (not the span) lets
		// sparse maps reclaim their backing too.
		reg:    slot.NewSparseRegistry(int(span), n),
		holder: slot.NewHolder(fn, n),
	}, nil
}

// Len returns the number of keys (not the backing table span).
func (m *OrdinalMap[K, V]) Len() int {
	return len(m.keys)
}

// slotIndex resolves k to its slot index, or -1 for foreign keys.
func (m *OrdinalMap[K, V]) slotIndex(k K) int64 {
	ord := int64(k) - m.min
	if ord < 0 || ord >= m.span {
		return -1
	}
	if m.member[ord/64]&(1<<(uint64(ord)%64)) == 0 {
		return -1
	}
	return ord
}

// Contains reports whether k is in the key set, in O(1), without touching
// the slot table.
func (m *OrdinalMap[K, V]) Contains(k K) bool {
	return m.slotIndex(k) >= 0
}

// Keys returns the key set in construction order. The returned slice is a
// copy.
func (m *OrdinalMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value bound to k, computing it first if necessary.
// Returns ErrUnknownKey for keys outside the key set.
func (m *OrdinalMap[K, V]) Get(k K) (V, error) {
	return m.resolve(k, nil)
}

// GetWith is Get with an ad-hoc computing function used only when no
// preset function is available for the slot.
func (m *OrdinalMap[K, V]) GetWith(k K, fn func(K) (V, error)) (V, error) {
	return m.resolve(k, fn)
}

// GetOr returns the value bound to k, computing it if necessary, or def
// when resolution fails for any reason (including foreign keys).
func (m *OrdinalMap[K, V]) GetOr(k K, def V) V {
	v, err := m.Get(k)
	if err != nil {
		return def
	}
	return v
}

// GetOrElse returns the value bound to k, computing it if necessary, or
// the error produced by errFn when resolution fails.
func (m *OrdinalMap[K, V]) GetOrElse(k K, errFn func() error) (V, error) {
	v, err := m.Get(k)
	if err != nil {
		var zero V
		return zero, errFn()
	}
	return v, nil
}

func (m *OrdinalMap[K, V]) resolve(k K, adhoc func(K) (V, error)) (V, error) {
	i := m.slotIndex(k)
	if i < 0 {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrUnknownKey, k)
	}
	return slot.Resolve(&m.cells[i], int(i), m.reg, m.holder.CountDown, func() (V, error) {
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

// State reports the lifecycle state of k's slot. Foreign keys report
// ErrUnknownKey.
func (m *OrdinalMap[K, V]) State(k K) (slot.State, error) {
	i := m.slotIndex(k)
	if i < 0 {
		return slot.StateEmpty, fmt.Errorf("%w: %v", ErrUnknownKey, k)
	}
	return slot.StateOf(&m.cells[i], int(i), m.reg), nil
}

// Err returns k's recorded failure without forcing computation, or nil
// when the slot is not in StateError or k is foreign.
func (m *OrdinalMap[K, V]) Err(k K) error {
	i := m.slotIndex(k)
	if i < 0 {
		return nil
	}
	o := m.cells[i].Load()
	if o == nil {
		return nil
	}
	return o.Err()
}

// All iterates keys in construction order, computing each value on touch.
// Keys whose computation fails are skipped.
func (m *OrdinalMap[K, V]) All() iter.Seq2[K, V] {
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
