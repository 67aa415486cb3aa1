// This file implements one fixed-capacity open-addressed layer. A layer is
// append-only: slots fill, nothing moves, nothing is removed.

package stablemap

import "sync/atomic"

// entry is the immutable record bound to a key: a value, or the permanent
// failure of the key's one computation attempt. An entry is fully formed
// before its key publishes, so readers never observe a partial record.
type entry[V any] struct {
	val V
	err error
}

// layer is one open-addressed table of key/value pairs with power-of-two
// pair count. Writers (serialized by the map's lock) install the value
// first and the key second; readers probe keys first and only then load
// the paired value.
type layer[K comparable, V any] struct {
	keys  []atomic.Pointer[K]
	vals  []atomic.Pointer[entry[V]]
	mask  uint64
	limit int64        // fill threshold: pairs/2, i.e. 25% of slots
	count atomic.Int64 // published entries
}

func newLayer[K comparable, V any](pairs int) *layer[K, V] {
	return &layer[K, V]{
		keys:  make([]atomic.Pointer[K], pairs),
		vals:  make([]atomic.Pointer[entry[V]], pairs),
		mask:  uint64(pairs - 1),
		limit: int64(pairs / 2),
	}
}

// full reports whether the layer reached its fill threshold. Probe chains
// stay short because at most half the pairs are ever occupied.
func (l *layer[K, V]) full() bool {
	return l.count.Load() >= l.limit
}

// lookup probes for key and returns its entry, or nil when the key is not
// in this layer. Safe for unsynchronized readers: the key slot is read
// before the value slot, and a nil key terminates the probe chain (slots
// are never vacated).
func (l *layer[K, V]) lookup(hash uint64, key K) *entry[V] {
	idx := hash & l.mask
	for range l.keys {
		kp := l.keys[idx].Load()
		if kp == nil {
			return nil
		}
		if *kp == key {
			return l.vals[idx].Load()
		}
		idx = (idx + 1) & l.mask
	}
	return nil
}

// insert places e under key at the first free slot of key's probe chain.
// Caller holds the map lock and has checked full(); below the threshold a
// wraparound probe always terminates. The value is CAS-installed before
// the key publishes.
func (l *layer[K, V]) insert(hash uint64, key K, e *entry[V]) {
	idx := hash & l.mask
	for {
		if l.keys[idx].Load() == nil {
			l.vals[idx].CompareAndSwap(nil, e)
			k := key
			l.keys[idx].Store(&k)
			l.count.Add(1)
			return
		}
		idx = (idx + 1) & l.mask
	}
}
