// This file implements the layered map itself: lock-free lookups across
// the layer sequence, coarse-locked insertion with threshold-driven layer
// growth, and at-most-once lazy computation with in-flight coalescing.

package stablemap

import (
	"errors"
	"fmt"
	"hash/maphash"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/lazyslot/lazyslot/slot"
)

// Sentinel errors for layered map operations.
var (
	// ErrDuplicateKey indicates Put targeted a key that is already bound
	// (to a value or to a recorded failure).
	ErrDuplicateKey = errors.New("stablemap: key already bound")

	// ErrCapacityExhausted indicates every permitted layer has reached its
	// fill threshold; the map accepts no further keys.
	ErrCapacityExhausted = errors.New("stablemap: layer capacity exhausted")

	// ErrBadCapacity indicates a non-positive initial capacity option.
	ErrBadCapacity = errors.New("stablemap: initial capacity must be positive")
)

const (
	// maxLayers bounds growth; the 8th layer's threshold is the map's
	// hard capacity.
	maxLayers = 8

	// growthShift is the per-layer capacity multiplier: ×16.
	growthShift = 4

	// defaultPairs is the first layer's pair count (32 slots counting
	// keys and values separately); its fill threshold is 8 entries.
	defaultPairs = 16
)

// Option configures a Map at construction.
type Option func(*config)

type config struct {
	firstPairs int
}

// WithInitialCapacity sets the first layer's capacity in key/value pairs.
// The value is rounded up to a power of two, minimum 16. Later layers
// still grow by ×16 from whatever the first layer is.
func WithInitialCapacity(pairs int) Option {
	return func(c *config) { c.firstPairs = pairs }
}

// Map is an unbounded layered stable map. Bound entries never move and
// are never removed or replaced. All methods are safe for concurrent use;
// Get and All never block.
type Map[K comparable, V any] struct {
	seed       maphash.Seed
	firstPairs int

	layers    [maxLayers]atomic.Pointer[layer[K, V]]
	numLayers atomic.Int32

	size atomic.Int64 // bound values only; failed entries do not count

	mu       sync.Mutex // guards insertion, layer creation, inflight
	inflight map[K]*inflightCompute[V]
}

// inflightCompute coalesces concurrent GetOrCompute calls for one key.
type inflightCompute[V any] struct {
	owner int64 // goroutine running the computation
	done  chan struct{}
}

// New returns an empty Map. The first layer is allocated eagerly.
func New[K comparable, V any](opts ...Option) (*Map[K, V], error) {
	cfg := config{firstPairs: defaultPairs}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.firstPairs <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadCapacity, cfg.firstPairs)
	}
	pairs := defaultPairs
	for pairs < cfg.firstPairs {
		pairs <<= 1
	}
	m := &Map[K, V]{
		seed:       maphash.MakeSeed(),
		firstPairs: pairs,
	}
	m.layers[0].Store(newLayer[K, V](pairs))
	m.numLayers.Store(1)
	return m, nil
}

func (m *Map[K, V]) hash(key K) uint64 {
	return maphash.Comparable(m.seed, key)
}

// find scans layers oldest to newest for key's entry. Lock-free.
func (m *Map[K, V]) find(hash uint64, key K) *entry[V] {
	n := int(m.numLayers.Load())
	for i := 0; i < n; i++ {
		if e := m.layers[i].Load().lookup(hash, key); e != nil {
			return e
		}
	}
	return nil
}

// Get returns the value bound to key. Lock-free; a key bound to a
// recorded failure reports false, like an absent key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	e := m.find(m.hash(key), key)
	if e == nil || e.err != nil {
		var zero V
		return zero, false
	}
	return e.val, true
}

// Len returns the number of keys bound to values.
func (m *Map[K, V]) Len() int {
	return int(m.size.Load())
}

// Layers returns the number of layers allocated so far.
func (m *Map[K, V]) Layers() int {
	return int(m.numLayers.Load())
}

// Put binds key to val. Returns ErrDuplicateKey when key is already bound
// and ErrCapacityExhausted when no layer can take another entry.
func (m *Map[K, V]) Put(key K, val V) error {
	hash := m.hash(key)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(hash, key) != nil {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	return m.insertLocked(hash, key, &entry[V]{val: val})
}

// insertLocked stores e under key in the newest non-full layer, creating
// the next layer when the newest one reached its threshold.
func (m *Map[K, V]) insertLocked(hash uint64, key K, e *entry[V]) error {
	n := int(m.numLayers.Load())
	l := m.layers[n-1].Load()
	if l.full() {
		if n == maxLayers {
			return fmt.Errorf("%w: %d layers", ErrCapacityExhausted, maxLayers)
		}
		l = newLayer[K, V](m.firstPairs << (growthShift * n))
		m.layers[n].Store(l)
		// Publish the count only after the layer itself; readers loading
		// numLayers == n+1 are guaranteed to see the layer.
		m.numLayers.Store(int32(n + 1))
	}
	l.insert(hash, key, e)
	if e.err == nil {
		m.size.Add(1)
	}
	return nil
}

// GetOrCompute returns the value bound to key, computing and binding it
// with fn first if necessary. fn runs at most once per key no matter how
// many goroutines race; losers block until the winner's attempt finishes
// and then share its result.
//
// A failed attempt is permanent: the computing goroutine receives fn's
// error verbatim (or its panic re-raised), every later caller the
// slot.ErrPreviouslyFailed wrap. Same-goroutine reentry — fn calling back
// into its own key — returns slot.ErrCircular instead of deadlocking.
//
// An explicit Put landing while fn runs wins: the computed result is
// discarded and the computing caller adopts the bound value.
func (m *Map[K, V]) GetOrCompute(key K, fn func(K) (V, error)) (V, error) {
	hash := m.hash(key)
	if e := m.find(hash, key); e != nil {
		return e.result()
	}
	for {
		m.mu.Lock()
		if e := m.find(hash, key); e != nil {
			m.mu.Unlock()
			return e.result()
		}

		if fl, ok := m.inflight[key]; ok {
			if fl.owner == slot.GoroutineID() {
				m.mu.Unlock()
				var zero V
				return zero, fmt.Errorf("%w: key %v", slot.ErrCircular, key)
			}
			done := fl.done
			m.mu.Unlock()
			<-done
			continue
		}

		// Refuse to start a computation that could never be committed.
		if n := int(m.numLayers.Load()); n == maxLayers && m.layers[n-1].Load().full() {
			m.mu.Unlock()
			var zero V
			return zero, fmt.Errorf("%w: %d layers", ErrCapacityExhausted, maxLayers)
		}

		if m.inflight == nil {
			m.inflight = make(map[K]*inflightCompute[V])
		}
		fl := &inflightCompute[V]{owner: slot.GoroutineID(), done: make(chan struct{})}
		m.inflight[key] = fl
		m.mu.Unlock()

		return m.compute(hash, key, fn, fl)
	}
}

// compute runs fn outside the map lock and commits its outcome.
func (m *Map[K, V]) compute(hash uint64, key K, fn func(K) (V, error), fl *inflightCompute[V]) (V, error) {
	defer func() {
		if p := recover(); p != nil {
			_, _ = m.commit(hash, key, &entry[V]{err: &slot.PanicError{Value: p}}, fl)
			panic(p)
		}
	}()

	v, err := fn(key)
	e := &entry[V]{val: v}
	if err != nil {
		e = &entry[V]{err: err}
	}
	won, cerr := m.commit(hash, key, e, fl)
	if cerr != nil {
		var zero V
		if err != nil {
			// Neither outcome could be recorded; surface both rather than
			// mask the computation's failure behind the capacity error.
			return zero, fmt.Errorf("%w; computing function also failed: %w", cerr, err)
		}
		return zero, cerr
	}
	if won != e {
		// An explicit bind landed while the function ran; the bound entry
		// is the key's only truth and the computed result is discarded.
		return won.result()
	}
	if err != nil {
		var zero V
		return zero, err // verbatim to the computing goroutine
	}
	return v, nil
}

// commit records the finished entry and wakes the waiters. An entry bound
// while the computation ran (an explicit Put racing the in-flight attempt)
// wins: the computed entry is discarded and the existing one returned.
// The error is non-nil only when the map ran out of layers between the
// computation starting and finishing; nothing is recorded then and the
// key stays unbound.
func (m *Map[K, V]) commit(hash uint64, key K, e *entry[V], fl *inflightCompute[V]) (*entry[V], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var err error
	if existing := m.find(hash, key); existing != nil {
		e = existing
	} else {
		err = m.insertLocked(hash, key, e)
	}
	delete(m.inflight, key)
	close(fl.done)
	return e, err
}

// State reports the lifecycle state of key: StateEmpty when unknown,
// StateConstructing while a GetOrCompute attempt is in flight,
// StatePresent for a bound value, StateError for a recorded failure.
func (m *Map[K, V]) State(key K) slot.State {
	if e := m.find(m.hash(key), key); e != nil {
		if e.err != nil {
			return slot.StateError
		}
		return slot.StatePresent
	}
	m.mu.Lock()
	_, constructing := m.inflight[key]
	m.mu.Unlock()
	if constructing {
		return slot.StateConstructing
	}
	return slot.StateEmpty
}

// Err returns key's recorded failure, or nil when key is absent or bound
// to a value. Never forces computation.
func (m *Map[K, V]) Err(key K) error {
	e := m.find(m.hash(key), key)
	if e == nil {
		return nil
	}
	return e.err
}

// All ranges over every key bound to a value, oldest layer first. The
// walk is lock-free and never forces computation; keys recorded as
// failures are skipped, and keys bound while the walk is in progress may
// or may not be yielded. Slot order within a layer follows hash placement,
// so overall order is unspecified.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		n := int(m.numLayers.Load())
		for i := 0; i < n; i++ {
			l := m.layers[i].Load()
			for idx := range l.keys {
				kp := l.keys[idx].Load()
				if kp == nil {
					continue
				}
				// The value published before the key did.
				e := l.vals[idx].Load()
				if e.err != nil {
					continue
				}
				if !yield(*kp, e.val) {
					return
				}
			}
		}
	}
}

// result is the view of an entry for any caller other than the one whose
// computation produced it.
func (e *entry[V]) result() (V, error) {
	if e.err != nil {
		var zero V
		return zero, slot.PreviousFailure(e.err)
	}
	return e.val, nil
}
