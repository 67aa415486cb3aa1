// Package lazy provides memoized constructs with a fixed shape: a single
// Value, an integer-indexed Array, a Map over a predeclared key set, and an
// OrdinalMap over integer-kind keys. Every slot starts empty and is bound
// at most once — by a preset computing function, an ad-hoc function, or an
// explicit bind — with all racing readers observing one consistent result.
//
// Overview:
//
//   - Value[V]: one memoized value. Construct with New (deferred function),
//     Of (already bound), or Empty (bind later / resolve ad-hoc).
//   - Array[V]: n independently memoized slots indexed 0..n-1, sharing one
//     mutex registry and one function holder.
//   - Map[K, V]: arbitrary keys fixed at construction; a perfect key→index
//     assignment built once routes every access to its slot.
//   - OrdinalMap[K, V]: integer-kind keys; index = ordinal − min, with a
//     packed bitset membership test rejecting foreign keys in O(1) before
//     any slot is touched.
//
// Guarantees (all constructs):
//
//   - At-most-once: the computing function runs 0 or 1 times per slot, no
//     matter how many goroutines race; all callers agree on the result.
//   - Monotonicity: once a slot reports StatePresent or StateError, it
//     reports the same state forever.
//   - A failed computation is permanent: the first caller receives the
//     original error (or panic) verbatim, every later caller receives a
//     slot.ErrPreviouslyFailed wrap carrying the original as its cause.
//   - The computing function and its captured state are released for
//     collection once every slot has finished its one attempt.
//
// Errors (sentinel):
//
//	ErrAlreadyBound      - explicit bind on a slot that is already terminal.
//	ErrBadSize           - negative size passed to NewArray.
//	ErrIndexOutOfRange   - index outside [0, Len) passed to an Array operation.
//	ErrUnknownKey        - key outside the construct's fixed key set.
//	ErrDuplicateInputKey - the construction key set contains a duplicate.
//
// Example usage:
//
//	squares, _ := lazy.NewArray(5, func(i int) (int, error) {
//	    return i * i, nil
//	})
//	v, err := squares.Get(2) // computes 4 exactly once, however many call
//
// There is no eviction and no way to unbind a value; a construct is
// immutable from the caller's point of view except for the one-shot
// internal state advance of each slot.
package lazy
