// Package stablemap implements an unbounded, append-mostly map whose
// entries, once bound, keep their storage position forever. Instead of
// rehashing, the map grows by allocating exponentially larger layers: a
// fresh map starts with one small open-addressed table, and each further
// layer is 16 times larger than the previous, up to a fixed maximum of 8
// layers. Entries are never moved between layers and a layer, once
// allocated, is never replaced, only filled.
//
// Read path:
//
//   - Get is lock-free. The key's hash is computed once, layers are
//     scanned oldest to newest, and within a layer a linear probe walks
//     hash-mod-capacity with wraparound.
//   - Within a slot the key is always read before the value. A writer
//     installs the value before publishing the key, so a reader that
//     observes a non-empty key is guaranteed the paired value is already
//     visible. This ordering is load-bearing: reversing either side
//     reintroduces a visible-key/invisible-value race.
//
// Write path:
//
//   - Put and the commit phase of GetOrCompute run under one coarse map
//     lock, acceptable because insertion is rare relative to lookups.
//   - A layer is full once its live entries reach 25% of its slot count
//     (half of its key/value pairs); below that threshold a wraparound
//     probe always terminates at a free slot, so insertion advances to a
//     new layer on the threshold, never on a spuriously failed probe.
//     When the 8th layer reaches its threshold, insertion fails with
//     ErrCapacityExhausted rather than growing without bound.
//
// Lazily computed entries:
//
//   - GetOrCompute coalesces concurrent computations of the same key into
//     one in-flight attempt; the computing function runs at most once per
//     key. Same-goroutine reentry is rejected with slot.ErrCircular.
//   - A failed computation is recorded permanently under the key. The
//     computing goroutine receives the failure verbatim; every later
//     caller receives the slot.ErrPreviouslyFailed wrap. Failed entries
//     are reported by State and Err but never surfaced by Get or All.
//
// Errors (sentinel):
//
//	ErrDuplicateKey       - Put on a key that is already bound.
//	ErrCapacityExhausted  - all permitted layers are at their threshold.
//	ErrBadCapacity        - non-positive initial capacity option.
//
// Keys are hashed with hash/maphash under a random seed drawn at map
// construction, so probe order differs between maps and between runs.
package stablemap
