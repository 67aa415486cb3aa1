// Package slot implements the shared machinery behind every lazy construct
// in this module: the four-state slot lifecycle, the reclaimable per-slot
// mutex registry, the reference-counted computing-function holder, and the
// slow-path resolution protocol that ties them together.
//
// A slot is one logical memoization unit: a single value, one array cell,
// or one map entry. Every slot moves through the same state machine:
//
//	Empty ──(begin attempt)──▶ Constructing ──(success)──▶ Present
//	                                 │
//	                                 └──────(failure)────▶ Error
//
// Present and Error are terminal: once either has been observed by any
// goroutine, the slot never changes again for the lifetime of the construct.
// Constructing is only ever visible transiently, and only to goroutines
// that do not themselves hold the slot's mutex.
//
// Publication discipline:
//
//   - A terminal outcome is stored exactly once into an atomic.Pointer,
//     which gives release semantics on the store and acquire semantics on
//     every load. A reader that observes a non-nil outcome therefore also
//     observes every write the computing goroutine made before publishing.
//   - The fast path is a single acquire-load; only a miss enters Resolve,
//     which serializes competing callers of the same slot on a lazily
//     created mutex. Callers of different slots never block each other.
//
// Resource reclamation:
//
//   - Registry hands out one mutex per slot on demand and replaces it with
//     a tombstone once the slot is terminal. When the last slot finalizes,
//     the whole backing array is dropped so the mutexes become collectible.
//   - Holder retains the computing function until every slot it serves has
//     finished its one computation attempt, then drops the reference so
//     any state captured by the closure (connections, large tables) can be
//     collected without discarding the construct itself.
//
// Errors (sentinel):
//
//	ErrNoFunction       - slot accessed with no preset or ad-hoc computing function.
//	ErrCircular         - same-goroutine reentry into a slot under construction.
//	ErrPreviouslyFailed - the slot's one computation attempt already failed;
//	                      wraps the original failure for errors.Is/As matching.
//
// A computing function is invoked at most once per slot, no matter how many
// goroutines race. There is no timeout: a stalled computing function stalls
// every concurrent reader of that slot. That trade-off is deliberate.
package slot
