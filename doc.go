// Package lazyslot is your toolkit for monotonic lazy binding — values,
// tables, and maps whose entries are computed at most once and never
// change again.
//
// 🚀 What is lazyslot?
//
//	A thread-safe memoization library built on one shared slot protocol:
//		• Single values: lazy.Value — compute-once cells with explicit binds
//		• Fixed tables: lazy.Array, lazy.Map, lazy.OrdinalMap — per-entry laziness
//		• Unbounded maps: stablemap.Map — layered growth, lock-free reads
//		• The protocol itself: slot — registries, holders, and resolution
//
// ✨ Why choose lazyslot?
//
//   - At-most-once guarantees – racing goroutines share one computation
//   - Constant-time reads – a resolved entry costs a single atomic load
//   - Self-reclaiming – per-slot mutexes and computing functions are
//     released the moment they can never be needed again
//   - Failure honesty – a failed computation is recorded once and reported
//     forever; circular resolution is rejected instead of deadlocking
//
// Under the hood, everything is organized under three subpackages:
//
//	slot/      — the resolution protocol: State, Registry, Holder, Resolve
//	lazy/      — Value, Array, Map, OrdinalMap over key sets fixed up front
//	stablemap/ — the unbounded layered map for key sets unknown up front
//
// Quick example:
//
//	v := lazy.New(func() (int, error) { return expensive(), nil })
//	n, err := v.Get() // computed here, memoized forever
//
// Dive into the package docs for the lifecycle model, the publication
// discipline, and worked examples.
//
//	go get github.com/lazyslot/lazyslot
package lazyslot
