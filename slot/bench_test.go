// Package slot_test provides benchmarks for the resolution primitives.
package slot_test

import (
	"sync/atomic"
	"testing"

	"github.com/lazyslot/lazyslot/slot"
)

// BenchmarkResolveFastPath measures a fully resolved slot: one atomic load
// and no registry traffic.
func BenchmarkResolveFastPath(b *testing.B) {
	var cell atomic.Pointer[slot.Outcome[int]]
	reg := slot.NewRegistry(1)
	_, _ = slot.Resolve(&cell, 0, reg, func() {}, func() (int, error) { return 42, nil })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = slot.Resolve(&cell, 0, reg, func() {}, nil)
	}
}

// BenchmarkResolveFirstHit measures the slow path: mutex installation,
// computation, publication, and reclamation of a fresh slot each iteration.
func BenchmarkResolveFirstHit(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cell atomic.Pointer[slot.Outcome[int]]
		reg := slot.NewRegistry(1)
		_, _ = slot.Resolve(&cell, 0, reg, func() {}, func() (int, error) { return i, nil })
	}
}

// BenchmarkGoroutineID measures the cost of reading the caller's ID; this
// sits on the slow path's reentry check.
func BenchmarkGoroutineID(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = slot.GoroutineID()
	}
}
