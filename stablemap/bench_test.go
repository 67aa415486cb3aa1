// Package stablemap_test provides benchmarks for the layered map against
// a mutex-guarded stdlib map.
package stablemap_test

import (
	"sync"
	"testing"

	"github.com/lazyslot/lazyslot/stablemap"
)

// BenchmarkMapGet measures lock-free reads of a warm map spanning several
// layers.
func BenchmarkMapGet(b *testing.B) {
	m, _ := stablemap.New[int, int]()
	const keys = 1000
	for i := 0; i < keys; i++ {
		_ = m.Put(i, i)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Get(i % keys)
	}
}

// BenchmarkMapGetParallel measures warm reads under contention; there is
// no lock to contend on.
func BenchmarkMapGetParallel(b *testing.B) {
	m, _ := stablemap.New[int, int]()
	const keys = 1000
	for i := 0; i < keys; i++ {
		_ = m.Put(i, i)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = m.Get(i % keys)
			i++
		}
	})
}

// BenchmarkMutexMapGetParallel is the point of comparison: the same warm
// read pattern against a RWMutex-guarded map.
func BenchmarkMutexMapGetParallel(b *testing.B) {
	var mu sync.RWMutex
	m := make(map[int]int)
	const keys = 1000
	for i := 0; i < keys; i++ {
		m[i] = i
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			mu.RLock()
			_ = m[i%keys]
			mu.RUnlock()
			i++
		}
	})
}

// BenchmarkMapPut measures serialized insertion including layer growth.
func BenchmarkMapPut(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%1000 == 0 {
			b.StopTimer()
			m, _ := stablemap.New[int, int](stablemap.WithInitialCapacity(2048))
			benchMap = m
			b.StartTimer()
		}
		_ = benchMap.Put(i%1000, i)
	}
}

// benchMap keeps the map under test reachable across BenchmarkMapPut's
// periodic resets.
var benchMap *stablemap.Map[int, int]

// BenchmarkMapGetOrComputeWarm measures the fast path of GetOrCompute on
// an already bound key.
func BenchmarkMapGetOrComputeWarm(b *testing.B) {
	m, _ := stablemap.New[string, int]()
	_, _ = m.GetOrCompute("k", func(string) (int, error) { return 1, nil })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.GetOrCompute("k", func(string) (int, error) { return 2, nil })
	}
}
