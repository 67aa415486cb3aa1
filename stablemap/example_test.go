package stablemap_test

import (
	"fmt"

	"github.com/lazyslot/lazyslot/stablemap"
)

// ExampleMap demonstrates explicit binding and lock-free reads.
func ExampleMap() {
	m, _ := stablemap.New[string, int]()

	_ = m.Put("requests", 128)
	_ = m.Put("errors", 3)

	v, ok := m.Get("requests")
	fmt.Println(v, ok)

	_, ok = m.Get("latency")
	fmt.Println(ok)

	// A key binds exactly once.
	fmt.Println(m.Put("requests", 256))

	// Output:
	// 128 true
	// false
	// stablemap: key already bound: requests
}

// ExampleMap_GetOrCompute demonstrates at-most-once lazy computation: the
// function runs on the first call for a key and never again.
func ExampleMap_GetOrCompute() {
	m, _ := stablemap.New[string, string]()

	load := func(key string) (string, error) {
		fmt.Println("loading", key)
		return "value of " + key, nil
	}

	v, _ := m.GetOrCompute("config", load)
	fmt.Println(v)

	v, _ = m.GetOrCompute("config", load)
	fmt.Println(v)

	// Output:
	// loading config
	// value of config
	// value of config
}
