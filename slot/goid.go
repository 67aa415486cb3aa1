// This file extracts the current goroutine's identity by parsing the
// runtime.Stack header. It is the portable technique (the runtime does not
// expose goroutine IDs) and is only consulted on the slow path, where a
// mutex acquisition dominates the cost anyway.

package slot

import "runtime"

var goroutinePrefix = []byte("goroutine ")

// GoroutineID returns the runtime's ID for the calling goroutine.
//
// The first line of a single-goroutine stack trace has the fixed form
// "goroutine 123 [running]:", so a 64-byte buffer always covers the ID.
// IDs are positive and never reused within a process, which is all the
// reentrancy check needs.
func GoroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	line := buf[len(goroutinePrefix):n]
	var id int64
	for _, c := range line {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
