// This file declares the sentinel errors shared by the lazy constructs.

package lazy

import "errors"

// Sentinel errors for lazy construct operations.
var (
	// ErrAlreadyBound indicates an explicit bind (Set) targeted a slot that
	// already holds a terminal value or failure.
	ErrAlreadyBound = errors.New("lazy: slot already bound")

	// ErrBadSize indicates a negative size was passed to NewArray.
	ErrBadSize = errors.New("lazy: size must be non-negative")

	// ErrIndexOutOfRange indicates an index outside [0, Len) was passed to
	// an Array operation.
	ErrIndexOutOfRange = errors.New("lazy: index out of range")

	// ErrUnknownKey indicates a key outside the construct's fixed key set.
	ErrUnknownKey = errors.New("lazy: key not in key set")

	// ErrDuplicateInputKey indicates the key set passed to a constructor
	// contains the same key twice.
	ErrDuplicateInputKey = errors.New("lazy: duplicate key in key set")
)
