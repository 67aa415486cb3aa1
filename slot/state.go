// This file declares the State enum describing a slot's position in its
// lifecycle, and the sentinel errors shared by every lazy construct.

package slot

import "errors"

// Sentinel errors for slot resolution.
var (
	// ErrNoFunction indicates a slot was accessed with neither a preset
	// computing function nor an ad-hoc one supplied to the call. The slot
	// stays Empty and may be resolved later with an ad-hoc function or an
	// explicit bind.
	ErrNoFunction = errors.New("slot: no computing function available")

	// ErrCircular indicates a computing function called back into its own
	// slot from the same goroutine, directly or transitively. Detected and
	// rejected rather than deadlocking.
	ErrCircular = errors.New("slot: circular slot resolution")

	// ErrPreviouslyFailed indicates the slot's single computation attempt
	// already failed. The original failure is reachable via errors.Is/As
	// on the returned error; the slot is permanently in StateError.
	ErrPreviouslyFailed = errors.New("slot: a previous computation attempt failed")
)

// State describes a slot's position in the Empty → Constructing →
// {Present | Error} lifecycle.
//
// StatePresent and StateError are terminal: once reported, the slot's
// state never changes. StateConstructing is advisory only — by the time
// the caller inspects it, the slot may already be terminal.
type State uint8

const (
	// StateEmpty - no computation attempt has started.
	StateEmpty State = iota

	// StateConstructing - a computing function is currently running for
	// this slot on some goroutine.
	StateConstructing

	// StatePresent - a value is bound. Terminal.
	StatePresent

	// StateError - the computation attempt failed. Terminal.
	StateError
)

// IsFinal reports whether s can never change again.
func (s State) IsFinal() bool {
	return s == StatePresent || s == StateError
}

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateConstructing:
		return "constructing"
	case StatePresent:
		return "present"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
