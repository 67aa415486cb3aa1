// This file declares Outcome, the terminal record published into a slot's
// cell, and the error wrappers realizing the first-caller-verbatim /
// later-caller-wrapped failure rule.

package slot

import "fmt"

// Outcome is the terminal record of one slot: either a bound value or a
// recorded failure (an error or a recovered panic value). An Outcome is
// fully constructed before it is published into the slot's atomic cell and
// is never mutated afterwards, so any goroutine that loads a non-nil
// Outcome may read its fields without further synchronization.
type Outcome[V any] struct {
	val      V
	err      error
	panicVal any
}

// Bound returns an Outcome carrying a successfully bound value. It is the
// record published by both the slow-path resolver and explicit binds.
func Bound[V any](v V) *Outcome[V] {
	return &Outcome[V]{val: v}
}

func failedOutcome[V any](err error) *Outcome[V] {
	return &Outcome[V]{err: err}
}

func panicOutcome[V any](p any) *Outcome[V] {
	return &Outcome[V]{err: &PanicError{Value: p}, panicVal: p}
}

// Failed reports whether the outcome records a failure rather than a value.
func (o *Outcome[V]) Failed() bool {
	return o.err != nil
}

// Value returns the bound value; the zero value if the outcome is a failure.
func (o *Outcome[V]) Value() V {
	return o.val
}

// Err returns the recorded failure: the computing function's original error,
// a *PanicError if it panicked, or nil for a bound value.
func (o *Outcome[V]) Err() error {
	return o.err
}

// Result returns the outcome as seen by any caller other than the one whose
// computation produced it: the bound value, or the recorded failure wrapped
// as ErrPreviouslyFailed. The first caller receives the original error
// verbatim from Resolve instead.
func (o *Outcome[V]) Result() (V, error) {
	if o.err != nil {
		var zero V
		return zero, PreviousFailure(o.err)
	}
	return o.val, nil
}

// PanicError records a panic raised by a computing function. The first
// caller observes the panic itself (re-raised after the slot is marked
// Error); every later caller receives a PanicError wrapped in
// ErrPreviouslyFailed.
type PanicError struct {
	// Value is the value the computing function panicked with.
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("slot: computing function panicked: %v", e.Value)
}

// PreviousFailure wraps a recorded failure so that both ErrPreviouslyFailed
// and the original cause match via errors.Is / errors.As.
func PreviousFailure(cause error) error {
	return &previousFailure{cause: cause}
}

type previousFailure struct {
	cause error
}

func (e *previousFailure) Error() string {
	return fmt.Sprintf("%s: %v", ErrPreviouslyFailed.Error(), e.cause)
}

func (e *previousFailure) Unwrap() []error {
	return []error{ErrPreviouslyFailed, e.cause}
}
