package testdouble

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMethod is returned, or panicked with by Setup and Expect, when
	// a method name was not discovered at construction.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrInvalidSpec is returned when a stub spec is empty, contains an empty
	// name or repeats a name.
	ErrInvalidSpec = errors.New("invalid stub spec")

	// ErrNilTarget is returned when Wrap is given nothing to wrap.
	ErrNilTarget = errors.New("target cannot be nil")

	// ErrNotCallable is returned when a func was required and something else was given.
	ErrNotCallable = errors.New("value is not callable")

	// ErrNoCallback is returned when a callback behavior finds no func argument to call.
	ErrNoCallback = errors.New("no callback argument")

	// ErrArgumentMismatch is returned when an argument cannot be passed to a func parameter.
	ErrArgumentMismatch = errors.New("argument does not fit parameter")

	// ErrResultMismatch is panicked with when a configured result cannot be
	// returned from a bound func.
	ErrResultMismatch = errors.New("result does not fit return type")

	// ErrNotBindable is returned when Bind is not given a non-nil pointer to a func.
	ErrNotBindable = errors.New("bind requires a non-nil pointer to a func")

	// ErrNoValue is returned by Value when the target is neither a struct nor a map.
	ErrNoValue = errors.New("target has no rebuildable value")

	// ErrAssertion matches every *AssertionError.
	ErrAssertion = errors.New("assertion failed")

	// ErrSimulated matches every *SimulatedError.
	ErrSimulated = errors.New("simulated failure")
)

// AssertionError is returned when an expectation does not hold. Message is
// either the caller's message, verbatim, or a default naming the method,
// the expectation and what was recorded.
type AssertionError struct {
	// Method is the label of the method under assertion.
	Method string

	// Message is the human readable failure.
	Message string

	// Expected is the expected call count or argument list.
	Expected any

	// Actual is the recorded call count or call history.
	Actual any
}

func (e *AssertionError) Error() string { return e.Message }

// Is lets errors.Is(err, ErrAssertion) match.
func (e *AssertionError) Is(target error) bool { return target == ErrAssertion }

// SimulatedError is the error a double returns when it was told to throw a
// plain message rather than an error value.
type SimulatedError struct {
	Message string
}

func (e *SimulatedError) Error() string { return e.Message }

// Is lets errors.Is(err, ErrSimulated) match.
func (e *SimulatedError) Is(target error) bool { return target == ErrSimulated }

// toError turns a configured failure into the error a call returns. Errors
// are kept as they are so callers can match them with errors.Is.
func toError(v any) error {
	switch e := v.(type) {
	case nil:
		return &SimulatedError{Message: ErrSimulated.Error()}
	case error:
		return e
	case string:
		return &SimulatedError{Message: e}
	default:
		return &SimulatedError{Message: fmt.Sprint(e)}
	}
}

// misuse panics for configuration mistakes that must not go unnoticed.
func misuse(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{err}, args...)...))
}
