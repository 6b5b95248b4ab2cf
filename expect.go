package testdouble

import (
	"fmt"
	"strings"

	"github.com/tarmac-project/testdouble/value"
)

// Message is a custom failure message. Passed as the last argument to
// WithArgs it replaces the default message instead of being matched.
type Message string

// Expectation is the assertion namespace of one member.
type Expectation struct {
	m *method
}

// Called returns assertions over the member's call record.
func (e *Expectation) Called() *Called {
	return &Called{m: e.m}
}

// Called asserts on the recorded calls of one member. Each assertion returns
// nil when it holds and a *AssertionError otherwise. A supplied message is
// used verbatim.
type Called struct {
	m *method
}

// Times asserts the member was called exactly n times.
func (c *Called) Times(n int, msg ...string) error {
	k := c.m.count()
	if k == n {
		return nil
	}
	return c.fail(msg, n, k, fmt.Sprintf("expected %s to be called %s but it was called %s", c.m.label, times(n), times(k)))
}

// Once asserts the member was called exactly once.
func (c *Called) Once(msg ...string) error { return c.Times(1, msg...) }

// Twice asserts the member was called exactly twice.
func (c *Called) Twice(msg ...string) error { return c.Times(2, msg...) }

// Never asserts the member was not called.
func (c *Called) Never(msg ...string) error { return c.Times(0, msg...) }

// AtLeast asserts the member was called n times or more.
func (c *Called) AtLeast(n int, msg ...string) error {
	k := c.m.count()
	if k >= n {
		return nil
	}
	return c.fail(msg, n, k, fmt.Sprintf("expected %s to be called at least %s but it was called %s", c.m.label, times(n), times(k)))
}

// WithArgs asserts at least one recorded call matches args. A trailing
// Message is the failure message rather than an expected argument.
func (c *Called) WithArgs(args ...any) error {
	var msg []string
	if n := len(args); n > 0 {
		if m, ok := args[n-1].(Message); ok {
			msg = []string{string(m)}
			args = args[:n-1]
		}
	}

	calls := c.m.calls()
	for _, call := range calls {
		if value.MatchArgs(args, call) {
			return nil
		}
	}

	def := fmt.Sprintf("expected %s to be called with %s", c.m.label, value.FormatArgs(args))
	if len(calls) == 0 {
		def += " but it was never called"
	} else {
		recorded := make([]string, len(calls))
		for i, call := range calls {
			recorded[i] = value.FormatArgs(call)
		}
		def += " but it was called with " + strings.Join(recorded, ", ")
	}
	return c.fail(msg, args, calls, def)
}

// Count returns the number of recorded calls.
func (c *Called) Count() int { return c.m.count() }

// Calls returns a copy of the recorded argument lists, oldest first.
func (c *Called) Calls() [][]any { return c.m.calls() }

// Reset clears the member's call record. Configured behaviors are kept.
func (c *Called) Reset() { c.m.reset() }

func (c *Called) fail(msg []string, expected, actual any, def string) error {
	text := def
	if len(msg) > 0 {
		text = msg[0]
	}
	return &AssertionError{Method: c.m.label, Message: text, Expected: expected, Actual: actual}
}

func times(n int) string {
	if n == 1 {
		return "1 time"
	}
	return fmt.Sprintf("%d times", n)
}
