/*
Package testdouble builds stubs and wraps for tests: facades that record every
call made through them, let a test replace what each call does, and assert on
the recorded history afterwards.

# Stubs and wraps

A stub has no real implementation behind it. Every method starts as a no-op
that returns nothing.

	s, _ := testdouble.Stub([]string{"Greet"})
	s.Setup("Greet").ToReturn("hi")

	res, _ := s.Call("Greet", "x")   // res.String(0) == "hi"
	err := s.Expect("Greet").Called().Once()

A wrap sits in front of a real value. Calls that no configured behavior
handles fall through to the original member, with the receiver already bound.
Struct values, pointers, string-keyed maps of funcs and bare funcs can all be
wrapped; the target itself is never modified.

	bob, _ := testdouble.Wrap(person)
	bob.Setup("Greet").When("alice").ToDoThis(func(name string) string { return "hey " + name })
	bob.Setup("Greet").ToThrow("BANG")

# Members

Callable members are discovered with the inspect package: exported func
fields first, then func fields of embedded structs, then the method set. A
stub may instead be given an explicit list of names. Setup and Expect panic
with ErrUnknownMethod for names that were not discovered; Call and Bind
return it.

# Behaviors

Each Setup offers one behavior per call outcome:

  - ToReturn returns fixed values
  - ToDoThis runs a func with the call arguments and returns its results
  - ToThrow fails the call with an error, or a *SimulatedError for plain text
  - ToCallbackWith calls the last argument, which must be a func
  - ToTimeWarp calls the callback argument now (or after a short delay) instead of waiting
  - ToResolveWith and ToRejectWith return a settled *deferred.Promise

When scopes a behavior to calls whose arguments structurally match (see the
value package). The newest matching When wins, then the unconditioned
behavior, then the fallback: the original member for wraps, a no-op for stubs.

# Typed access

Call works with any member through []any. For typed code, Bind points a func
variable at a member, and Value rebuilds a struct or map target with every
func field replaced by one that dispatches through the double.

	var greet func(string) (string, error)
	_ = bob.Bind("Greet", &greet)

A behavior that fails a bound func returns the error through the func's
trailing error result, or panics when the func has none. Promise behaviors
put the *deferred.Promise in the first result, so a bound func whose first
result is neither an interface nor *deferred.Promise panics with
ErrResultMismatch.

# Expectations

Expect(name).Called() checks the call record: Times, Once, Twice, Never,
AtLeast and WithArgs return a *AssertionError on mismatch. Reset clears the
record of one method and leaves its configuration alone.
*/
package testdouble
