package testdouble

import (
	"reflect"
	"time"
)

// Setup configures the behavior of one member. A Setup obtained from
// Double.Setup configures the unconditioned behavior; When returns a Setup
// scoped to matching arguments. Configuring a scope again replaces its
// previous behavior.
type Setup struct {
	m      *method
	cond   []any
	scoped bool
}

// When returns a Setup whose behaviors only apply to calls whose arguments
// match args. args may contain value.Matcher values.
func (s *Setup) When(args ...any) *Setup {
	return &Setup{m: s.m, cond: append([]any{}, args...), scoped: true}
}

// ToReturn makes calls return values.
func (s *Setup) ToReturn(values ...any) {
	s.apply(behavior{kind: FixedReturn, values: append([]any{}, values...)})
}

// ToDoThis makes calls run fn with the call arguments and return its
// results. If fn's first parameter is the owning *Double (or *FuncDouble),
// the double is passed first. It panics with ErrNotCallable if fn is not a func.
func (s *Setup) ToDoThis(fn any) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		misuse(ErrNotCallable, "ToDoThis on %s needs a func, got %T", s.m.label, fn)
	}
	s.apply(behavior{kind: SideEffect, fn: fv})
}

// ToThrow makes calls fail. An error is returned as is; anything else
// becomes a *SimulatedError carrying its text.
func (s *Setup) ToThrow(errOrMessage any) {
	s.apply(behavior{kind: Thrown, err: toError(errOrMessage)})
}

// ToCallbackWith makes calls invoke their last argument, which must be a
// func, with args instead of running any other logic.
func (s *Setup) ToCallbackWith(args ...any) {
	s.apply(behavior{kind: CallbackInjection, values: append([]any{}, args...)})
}

// ToTimeWarp is for members shaped like (requestedDelay, callback). The
// callback is invoked without waiting for the requested delay: immediately
// when delay is zero, otherwise after delay on a real timer.
func (s *Setup) ToTimeWarp(delay time.Duration) {
	s.apply(behavior{kind: TimeWarp, delay: delay})
}

// ToResolveWith makes calls return a *deferred.Promise resolved with v.
// Through a func from Bind or Value, the promise becomes the first result,
// so that result must be an interface type or *deferred.Promise; any other
// result type makes the call panic with ErrResultMismatch.
func (s *Setup) ToResolveWith(v any) {
	s.apply(behavior{kind: PromiseResolve, values: []any{v}})
}

// ToRejectWith makes calls return a *deferred.Promise rejected with
// errOrMessage, converted as in ToThrow. Bound funcs carry the promise in
// their first result, with the same constraint as ToResolveWith.
func (s *Setup) ToRejectWith(errOrMessage any) {
	s.apply(behavior{kind: PromiseReject, err: toError(errOrMessage)})
}

func (s *Setup) apply(b behavior) {
	s.m.configure(s.cond, s.scoped, b)
}
