package testdouble

import (
	"fmt"
	"reflect"
	"time"

	"github.com/tarmac-project/testdouble/deferred"
	"github.com/tarmac-project/testdouble/value"
)

// BehaviorKind identifies what a configured behavior does with a call.
type BehaviorKind int

const (
	// FixedReturn returns configured values.
	FixedReturn BehaviorKind = iota + 1
	// SideEffect runs a configured func with the call arguments.
	SideEffect
	// Thrown fails the call with a configured error.
	Thrown
	// CallbackInjection calls the callback argument with configured values.
	CallbackInjection
	// TimeWarp calls the callback argument without waiting for the requested delay.
	TimeWarp
	// PromiseResolve returns a promise resolved with a configured value.
	PromiseResolve
	// PromiseReject returns a promise rejected with a configured error.
	PromiseReject
)

// String returns the behavior name used in logs.
func (k BehaviorKind) String() string {
	switch k {
	case FixedReturn:
		return "return"
	case SideEffect:
		return "side-effect"
	case Thrown:
		return "throw"
	case CallbackInjection:
		return "callback"
	case TimeWarp:
		return "time-warp"
	case PromiseResolve:
		return "resolve"
	case PromiseReject:
		return "reject"
	}
	return "none"
}

// behavior is one configured response. Which fields matter depends on kind.
type behavior struct {
	kind   BehaviorKind
	values []any
	fn     reflect.Value
	err    error
	delay  time.Duration
}

func (b behavior) run(m *method, args []any) (Results, error) {
	switch b.kind {
	case FixedReturn:
		return append(Results(nil), b.values...), nil

	case SideEffect:
		return invoke(b.fn, args, m.self)

	case Thrown:
		return m.zero(), b.err

	case CallbackInjection:
		cb, err := lastCallback(m, args)
		if err != nil {
			return nil, err
		}
		if _, err := invoke(cb, b.values, nil); err != nil {
			return nil, fmt.Errorf("calling callback of %s: %w", m.label, err)
		}
		return m.zero(), nil

	case TimeWarp:
		cb, err := firstCallback(m, args)
		if err != nil {
			return nil, err
		}
		if b.delay <= 0 {
			callZero(cb)
			return m.zero(), nil
		}
		time.AfterFunc(b.delay, func() { callZero(cb) })
		return m.zero(), nil

	case PromiseResolve:
		return m.settled(deferred.Resolved(b.values[0])), nil

	case PromiseReject:
		return m.settled(deferred.Rejected(b.err)), nil
	}

	return m.fallback(args)
}

// settled places p in the first result slot.
func (m *method) settled(p *deferred.Promise) Results {
	res := m.zero()
	if len(res) == 0 {
		return Results{p}
	}
	res[0] = p
	return res
}

func lastCallback(m *method, args []any) (reflect.Value, error) {
	if len(args) == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s was called without arguments", ErrNoCallback, m.label)
	}
	last := args[len(args)-1]
	cb := reflect.ValueOf(last)
	if cb.Kind() != reflect.Func || cb.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: last argument of %s is %s", ErrNoCallback, m.label, value.KindOf(last))
	}
	return cb, nil
}

func firstCallback(m *method, args []any) (reflect.Value, error) {
	for _, a := range args {
		if cb := reflect.ValueOf(a); cb.Kind() == reflect.Func && !cb.IsNil() {
			return cb, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: %s was called without a func argument", ErrNoCallback, m.label)
}

// callZero calls cb with the zero value of each parameter.
func callZero(cb reflect.Value) {
	ft := cb.Type()
	n := ft.NumIn()
	if ft.IsVariadic() {
		n--
	}
	in := make([]reflect.Value, n)
	for i := range in {
		in[i] = reflect.Zero(ft.In(i))
	}
	cb.Call(in)
}
