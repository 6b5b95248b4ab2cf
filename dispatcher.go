package testdouble

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// method is the dispatcher of one member. It owns the member's call record
// and behavior registry. The lock is never held while a behavior runs, so a
// behavior may call back into the same member.
type method struct {
	name  string
	label string

	// delegate is the original implementation of a wrapped member. It is
	// invalid for stubs and may be a nil func for wrapped nil fields.
	delegate reflect.Value

	// sig is the member's func type when known.
	sig reflect.Type

	// self is handed to ToDoThis funcs whose first parameter has its type.
	self any

	log logrus.FieldLogger

	mu  sync.Mutex
	rec recorder
	reg registry
}

// call records args, resolves a behavior and runs it.
func (m *method) call(args []any) (Results, error) {
	m.mu.Lock()
	n := m.rec.record(args)
	b, ok := m.reg.resolve(args)
	m.mu.Unlock()

	entry := m.log.WithField("call", n)
	if !ok {
		entry.Debug("no behavior configured, using fallback")
		return m.fallback(args)
	}

	entry.WithField("behavior", b.kind.String()).Debug("running configured behavior")
	return b.run(m, args)
}

// fallback delegates to the original member, or does nothing.
func (m *method) fallback(args []any) (Results, error) {
	if !m.delegate.IsValid() || m.delegate.IsNil() {
		return m.zero(), nil
	}
	return invoke(m.delegate, args, nil)
}

func (m *method) configure(cond []any, scoped bool, b behavior) {
	m.mu.Lock()
	if scoped {
		m.reg.set(cond, b)
	} else {
		m.reg.setDefault(b)
	}
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"behavior":  b.kind.String(),
		"condition": scoped,
	}).Debug("behavior configured")
}

func (m *method) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.count()
}

func (m *method) calls() [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.snapshot()
}

func (m *method) reset() {
	m.mu.Lock()
	m.rec.reset()
	m.mu.Unlock()

	m.log.Debug("call record reset")
}

// zero returns the zero results of the member's signature, or none when the
// signature is unknown.
func (m *method) zero() Results {
	if m.sig == nil || m.sig.NumOut() == 0 {
		return nil
	}
	res := make(Results, m.sig.NumOut())
	for i := range res {
		res[i] = reflect.Zero(m.sig.Out(i)).Interface()
	}
	return res
}

// invoke calls fn with args converted to its parameter types. When self is
// non-nil and fn's first parameter has exactly self's type, self is passed
// first.
func invoke(fn reflect.Value, args []any, self any) (Results, error) {
	in, err := params(fn.Type(), args, self)
	if err != nil {
		return nil, err
	}
	return collect(fn.Call(in))
}

func params(ft reflect.Type, args []any, self any) ([]reflect.Value, error) {
	in := make([]reflect.Value, 0, len(args)+1)
	first := 0
	if self != nil && ft.NumIn() > 0 && ft.In(0) == reflect.TypeOf(self) {
		in = append(in, reflect.ValueOf(self))
		first = 1
	}

	fixed := ft.NumIn() - first
	if ft.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: want at least %d arguments, got %d", ErrArgumentMismatch, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%w: want %d arguments, got %d", ErrArgumentMismatch, fixed, len(args))
	}

	for i, a := range args {
		var pt reflect.Type
		if i >= fixed {
			pt = ft.In(ft.NumIn() - 1).Elem()
		} else {
			pt = ft.In(first + i)
		}
		v, err := convert(a, pt)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %w", ErrArgumentMismatch, i, err)
		}
		in = append(in, v)
	}
	return in, nil
}

// collect turns call results into Results, surfacing a trailing non-nil error.
func collect(out []reflect.Value) (Results, error) {
	if len(out) == 0 {
		return nil, nil
	}
	res := make(Results, len(out))
	for i, o := range out {
		res[i] = o.Interface()
	}
	last := out[len(out)-1]
	if last.Type() == errorType && !last.IsNil() {
		return res, last.Interface().(error)
	}
	return res, nil
}

// convert fits v to t. nil becomes the zero value; numbers convert between
// numeric kinds and values convert between types of the same kind.
func convert(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if (isNumeric(rv.Kind()) && isNumeric(t.Kind())) || rv.Kind() == t.Kind() {
		if rv.Type().ConvertibleTo(t) {
			return rv.Convert(t), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", rv.Type(), t)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// makeFunc builds a func of type ft whose calls dispatch through m. Variadic
// arguments are recorded flat. A call error is returned through a trailing
// error result or, when ft has none, panicked with.
func makeFunc(m *method, ft reflect.Type) reflect.Value {
	return reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		args := make([]any, 0, len(in))
		for i, v := range in {
			if ft.IsVariadic() && i == len(in)-1 {
				for j := 0; j < v.Len(); j++ {
					args = append(args, v.Index(j).Interface())
				}
				continue
			}
			args = append(args, v.Interface())
		}

		res, err := m.call(args)
		return outputs(ft, res, err)
	})
}

func outputs(ft reflect.Type, res Results, err error) []reflect.Value {
	out := make([]reflect.Value, ft.NumOut())
	for i := range out {
		t := ft.Out(i)
		if i >= len(res) {
			out[i] = reflect.Zero(t)
			continue
		}
		v, cerr := convert(res[i], t)
		if cerr != nil {
			panic(fmt.Errorf("%w: result %d: %w", ErrResultMismatch, i, cerr))
		}
		out[i] = v
	}

	if err == nil {
		return out
	}
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		out[n-1] = reflect.ValueOf(&err).Elem()
		return out
	}
	panic(err)
}

// bind points the func behind fnPtr at m.
func bind(m *method, fnPtr any) error {
	pv := reflect.ValueOf(fnPtr)
	if !pv.IsValid() || pv.Kind() != reflect.Pointer || pv.IsNil() || pv.Elem().Kind() != reflect.Func {
		return ErrNotBindable
	}
	pv.Elem().Set(makeFunc(m, pv.Elem().Type()))
	return nil
}
