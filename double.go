package testdouble

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/tarmac-project/testdouble/inspect"
)

// Double is the facade returned by Stub, Wrap and New. It owns one
// dispatcher per discovered member; all interaction goes through it and the
// target is never modified.
type Double struct {
	name    string
	mode    Mode
	target  any
	order   []string
	methods map[string]*method
	props   []inspect.Property
	log     logrus.FieldLogger
}

// Name returns the configured name.
func (d *Double) Name() string { return d.name }

// Mode reports whether d is a stub or a wrap.
func (d *Double) Mode() Mode { return d.mode }

// Target returns the wrapped or inspected value, or nil for a stub built from names.
func (d *Double) Target() any { return d.target }

// Methods returns the member names in discovery order.
func (d *Double) Methods() []string {
	return append([]string(nil), d.order...)
}

// Has reports whether name is a member of d.
func (d *Double) Has(name string) bool {
	_, ok := d.methods[name]
	return ok
}

// Property returns a non-function property preserved from a wrapped target.
func (d *Double) Property(name string) (any, bool) {
	for _, p := range d.props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Properties returns the non-function properties preserved from a wrapped target.
func (d *Double) Properties() []inspect.Property {
	return append([]inspect.Property(nil), d.props...)
}

// Call invokes member name with args. The call is recorded before any
// behavior runs. A trailing non-nil error result of a delegated or
// ToDoThis func is also returned as err.
func (d *Double) Call(name string, args ...any) (Results, error) {
	m, ok := d.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m.call(args)
}

// Setup returns the configuration namespace of member name. It panics with
// ErrUnknownMethod for names that are not members.
func (d *Double) Setup(name string) *Setup {
	return &Setup{m: d.member(name)}
}

// Expect returns the assertion namespace of member name. It panics with
// ErrUnknownMethod for names that are not members.
func (d *Double) Expect(name string) *Expectation {
	return &Expectation{m: d.member(name)}
}

// Reset clears the call record of every member. Configuration is kept.
func (d *Double) Reset() {
	for _, n := range d.order {
		d.methods[n].reset()
	}
}

// Bind sets *fnPtr to a func of the pointed-to type that dispatches calls to
// member name.
func (d *Double) Bind(name string, fnPtr any) error {
	m, ok := d.methods[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return bind(m, fnPtr)
}

// Value rebuilds a struct or map target with every func field or entry
// replaced by a func that dispatches through d; other fields are copied.
// Pointer targets yield a pointer to a fresh copy. Members found in the
// method set cannot be replaced and keep their original behavior on the
// returned value.
func (d *Double) Value() (any, error) {
	tv := reflect.ValueOf(d.target)
	if !tv.IsValid() {
		return nil, ErrNoValue
	}

	isPtr := tv.Kind() == reflect.Pointer
	if isPtr {
		if tv.IsNil() {
			return nil, ErrNoValue
		}
		tv = tv.Elem()
	}

	switch tv.Kind() {
	case reflect.Struct:
		out := reflect.New(tv.Type()).Elem()
		out.Set(tv)
		for _, name := range d.order {
			sf, ok := tv.Type().FieldByName(name)
			if !ok {
				continue
			}
			ft, ok := fieldFuncType(tv, sf)
			if !ok {
				continue
			}
			setField(out, sf.Index, makeFunc(d.methods[name], ft))
		}
		if isPtr {
			return out.Addr().Interface(), nil
		}
		return out.Interface(), nil

	case reflect.Map:
		if tv.Type().Key().Kind() != reflect.String {
			return nil, ErrNoValue
		}
		out := reflect.MakeMapWithSize(tv.Type(), tv.Len())
		iter := tv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		for _, name := range d.order {
			key := reflect.New(tv.Type().Key()).Elem()
			key.SetString(name)
			ev := tv.MapIndex(key)
			if ev.IsValid() && ev.Kind() == reflect.Interface {
				ev = ev.Elem()
			}
			if !ev.IsValid() || ev.Kind() != reflect.Func {
				continue
			}
			out.SetMapIndex(key, makeFunc(d.methods[name], ev.Type()))
		}
		if isPtr {
			p := reflect.New(tv.Type())
			p.Elem().Set(out)
			return p.Interface(), nil
		}
		return out.Interface(), nil
	}

	return nil, ErrNoValue
}

func (d *Double) member(name string) *method {
	m, ok := d.methods[name]
	if !ok {
		misuse(ErrUnknownMethod, "%q is not a member of %s", name, d.describe())
	}
	return m
}

func (d *Double) describe() string {
	if d.name == "" {
		return "the double"
	}
	return d.name
}

// fieldFuncType returns the func type to build for a field. Interface-typed
// fields qualify when they currently hold a func.
func fieldFuncType(v reflect.Value, sf reflect.StructField) (reflect.Type, bool) {
	if sf.Type.Kind() == reflect.Func {
		return sf.Type, true
	}
	if sf.Type.Kind() != reflect.Interface {
		return nil, false
	}
	fv, err := v.FieldByIndexErr(sf.Index)
	if err != nil || fv.IsNil() || fv.Elem().Kind() != reflect.Func {
		return nil, false
	}
	return fv.Elem().Type(), true
}

// setField assigns fn to the field at index. Pointers to embedded structs are
// copied before they are written through so the original target is untouched.
func setField(v reflect.Value, index []int, fn reflect.Value) {
	for i, idx := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return
			}
			clone := reflect.New(v.Type().Elem())
			clone.Elem().Set(v.Elem())
			v.Set(clone)
			v = clone.Elem()
		}
		v = v.Field(idx)
		if !v.CanSet() {
			return
		}
	}
	v.Set(fn)
}
