package testdouble

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// FuncDouble is a double of a single bare func.
type FuncDouble struct {
	d *Double
	m *method
}

// Func builds a stub func: a single callable that does nothing until configured.
func Func() *FuncDouble {
	f, _ := NewFunc(Config{Mode: ModeStub})
	return f
}

// WrapFunc builds a double around fn. Unhandled calls run fn.
func WrapFunc(fn any) (*FuncDouble, error) {
	return NewFunc(Config{Mode: ModeWrap, Target: fn})
}

// NewFunc builds a func double from config. Target, when set, must be a
// func; Methods is ignored. An empty Name defaults to the target's
// package-qualified func name.
func NewFunc(config Config) (*FuncDouble, error) {
	config.Methods = []string{FuncMethod}
	if config.Target != nil {
		fv := reflect.ValueOf(config.Target)
		if fv.Kind() != reflect.Func || fv.IsNil() {
			return nil, fmt.Errorf("%w: got %T", ErrNotCallable, config.Target)
		}
		if config.Name == "" {
			config.Name = funcName(fv)
		}
	}

	d, err := New(config)
	if err != nil {
		return nil, err
	}
	return newFuncDouble(d), nil
}

func newFuncDouble(d *Double) *FuncDouble {
	f := &FuncDouble{d: d, m: d.methods[FuncMethod]}
	f.m.self = f
	return f
}

// Call invokes the func with args.
func (f *FuncDouble) Call(args ...any) (Results, error) { return f.m.call(args) }

// Setup returns the func's configuration namespace.
func (f *FuncDouble) Setup() *Setup { return &Setup{m: f.m} }

// Expect returns the func's assertion namespace.
func (f *FuncDouble) Expect() *Expectation { return &Expectation{m: f.m} }

// Bind sets *fnPtr to a func of the pointed-to type that dispatches through f.
func (f *FuncDouble) Bind(fnPtr any) error { return bind(f.m, fnPtr) }

// Double returns the underlying single-member double.
func (f *FuncDouble) Double() *Double { return f.d }

// funcName returns the short package-qualified name of fn, e.g. "numwords.Words".
func funcName(fn reflect.Value) string {
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return ""
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
