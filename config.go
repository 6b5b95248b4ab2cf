package testdouble

import (
	"fmt"
	"io"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/tarmac-project/testdouble/inspect"
)

// FuncMethod is the member name used for doubles of a bare func.
const FuncMethod = "func"

// Mode selects what happens to calls no behavior handles.
type Mode int

const (
	// ModeStub makes unhandled calls no-ops.
	ModeStub Mode = iota

	// ModeWrap delegates unhandled calls to the target's original member.
	ModeWrap
)

// Config provides configuration options for New.
type Config struct {
	// Name labels the double in logs and assertion messages. Optional.
	Name string

	// Mode selects stub or wrap semantics. Defaults to ModeStub.
	Mode Mode

	// Methods lists member names for a stub built without a target. It is
	// ignored when Target is set.
	Methods []string

	// Target is the value to wrap or, for stubs, to take member names from.
	// A func target yields a single member named FuncMethod.
	Target any

	// Logger receives debug entries for calls and configuration changes.
	// If nil, log output is discarded.
	Logger logrus.FieldLogger
}

// New builds a double from config.
func New(config Config) (*Double, error) {
	logger := config.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	d := &Double{
		name:    config.Name,
		mode:    config.Mode,
		target:  config.Target,
		methods: make(map[string]*method),
		log:     logger.WithField("double", config.Name),
	}

	switch {
	case config.Target != nil:
		if err := d.fromTarget(config.Target); err != nil {
			return nil, err
		}
	case config.Mode == ModeWrap:
		return nil, ErrNilTarget
	default:
		if err := d.fromNames(config.Methods); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Stub builds a stub. spec is either a []string of member names or a value
// whose callable members are discovered; the value's own logic is never used.
func Stub(spec any) (*Double, error) {
	switch s := spec.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil spec", ErrInvalidSpec)
	case []string:
		return New(Config{Mode: ModeStub, Methods: s})
	default:
		return New(Config{Mode: ModeStub, Target: s})
	}
}

// Wrap builds a wrap around target.
func Wrap(target any) (*Double, error) {
	return New(Config{Mode: ModeWrap, Target: target})
}

func (d *Double) fromNames(names []string) error {
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%w: empty method name", ErrInvalidSpec)
		}
		if _, ok := d.methods[n]; ok {
			return fmt.Errorf("%w: duplicate method name %q", ErrInvalidSpec, n)
		}
		d.add(n, reflect.Value{}, nil)
	}
	return nil
}

func (d *Double) fromTarget(target any) error {
	tv := reflect.ValueOf(target)

	if tv.Kind() == reflect.Func {
		if tv.IsNil() {
			return fmt.Errorf("%w: nil func", ErrNotCallable)
		}
		if d.mode == ModeWrap {
			d.add(FuncMethod, tv, tv.Type())
		} else {
			d.add(FuncMethod, reflect.Value{}, nil)
		}
		return nil
	}

	for _, m := range inspect.Members(target) {
		if d.mode == ModeWrap {
			d.add(m.Name, m.Func, m.Type)
			continue
		}
		d.add(m.Name, reflect.Value{}, nil)
	}
	if d.mode == ModeWrap {
		d.props = inspect.Properties(target)
	}
	return nil
}

func (d *Double) add(name string, delegate reflect.Value, sig reflect.Type) {
	m := &method{
		name:     name,
		label:    d.label(name),
		delegate: delegate,
		sig:      sig,
		self:     d,
		log:      d.log.WithField("method", name),
	}
	d.order = append(d.order, name)
	d.methods[name] = m
}

func (d *Double) label(name string) string {
	switch {
	case d.name == "":
		return name
	case name == FuncMethod:
		return d.name
	default:
		return d.name + "." + name
	}
}
