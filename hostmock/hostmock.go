package hostmock

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tarmac-project/testdouble"
	wapc "github.com/wapc/wapc-guest-tinygo"
	"google.golang.org/protobuf/proto"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrUnexpectedPayload is returned when the payload does not decode to ExpectedPayload.
	ErrUnexpectedPayload = errors.New("unexpected payload")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// HostCall is the waPC host function signature.
type HostCall func(namespace, capability, function string, payload []byte) ([]byte, error)

// Mock simulates a host call interface with validation and configurable
// responses. Every call is recorded and can be asserted on or overridden
// through Setup and Expect.
type Mock struct {
	// ExpectedNamespace defines the namespace expected in the host call.
	ExpectedNamespace string

	// ExpectedCapability defines the capability expected in the host call.
	ExpectedCapability string

	// ExpectedFunction defines the function name expected in the host call.
	ExpectedFunction string

	// ExpectedPayload is decoded from the payload and compared with proto.Equal.
	ExpectedPayload proto.Message

	// Error is the error to return if the mock is configured to fail.
	Error error

	// PayloadValidator validates the payload passed to the host call.
	PayloadValidator func([]byte) error

	// Response defines the response to return for the host call.
	Response func() []byte

	// Fail indicates whether the mock should return an error.
	Fail bool

	// Passthrough forwards calls to the real waPC host instead of validating them.
	Passthrough bool

	double *testdouble.FuncDouble
	call   HostCall
	host   HostCall
}

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedNamespace defines the namespace expected in the host call.
	// Empty matches any namespace.
	ExpectedNamespace string

	// ExpectedCapability defines the capability expected in the host call.
	// Empty matches any capability.
	ExpectedCapability string

	// ExpectedFunction defines the function name expected in the host call.
	// Empty matches any function.
	ExpectedFunction string

	// ExpectedPayload, when set, is the protobuf message the payload must
	// decode to. It is checked before PayloadValidator.
	ExpectedPayload proto.Message

	// Error is the error to return if the mock is configured to fail.
	Error error

	// PayloadValidator validates the payload passed to the host call.
	PayloadValidator func([]byte) error

	// Response defines the response to return for the host call.
	Response func() []byte

	// Fail indicates whether the mock should return an error.
	Fail bool

	// Passthrough forwards unhandled calls to the real waPC host. Calls are
	// still recorded.
	Passthrough bool

	// Logger receives debug entries for every host call. If nil, log output
	// is discarded.
	Logger logrus.FieldLogger
}

// New creates a new instance of the Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	m := &Mock{
		ExpectedNamespace:  config.ExpectedNamespace,
		ExpectedCapability: config.ExpectedCapability,
		ExpectedFunction:   config.ExpectedFunction,
		ExpectedPayload:    config.ExpectedPayload,
		Error:              config.Error,
		Fail:               config.Fail,
		PayloadValidator:   config.PayloadValidator,
		Response:           config.Response,
		Passthrough:        config.Passthrough,
		host:               wapc.HostCall,
	}

	f, err := testdouble.NewFunc(testdouble.Config{
		Name:   "HostCall",
		Mode:   testdouble.ModeWrap,
		Target: HostCall(m.respond),
		Logger: config.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create host call double: %w", err)
	}

	if err := f.Bind(&m.call); err != nil {
		return nil, fmt.Errorf("could not bind host call double: %w", err)
	}
	m.double = f

	return m, nil
}

// HostCall simulates a host call, validating inputs and returning a response or error.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	return m.call(namespace, capability, function, payload)
}

// Setup overrides how host calls are answered. Arguments for When are
// namespace, capability, function and payload; value.Anything matches any.
func (m *Mock) Setup() *testdouble.Setup { return m.double.Setup() }

// Expect asserts on the recorded host calls.
func (m *Mock) Expect() *testdouble.Expectation { return m.double.Expect() }

// Calls returns the recorded host calls as namespace, capability, function
// and payload, oldest first.
func (m *Mock) Calls() [][]any { return m.double.Expect().Called().Calls() }

// respond is the default answer to a host call.
func (m *Mock) respond(namespace, capability, function string, payload []byte) ([]byte, error) {
	if m.Passthrough {
		return m.host(namespace, capability, function, payload)
	}

	// Return user-defined error if Fail is set
	if m.Fail && m.Error != nil {
		return nil, m.Error
	}

	// Return default error if Fail is set but no custom error is provided
	if m.Fail {
		return nil, ErrOperationFailed
	}

	if m.ExpectedNamespace != "" && m.ExpectedNamespace != namespace {
		return nil, fmt.Errorf(
			"%w: expected namespace %s, got %s",
			ErrUnexpectedNamespace,
			m.ExpectedNamespace,
			namespace,
		)
	}

	if m.ExpectedCapability != "" && m.ExpectedCapability != capability {
		return nil, fmt.Errorf(
			"%w: expected capability %s, got %s",
			ErrUnexpectedCapability,
			m.ExpectedCapability,
			capability,
		)
	}

	if m.ExpectedFunction != "" && m.ExpectedFunction != function {
		return nil, fmt.Errorf("%w: expected function %s, got %s", ErrUnexpectedFunction, m.ExpectedFunction, function)
	}

	if m.ExpectedPayload != nil {
		got := m.ExpectedPayload.ProtoReflect().New().Interface()
		if err := proto.Unmarshal(payload, got); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedPayload, err)
		}
		if !proto.Equal(m.ExpectedPayload, got) {
			return nil, fmt.Errorf("%w: expected %v, got %v", ErrUnexpectedPayload, m.ExpectedPayload, got)
		}
	}

	// Validate payload using user-defined validator, if provided
	if m.PayloadValidator != nil {
		if err := m.PayloadValidator(payload); err != nil {
			return nil, err
		}
	}

	if m.Response != nil {
		return m.Response(), nil
	}

	return nil, nil
}
