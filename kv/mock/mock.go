package mock

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tarmac-project/testdouble"
	"github.com/tarmac-project/testdouble/kv"
	"github.com/tarmac-project/testdouble/value"
)

// Operation names accepted by Setup and Expect.
const (
	OpGet    = "Get"
	OpSet    = "Set"
	OpDelete = "Delete"
	OpKeys   = "Keys"
	OpClose  = "Close"
)

// Config configures the mock client.
type Config struct {
	// Seed pre-populates the in-memory store.
	Seed map[string][]byte

	// Logger receives debug entries for every operation. If nil, log output
	// is discarded.
	Logger logrus.FieldLogger
}

// Response describes a configured mock outcome.
type Response struct {
	// Value applies to GET.
	Value []byte
	// Keys applies to KEYS.
	Keys []string
	// Err indicates an error to return for the operation.
	Err error
	// storeOnSet controls whether SET updates the in-memory store when a
	// configured SET response exists and Err == nil. Defaults to true.
	storeOnSet *bool
}

// ResponseBuilder allows fluent configuration of responses. Each call
// replaces the previous response for the same operation and key.
type ResponseBuilder struct {
	m   *Client
	op  string
	key string // empty for KEYS
	r   Response
}

// ReturnValue sets bytes returned by GET.
func (b *ResponseBuilder) ReturnValue(v []byte) *ResponseBuilder {
	b.r.Value = v
	b.apply()
	return b
}

// ReturnKeys sets keys returned by KEYS.
func (b *ResponseBuilder) ReturnKeys(keys []string) *ResponseBuilder {
	b.r.Keys = append([]string(nil), keys...)
	b.apply()
	return b
}

// ReturnError sets an error for the configured operation.
func (b *ResponseBuilder) ReturnError(err error) *Client {
	b.r.Err = err
	b.apply()
	return b.m
}

// StoreOnSet controls whether a configured SET without error updates the store (default true).
func (b *ResponseBuilder) StoreOnSet(v bool) *ResponseBuilder {
	b.r.storeOnSet = &v
	b.apply()
	return b
}

// apply registers the response as a behavior conditioned on the key. Key and
// value validation runs before any configured response.
func (b *ResponseBuilder) apply() {
	r := b.r
	setup := b.m.double.Setup(b.op)

	switch b.op {
	case OpGet:
		setup.When(b.key).ToDoThis(func(key string) ([]byte, error) {
			if key == "" {
				return nil, kv.ErrInvalidKey
			}
			return r.Value, r.Err
		})
	case OpSet:
		store := b.m.store
		setup.When(b.key, value.Anything).ToDoThis(func(key string, data []byte) error {
			if key == "" {
				return kv.ErrInvalidKey
			}
			if data == nil {
				return kv.ErrInvalidValue
			}
			if r.Err != nil {
				return r.Err
			}
			if r.storeOnSet == nil || *r.storeOnSet {
				return store.Set(key, data)
			}
			return nil
		})
	case OpDelete:
		setup.When(b.key).ToDoThis(func(key string) error {
			if key == "" {
				return kv.ErrInvalidKey
			}
			return r.Err
		})
	case OpKeys:
		setup.ToReturn(r.Keys, r.Err)
	}
}

// Client implements kv.KV for tests. Operations without a configured
// response run against an in-memory store.
type Client struct {
	store  *kv.Memory
	double *testdouble.Double

	get    func(string) ([]byte, error)
	set    func(string, []byte) error
	delete func(string) error
	keys   func() ([]string, error)
	close  func() error
}

var _ kv.KV = (*Client)(nil)

// New creates a new mock KV client.
func New(cfg Config) *Client {
	store := kv.NewMemory(cfg.Seed)

	d, err := testdouble.New(testdouble.Config{
		Name:   "kv",
		Mode:   testdouble.ModeWrap,
		Target: store,
		Logger: cfg.Logger,
	})
	if err != nil {
		panic(fmt.Errorf("kv mock: %w", err))
	}

	m := &Client{store: store, double: d}
	for name, fn := range map[string]any{
		OpGet:    &m.get,
		OpSet:    &m.set,
		OpDelete: &m.delete,
		OpKeys:   &m.keys,
		OpClose:  &m.close,
	} {
		if err := d.Bind(name, fn); err != nil {
			panic(fmt.Errorf("kv mock: %w", err))
		}
	}
	return m
}

// OnGet configures a GET response for a key.
func (m *Client) OnGet(key string) *ResponseBuilder {
	return &ResponseBuilder{m: m, op: OpGet, key: key}
}

// OnSet configures a SET response for a key.
func (m *Client) OnSet(key string) *ResponseBuilder {
	return &ResponseBuilder{m: m, op: OpSet, key: key}
}

// OnDelete configures a DELETE response for a key.
func (m *Client) OnDelete(key string) *ResponseBuilder {
	return &ResponseBuilder{m: m, op: OpDelete, key: key}
}

// OnKeys configures the KEYS response.
func (m *Client) OnKeys() *ResponseBuilder { return &ResponseBuilder{m: m, op: OpKeys} }

// Setup exposes the full behavior API of one operation.
func (m *Client) Setup(op string) *testdouble.Setup { return m.double.Setup(op) }

// Expect asserts on the recorded calls of one operation.
func (m *Client) Expect(op string) *testdouble.Expectation { return m.double.Expect(op) }

// Reset clears the recorded calls. Configured responses and stored data are kept.
func (m *Client) Reset() { m.double.Reset() }

// Get implements kv.KV.
func (m *Client) Get(key string) ([]byte, error) { return m.get(key) }

// Set implements kv.KV.
func (m *Client) Set(key string, data []byte) error { return m.set(key, data) }

// Delete implements kv.KV.
func (m *Client) Delete(key string) error { return m.delete(key) }

// Keys implements kv.KV.
func (m *Client) Keys() ([]string, error) { return m.keys() }

// Close implements kv.KV.
func (m *Client) Close() error { return m.close() }
