package kv_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/kvstore"
	"github.com/tarmac-project/testdouble"
	"github.com/tarmac-project/testdouble/hostmock"
	"github.com/tarmac-project/testdouble/kv"
	kvmock "github.com/tarmac-project/testdouble/kv/mock"
	pb "google.golang.org/protobuf/proto"
)

// operation runs one KV call and reports its error.
type operation struct {
	name string
	run  func(c kv.KV) error
}

var operations = []operation{
	{"get", func(c kv.KV) error { _, err := c.Get("k"); return err }},
	{"set", func(c kv.KV) error { return c.Set("k", []byte("v")) }},
	{"delete", func(c kv.KV) error { return c.Delete("k") }},
	{"keys", func(c kv.KV) error { _, err := c.Keys(); return err }},
}

// statusHost answers every kvstore function with status and fixed data.
func statusHost(t *testing.T, status *sdkproto.Status) *hostmock.Mock {
	t.Helper()

	host, err := hostmock.New(hostmock.Config{ExpectedCapability: "kvstore"})
	if err != nil {
		t.Fatalf("failed to create host mock: %v", err)
	}

	host.Setup().ToDoThis(func(namespace, capability, function string, payload []byte) ([]byte, error) {
		var resp pb.Message
		switch function {
		case "get":
			resp = &proto.KVStoreGetResponse{Status: status, Data: []byte("stored")}
		case "set":
			resp = &proto.KVStoreSetResponse{Status: status}
		case "delete":
			resp = &proto.KVStoreDeleteResponse{Status: status}
		case "keys":
			resp = &proto.KVStoreKeysResponse{Status: status, Keys: []string{"a", "b"}}
		}
		b, err := pb.Marshal(resp)
		if err != nil {
			t.Errorf("failed to marshal %s response: %v", function, err)
		}
		return b, nil
	})
	return host
}

func newClient(t *testing.T, host *hostmock.Mock) *kv.Client {
	t.Helper()

	c, err := kv.New(kv.Config{Namespace: "testing", HostCall: host.HostCall})
	if err != nil {
		t.Fatalf("failed to create KV client: %v", err)
	}
	return c
}

func TestClientStatus(t *testing.T) {
	tt := []struct {
		name    string
		status  *sdkproto.Status
		wantErr error
	}{
		{"OK", &sdkproto.Status{Status: "OK", Code: 200}, nil},
		{"Unset Code", &sdkproto.Status{Status: "OK"}, nil},
		{"Not Found", &sdkproto.Status{Status: "NotFound", Code: 404}, kv.ErrKeyNotFound},
		{"Bad Request", &sdkproto.Status{Status: "Invalid", Code: 400}, kv.ErrHostError},
		{"Server Error", &sdkproto.Status{Status: "Failed", Code: 500}, kv.ErrHostError},
		{"Missing Status", nil, kv.ErrHostResponseInvalid},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, statusHost(t, tc.status))

			for _, op := range operations {
				err := op.run(c)
				if tc.wantErr == nil && err != nil {
					t.Fatalf("%s: unexpected error: %v", op.name, err)
				}
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("%s: unexpected error: got %v, want %v", op.name, err, tc.wantErr)
				}
			}
		})
	}

	t.Run("Error Status Detail", func(t *testing.T) {
		c := newClient(t, statusHost(t, &sdkproto.Status{Status: "Failed", Code: 500}))
		err := c.Delete("k")
		if !errors.Is(err, kv.ErrHostResponseInvalid) {
			t.Fatalf("expected ErrHostResponseInvalid alongside ErrHostError, got %v", err)
		}
		if errors.Is(err, kv.ErrKeyNotFound) {
			t.Fatalf("a 500 must not read as a missing key: %v", err)
		}
	})
}

func TestClientResults(t *testing.T) {
	c := newClient(t, statusHost(t, &sdkproto.Status{Status: "OK", Code: 200}))

	v, err := c.Get("k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(v, []byte("stored")) {
		t.Fatalf("unexpected value %q", v)
	}

	keys, err := c.Keys()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientRequests(t *testing.T) {
	ok := func() []byte {
		b, _ := pb.Marshal(&proto.KVStoreSetResponse{Status: &sdkproto.Status{Status: "OK", Code: 200}})
		return b
	}

	tt := []struct {
		name     string
		function string
		payload  pb.Message
		run      func(c *kv.Client) error
	}{
		{"Get", "get", &proto.KVStoreGet{Key: "k"}, func(c *kv.Client) error { _, err := c.Get("k"); return err }},
		{"Set", "set", &proto.KVStoreSet{Key: "k", Data: []byte("v")}, func(c *kv.Client) error { return c.Set("k", []byte("v")) }},
		{"Delete", "delete", &proto.KVStoreDelete{Key: "k"}, func(c *kv.Client) error { return c.Delete("k") }},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			host, err := hostmock.New(hostmock.Config{
				ExpectedNamespace:  kv.DefaultNamespace,
				ExpectedCapability: "kvstore",
				ExpectedFunction:   tc.function,
				ExpectedPayload:    tc.payload,
				Response:           ok,
			})
			if err != nil {
				t.Fatalf("failed to create host mock: %v", err)
			}

			c, err := kv.New(kv.Config{HostCall: host.HostCall})
			if err != nil {
				t.Fatalf("failed to create KV client: %v", err)
			}

			if err := tc.run(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := host.Expect().Called().Once(); err != nil {
				t.Fatalf("unexpected assertion failure: %v", err)
			}
		})
	}

	t.Run("Keys Sends No Payload", func(t *testing.T) {
		host := statusHost(t, &sdkproto.Status{Code: 200})
		c := newClient(t, host)

		if _, err := c.Keys(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		calls := host.Calls()
		if len(calls) != 1 {
			t.Fatalf("expected one host call, got %d", len(calls))
		}
		if calls[0][0] != "testing" || calls[0][2] != "keys" {
			t.Fatalf("unexpected host call %v", calls[0])
		}
		if payload, _ := calls[0][3].([]byte); len(payload) != 0 {
			t.Fatalf("keys must not send a payload, got %v", payload)
		}
	})

	t.Run("Payload Mismatch", func(t *testing.T) {
		host, err := hostmock.New(hostmock.Config{ExpectedPayload: &proto.KVStoreGet{Key: "k"}, Response: ok})
		if err != nil {
			t.Fatalf("failed to create host mock: %v", err)
		}
		c := newClient(t, host)

		if _, err := c.Get("other"); !errors.Is(err, kv.ErrHostCall) || !errors.Is(err, hostmock.ErrUnexpectedPayload) {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestClientHostFailures(t *testing.T) {
	errDown := errors.New("host down")

	tt := []struct {
		name    string
		config  hostmock.Config
		wantErr []error
	}{
		{
			name:    "Custom Error",
			config:  hostmock.Config{Fail: true, Error: errDown},
			wantErr: []error{kv.ErrHostCall, errDown},
		},
		{
			name:    "Default Error",
			config:  hostmock.Config{Fail: true},
			wantErr: []error{kv.ErrHostCall, hostmock.ErrOperationFailed},
		},
		{
			name:    "Truncated Response",
			config:  hostmock.Config{Response: func() []byte { return []byte{0x0a, 0x05} }},
			wantErr: []error{kv.ErrHostResponseInvalid},
		},
		{
			name:    "Empty Response",
			config:  hostmock.Config{},
			wantErr: []error{kv.ErrHostResponseInvalid},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			host, err := hostmock.New(tc.config)
			if err != nil {
				t.Fatalf("failed to create host mock: %v", err)
			}
			c := newClient(t, host)

			for _, op := range operations {
				err := op.run(c)
				for _, want := range tc.wantErr {
					if !errors.Is(err, want) {
						t.Fatalf("%s: unexpected error: got %v, want %v", op.name, err, want)
					}
				}
			}
		})
	}
}

func TestClientValidation(t *testing.T) {
	host := statusHost(t, &sdkproto.Status{Code: 200})
	c := newClient(t, host)

	if _, err := c.Get(""); !errors.Is(err, kv.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if err := c.Set("", []byte("v")); !errors.Is(err, kv.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if err := c.Set("k", nil); !errors.Is(err, kv.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := c.Delete(""); !errors.Is(err, kv.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}

	if err := host.Expect().Called().Never("invalid input must not reach the host"); err != nil {
		t.Fatal(err)
	}
}

func TestMemory(t *testing.T) {
	seed := map[string][]byte{"b": []byte("2"), "a": []byte("1")}
	m := kv.NewMemory(seed)

	seed["a"][0] = 'x'
	v, err := m.Get("a")
	if err != nil || string(v) != "1" {
		t.Fatalf("seed must be copied: got %q, %v", v, err)
	}

	v[0] = 'y'
	if v, _ := m.Get("a"); string(v) != "1" {
		t.Fatalf("returned values must be copies: got %q", v)
	}

	keys, err := m.Keys()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := m.Delete("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Delete("a"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	var zero kv.Memory
	if err := zero.Set("k", []byte("v")); err != nil {
		t.Fatalf("zero Memory must accept writes: %v", err)
	}
	if err := zero.Set("k", nil); !errors.Is(err, kv.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

// TestMockSetup drives the mock client through its behavior and assertion API.
func TestMockSetup(t *testing.T) {
	m := kvmock.New(kvmock.Config{Seed: map[string][]byte{"a": []byte("1")}})
	var store kv.KV = m

	m.Setup(kvmock.OpGet).When("config").ToReturn([]byte("on"), nil)
	m.Setup(kvmock.OpSet).ToThrow("read only")

	v, err := store.Get("config")
	if err != nil || string(v) != "on" {
		t.Fatalf("unexpected get result %q, %v", v, err)
	}

	v, err = store.Get("a")
	if err != nil || string(v) != "1" {
		t.Fatalf("unconfigured keys must read the store: %q, %v", v, err)
	}

	if err := store.Set("b", []byte("2")); !errors.Is(err, testdouble.ErrSimulated) {
		t.Fatalf("expected simulated error, got %v", err)
	}
	if _, err := store.Get("b"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("rejected set must not be stored, got %v", err)
	}

	if err := m.Expect(kvmock.OpGet).Called().WithArgs("config"); err != nil {
		t.Fatalf("unexpected assertion failure: %v", err)
	}
	if err := m.Expect(kvmock.OpGet).Called().Times(3); err != nil {
		t.Fatalf("unexpected assertion failure: %v", err)
	}
	if err := m.Expect(kvmock.OpSet).Called().Once(); err != nil {
		t.Fatalf("unexpected assertion failure: %v", err)
	}

	err = m.Expect(kvmock.OpDelete).Called().Once()
	var assertErr *testdouble.AssertionError
	if !errors.As(err, &assertErr) {
		t.Fatalf("expected an assertion error, got %v", err)
	}
	if assertErr.Method == "" {
		t.Fatalf("assertion error must name the method")
	}
}
