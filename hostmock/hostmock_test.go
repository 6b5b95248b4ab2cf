package hostmock

import (
	"bytes"
	"errors"
	"testing"

	kvproto "github.com/tarmac-project/protobuf-go/sdk/kvstore"
	"github.com/tarmac-project/testdouble/value"
	"google.golang.org/protobuf/proto"
)

var ErrMockError = errors.New("Mock error")

// route is the host call every case issues unless it overrides one part.
var route = [3]string{"tarmac", "kvstore", "get"}

func respondWith(b string) func() []byte {
	return func() []byte { return []byte(b) }
}

func TestHostMock(t *testing.T) {
	expectRoute := func(cfg Config) Config {
		cfg.ExpectedNamespace, cfg.ExpectedCapability, cfg.ExpectedFunction = route[0], route[1], route[2]
		return cfg
	}

	tt := []struct {
		name    string
		cfg     Config
		call    [3]string
		payload []byte
		want    []byte
		wantErr error
	}{
		{
			name:    "Configured Response",
			cfg:     expectRoute(Config{Response: respondWith("ok"), PayloadValidator: func([]byte) error { return nil }}),
			payload: []byte("k"),
			want:    []byte("ok"),
		},
		{
			name:    "Custom Failure",
			cfg:     expectRoute(Config{Fail: true, Error: ErrMockError, Response: respondWith("ok")}),
			wantErr: ErrMockError,
		},
		{
			name:    "Default Failure",
			cfg:     expectRoute(Config{Fail: true}),
			wantErr: ErrOperationFailed,
		},
		{
			name: "No Response",
			cfg:  expectRoute(Config{}),
		},
		{
			name: "Validator Rejects Payload",
			cfg: expectRoute(Config{
				Response: respondWith("ok"),
				PayloadValidator: func(payload []byte) error {
					if len(payload) == 0 {
						return ErrMockError
					}
					return nil
				},
			}),
			wantErr: ErrMockError,
		},
		{
			name:    "Unexpected Namespace",
			cfg:     expectRoute(Config{Response: respondWith("ok")}),
			call:    [3]string{"other", route[1], route[2]},
			wantErr: ErrUnexpectedNamespace,
		},
		{
			name:    "Unexpected Capability",
			cfg:     expectRoute(Config{Response: respondWith("ok")}),
			call:    [3]string{route[0], "httpclient", route[2]},
			wantErr: ErrUnexpectedCapability,
		},
		{
			name:    "Unexpected Function",
			cfg:     expectRoute(Config{Response: respondWith("ok")}),
			call:    [3]string{route[0], route[1], "set"},
			wantErr: ErrUnexpectedFunction,
		},
		{
			name: "Blank Expectations Match Anything",
			cfg:  Config{Response: respondWith("any")},
			call: [3]string{"ns", "cap", "fn"},
			want: []byte("any"),
		},
		{
			name:    "Expected Payload",
			cfg:     Config{ExpectedPayload: &kvproto.KVStoreGet{Key: "k"}, Response: respondWith("ok")},
			payload: mustMarshal(t, &kvproto.KVStoreGet{Key: "k"}),
			want:    []byte("ok"),
		},
		{
			name:    "Unexpected Payload",
			cfg:     Config{ExpectedPayload: &kvproto.KVStoreGet{Key: "k"}},
			payload: mustMarshal(t, &kvproto.KVStoreGet{Key: "other"}),
			wantErr: ErrUnexpectedPayload,
		},
		{
			name:    "Undecodable Payload",
			cfg:     Config{ExpectedPayload: &kvproto.KVStoreGet{Key: "k"}},
			payload: []byte{0x0a, 0x05},
			wantErr: ErrUnexpectedPayload,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			mock, err := New(tc.cfg)
			if err != nil {
				t.Fatalf("New Mock instance creation failed: %v", err)
			}

			call := tc.call
			if call == [3]string{} {
				call = route
			}

			got, err := mock.HostCall(call[0], call[1], call[2], tc.payload)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Mock call returned unexpected error: got %v, want %v", err, tc.wantErr)
			}

			if !bytes.Equal(got, tc.want) {
				t.Fatalf("Mock call returned unexpected response: got %v, want %v", got, tc.want)
			}
		})
	}
}

func mustMarshal(t *testing.T, m proto.Message) []byte {
	t.Helper()
	b, err := proto.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestHostMockRecording(t *testing.T) {
	mock, err := New(Config{ExpectedNamespace: "tarmac"})
	if err != nil {
		t.Fatalf("New Mock instance creation failed: %v", err)
	}

	if err := mock.Expect().Called().Never(); err != nil {
		t.Fatalf("unexpected assertion failure: %v", err)
	}

	_, _ = mock.HostCall("tarmac", "kvstore", "get", []byte("a"))
	_, _ = mock.HostCall("other", "kvstore", "set", []byte("b"))

	if err := mock.Expect().Called().Twice(); err != nil {
		t.Fatalf("unexpected assertion failure: %v", err)
	}

	if err := mock.Expect().Called().WithArgs("other", "kvstore", "set", []byte("b")); err != nil {
		t.Fatalf("unexpected assertion failure: %v", err)
	}

	if err := mock.Expect().Called().WithArgs("tarmac", "kvstore", "delete", value.Anything); err == nil {
		t.Fatalf("expected assertion failure for a call that was never made")
	}

	if got := len(mock.Calls()); got != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", got)
	}
}

func TestHostMockSetup(t *testing.T) {
	mock, err := New(Config{
		Response: func() []byte { return []byte("default") },
	})
	if err != nil {
		t.Fatalf("New Mock instance creation failed: %v", err)
	}

	mock.Setup().When(value.Anything, "kvstore", "get", value.Anything).ToReturn([]byte("scripted"))
	mock.Setup().When(value.Anything, "kvstore", "delete", value.Anything).ToThrow(ErrMockError)

	tt := []struct {
		name     string
		function string
		want     []byte
		wantErr  error
	}{
		{name: "scripted response", function: "get", want: []byte("scripted")},
		{name: "scripted failure", function: "delete", wantErr: ErrMockError},
		{name: "falls back to config", function: "keys", want: []byte("default")},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := mock.HostCall("tarmac", "kvstore", tc.function, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Mock call returned unexpected error: got %v, want %v", err, tc.wantErr)
			}
			if !bytes.Equal(got, tc.want) {
				t.Fatalf("Mock call returned unexpected response: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHostMockPassthrough(t *testing.T) {
	mock, err := New(Config{Passthrough: true, ExpectedNamespace: "ignored"})
	if err != nil {
		t.Fatalf("New Mock instance creation failed: %v", err)
	}

	var forwarded []string
	mock.host = func(namespace, capability, function string, _ []byte) ([]byte, error) {
		forwarded = append(forwarded, namespace+"/"+capability+"/"+function)
		return []byte("from host"), nil
	}

	got, err := mock.HostCall("tarmac", "kvstore", "get", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "from host" {
		t.Fatalf("unexpected response %q", got)
	}
	if len(forwarded) != 1 || forwarded[0] != "tarmac/kvstore/get" {
		t.Fatalf("unexpected forwarded calls %v", forwarded)
	}
	if err := mock.Expect().Called().Once(); err != nil {
		t.Fatalf("unexpected assertion failure: %v", err)
	}
}
