package kv

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/kvstore"
	wapc "github.com/wapc/wapc-guest-tinygo"
	pb "google.golang.org/protobuf/proto"
)

// DefaultNamespace is used when Config.Namespace is empty.
const DefaultNamespace = "tarmac"

const (
	capabilityName = "kvstore"
	fnGet          = "get"
	fnSet          = "set"
	fnDelete       = "delete"
	fnKeys         = "keys"

	hostStatusOK      = int32(200)
	hostStatusMissing = int32(404)
)

// KV is the key/value capability.
type KV interface {
	// Get returns the value stored under key.
	Get(key string) ([]byte, error)

	// Set stores value under key.
	Set(key string, value []byte) error

	// Delete removes key.
	Delete(key string) error

	// Keys lists every stored key.
	Keys() ([]string, error)

	// Close releases resources held by the client.
	Close() error
}

var (
	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("key is invalid")

	// ErrInvalidValue is returned when Set is given a nil value.
	ErrInvalidValue = errors.New("value is invalid")

	// ErrKeyNotFound is returned when a key does not exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a failure status.
	ErrHostError = errors.New("host returned an error status")
)

// HostCall defines the waPC host function signature used by KV operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config controls how a Client interacts with the host runtime.
type Config struct {
	// Namespace scopes host calls. If empty, DefaultNamespace is used.
	Namespace string

	// HostCall overrides the waPC host function. If nil, wapc.HostCall is used.
	HostCall HostCall
}

// Client is the KV capability backed by waPC host calls.
type Client struct {
	namespace string
	hostCall  HostCall
}

// New creates a KV client.
func New(config Config) (*Client, error) {
	c := &Client{namespace: config.Namespace, hostCall: config.HostCall}
	if c.namespace == "" {
		c.namespace = DefaultNamespace
	}
	if c.hostCall == nil {
		c.hostCall = wapc.HostCall
	}
	return c, nil
}

// Get returns the value stored under key.
func (c *Client) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	var resp proto.KVStoreGetResponse
	if err := c.call(fnGet, &proto.KVStoreGet{Key: key}, &resp); err != nil {
		return nil, err
	}
	if err := validateStatus(resp.GetStatus()); err != nil {
		return nil, err
	}
	return resp.GetData(), nil
}

// Set stores value under key.
func (c *Client) Set(key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if value == nil {
		return ErrInvalidValue
	}

	var resp proto.KVStoreSetResponse
	if err := c.call(fnSet, &proto.KVStoreSet{Key: key, Data: value}, &resp); err != nil {
		return err
	}
	return validateStatus(resp.GetStatus())
}

// Delete removes key.
func (c *Client) Delete(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	var resp proto.KVStoreDeleteResponse
	if err := c.call(fnDelete, &proto.KVStoreDelete{Key: key}, &resp); err != nil {
		return err
	}
	return validateStatus(resp.GetStatus())
}

// Keys lists every stored key.
func (c *Client) Keys() ([]string, error) {
	var resp proto.KVStoreKeysResponse
	// keys takes no request body
	if err := c.call(fnKeys, nil, &resp); err != nil {
		return nil, err
	}
	if err := validateStatus(resp.GetStatus()); err != nil {
		return nil, err
	}
	return resp.GetKeys(), nil
}

// Close releases resources held by the client.
func (c *Client) Close() error { return nil }

func (c *Client) call(function string, req, resp pb.Message) error {
	var payload []byte
	if req != nil {
		b, err := pb.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", function, err)
		}
		payload = b
	}

	respBytes, callErr := c.hostCall(c.namespace, capabilityName, function, payload)
	if callErr != nil && len(respBytes) == 0 {
		return errors.Join(ErrHostCall, callErr)
	}

	if err := pb.Unmarshal(respBytes, resp); err != nil {
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostResponseInvalid, err)
		}
		return errors.Join(ErrHostResponseInvalid, err)
	}
	if callErr != nil {
		return errors.Join(ErrHostCall, callErr)
	}
	return nil
}

func validateStatus(status *sdkproto.Status) error {
	if status == nil {
		return ErrHostResponseInvalid
	}

	switch code := status.GetCode(); code {
	case 0, hostStatusOK:
		return nil
	case hostStatusMissing:
		return ErrKeyNotFound
	default:
		detail := fmt.Errorf("host status %d: %s", code, status.GetStatus())
		return errors.Join(ErrHostError, ErrHostResponseInvalid, detail)
	}
}

// Memory is an in-memory KV. The zero value is ready to use.
type Memory struct {
	mu    sync.Mutex
	store map[string][]byte
}

// NewMemory creates a Memory holding a copy of seed.
func NewMemory(seed map[string][]byte) *Memory {
	m := &Memory{store: make(map[string][]byte, len(seed))}
	for k, v := range seed {
		m.store[k] = append([]byte(nil), v...)
	}
	return m
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if value == nil {
		return ErrInvalidValue
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	m.store[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[key]; !ok {
		return ErrKeyNotFound
	}
	delete(m.store, key)
	return nil
}

// Keys returns the stored keys, sorted.
func (m *Memory) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.store))
	for k := range m.store {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements KV.
func (m *Memory) Close() error { return nil }
