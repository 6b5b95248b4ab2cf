/*
Package hostmock provides a friendly pretend host for waPC calls.

It's designed for guest code and advanced tests where you want to validate
exactly what a component is sending to the host, without needing a real host
running. Every call goes through a testdouble func double, so calls are
recorded and answers can be scripted per argument.

Why use hostmock?

  - Validate routing: ensure calls use the expected namespace, capability, and function when you set them.
  - Inspect payloads: set ExpectedPayload to a protobuf message, or plug in a PayloadValidator.
  - Script responses: return custom bytes, simulate failures, or override single calls with Setup.
  - Assert traffic: Expect reports how often and with what the host was called.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "kvstore",
	  ExpectedFunction:   "get",
	  ExpectedPayload:    &kvstore.KVStoreGet{Key: "a"},
	  Response:           func() []byte { return resp },
	})

	client, _ := kv.New(kv.Config{HostCall: m.HostCall})
	_, _ = client.Get("a")

	err := m.Expect().Called().Once()

Scripting single calls

	m.Setup().When(value.Anything, "kvstore", "delete", value.Anything).ToThrow(kv.ErrKeyNotFound)

Behavior

  - Calls matching a Setup condition use the scripted behavior.
  - Otherwise, with Passthrough set, the call is forwarded to the real waPC host.
  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - Otherwise, HostCall enforces ExpectedNamespace/Capability/Function and
    ExpectedPayload, then runs PayloadValidator when provided. If everything is
    in order, Response (when set) provides the return bytes; otherwise it returns nil.

Tips

  - Use table-driven tests for different routing and payload cases.
  - Keep the validator small and focused: decode, assert, return.
  - Leave fields blank when you want a wildcard; hostmock only enforces values you set.
*/
package hostmock
