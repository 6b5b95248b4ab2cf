/*
Package mock provides a mock implementation of the kv.KV interface for testing
code that depends on the kv capability without invoking host calls.

The mock is a testdouble wrap around a kv.Memory store: every operation is
recorded, operations without a configured response run against the store, and
responses can be overridden per operation and key.

# Basic Usage

	m := mock.New(mock.Config{Seed: map[string][]byte{"a": []byte("1")}})
	v, err := m.Get("a")
	// v == "1", err == nil

# Overriding Behavior

Override responses per operation/key using a fluent builder:

	m.OnGet("missing").ReturnValue(nil).ReturnError(kv.ErrKeyNotFound)
	m.OnSet("bad").ReturnError(fmt.Errorf("reject set"))
	m.OnDelete("ghost").ReturnError(kv.ErrKeyNotFound)
	m.OnKeys().ReturnKeys([]string{"x", "y"})

or with the full behavior API:

	m.Setup(mock.OpGet).When("slow").ToDoThis(func(key string) ([]byte, error) { ... })

# Inspecting Calls

	err := m.Expect(mock.OpSet).Called().WithArgs("a", []byte("1"))
	err = m.Expect(mock.OpDelete).Called().Never()
*/
package mock
