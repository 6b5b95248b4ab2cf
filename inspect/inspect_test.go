package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Base struct {
	Describe func() string
	Greet    func(string) string
}

type person struct {
	Name   string
	Age    int
	Greet  func(string) string
	Wave   func()
	Extra  any
	secret func()
	Base
}

func (p person) Shout(s string) string { return s + "!" }
func (p person) Greeting() string     { return "hello" }

type counter struct {
	n int
}

func (c *counter) Inc()       { c.n++ }
func (c *counter) Value() int { return c.n }
func (c counter) Peek() int   { return c.n }

func TestMethods(t *testing.T) {
	t.Run("Struct value", func(t *testing.T) {
		p := person{
			Name:  "bob",
			Greet: func(s string) string { return "hi " + s },
			Extra: func() {},
			Base:  Base{Describe: func() string { return "base" }},
		}

		// Own fields first, then the embedded struct, then the method set.
		assert.Equal(t, []string{"Greet", "Wave", "Extra", "Describe", "Greeting", "Shout"}, Methods(p))
	})

	t.Run("Pointer receivers", func(t *testing.T) {
		assert.Equal(t, []string{"Inc", "Peek", "Value"}, Methods(&counter{}))
		assert.Equal(t, []string{"Peek"}, Methods(counter{}))
	})

	t.Run("Map", func(t *testing.T) {
		m := map[string]any{
			"zeta":  func() {},
			"alpha": func(int) int { return 0 },
			"name":  "not callable",
		}
		assert.Equal(t, []string{"alpha", "zeta"}, Methods(m))
	})

	t.Run("Nothing callable", func(t *testing.T) {
		assert.Empty(t, Methods(nil))
		assert.Empty(t, Methods(42))
		assert.Empty(t, Methods(struct{ A int }{A: 1}))
		assert.Empty(t, Methods(map[int]func(){1: func() {}}))
	})

	t.Run("Does not mutate", func(t *testing.T) {
		c := &counter{n: 3}
		Methods(c)
		require.Equal(t, 3, c.n)
	})
}

func TestMembers(t *testing.T) {
	c := &counter{}
	members := Members(c)
	require.Len(t, members, 3)

	for _, m := range members {
		assert.Equal(t, Method, m.Source)
		if m.Name == "Inc" {
			m.Func.Call(nil)
		}
	}
	assert.Equal(t, 1, c.n, "methods must be bound to the target")

	p := person{Base: Base{Greet: func(string) string { return "base" }}}
	for _, m := range Members(p) {
		switch m.Name {
		case "Greet":
			assert.Equal(t, Field, m.Source, "own field must hide the embedded one")
			assert.True(t, m.Func.IsNil())
		case "Describe":
			assert.Equal(t, Embedded, m.Source)
		}
	}
}

func TestProperties(t *testing.T) {
	t.Run("Struct", func(t *testing.T) {
		p := person{Name: "bob", Age: 30, Extra: func() {}}
		assert.Equal(t, []Property{{Name: "Name", Value: "bob"}, {Name: "Age", Value: 30}}, Properties(p))
	})

	t.Run("Map", func(t *testing.T) {
		m := map[string]any{"b": 2, "a": "one", "f": func() {}}
		assert.Equal(t, []Property{{Name: "a", Value: "one"}, {Name: "b", Value: 2}}, Properties(m))
	})

	t.Run("Nil", func(t *testing.T) {
		assert.Empty(t, Properties(nil))
		assert.Empty(t, Properties((*person)(nil)))
	})
}
