package value

import "fmt"

// Matcher decides whether an actual argument satisfies an expectation.
// Matchers may appear in conditions and in WithArgs assertions, at any depth.
type Matcher interface {
	// Match reports whether actual is acceptable.
	Match(actual any) bool

	// String describes the matcher for failure messages.
	String() string
}

// Anything matches every value, including nil.
var Anything Matcher = anything{}

type anything struct{}

func (anything) Match(any) bool  { return true }
func (anything) String() string { return "<anything>" }

type kindMatcher struct {
	kind Kind
}

// OfKind matches any value whose KindOf is k. OfKind(Callable) is the usual
// way to match a callback argument.
func OfKind(k Kind) Matcher { return kindMatcher{kind: k} }

func (m kindMatcher) Match(actual any) bool { return KindOf(actual) == m.kind }
func (m kindMatcher) String() string        { return fmt.Sprintf("<%s>", m.kind) }

type funcMatcher struct {
	desc string
	fn   func(any) bool
}

// Satisfies builds a Matcher from a predicate. desc is used in failure
// messages. Each call yields a distinct matcher, so conditions built from
// separate Satisfies calls never replace one another.
func Satisfies(desc string, fn func(actual any) bool) Matcher {
	return &funcMatcher{desc: desc, fn: fn}
}

func (m *funcMatcher) Match(actual any) bool { return m.fn(actual) }
func (m *funcMatcher) String() string        { return "<" + m.desc + ">" }
