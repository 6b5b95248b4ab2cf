package testdouble

import "github.com/tarmac-project/testdouble/value"

// entry scopes a behavior to calls matching cond.
type entry struct {
	cond     []any
	behavior behavior
}

// registry holds the configured behaviors of one member: at most one
// unconditioned behavior and any number of conditioned entries, oldest first.
type registry struct {
	fallback *behavior
	entries  []entry
}

// set registers b for cond. A condition identical to an existing one
// replaces that entry and becomes the most recent; any other condition is
// added alongside.
func (r *registry) set(cond []any, b behavior) {
	for i, e := range r.entries {
		if value.IdenticalArgs(e.cond, cond) {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	r.entries = append(r.entries, entry{cond: append([]any{}, cond...), behavior: b})
}

func (r *registry) setDefault(b behavior) {
	r.fallback = &b
}

// resolve picks the newest entry matching args, then the unconditioned behavior.
func (r *registry) resolve(args []any) (behavior, bool) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if value.MatchArgs(r.entries[i].cond, args) {
			return r.entries[i].behavior, true
		}
	}
	if r.fallback != nil {
		return *r.fallback, true
	}
	return behavior{}, false
}
