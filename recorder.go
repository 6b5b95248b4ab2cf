package testdouble

// recorder is the append-only call history of one member.
type recorder struct {
	calls [][]any
}

// record appends a copy of args and returns the 1-based call number.
func (r *recorder) record(args []any) int {
	r.calls = append(r.calls, append([]any{}, args...))
	return len(r.calls)
}

func (r *recorder) count() int { return len(r.calls) }

// snapshot returns a copy of the history safe to hand to callers.
func (r *recorder) snapshot() [][]any {
	out := make([][]any, len(r.calls))
	for i, c := range r.calls {
		out[i] = append([]any{}, c...)
	}
	return out
}

func (r *recorder) reset() { r.calls = nil }
