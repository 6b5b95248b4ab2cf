package testdouble

import "github.com/tarmac-project/testdouble/deferred"

// Results holds the values produced by a call, in result order.
type Results []any

// Get returns the i-th result, or nil when there is none.
func (r Results) Get(i int) any {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// String returns the i-th result if it is a string.
func (r Results) String(i int) string {
	s, _ := r.Get(i).(string)
	return s
}

// Int returns the i-th result if it is an int.
func (r Results) Int(i int) int {
	n, _ := r.Get(i).(int)
	return n
}

// Bool returns the i-th result if it is a bool.
func (r Results) Bool(i int) bool {
	b, _ := r.Get(i).(bool)
	return b
}

// Err returns the last result if it is a non-nil error.
func (r Results) Err() error {
	err, _ := r.Get(len(r) - 1).(error)
	return err
}

// Promise returns the first result that is a *deferred.Promise.
func (r Results) Promise() *deferred.Promise {
	for _, v := range r {
		if p, ok := v.(*deferred.Promise); ok {
			return p
		}
	}
	return nil
}
