/*
Package deferred provides a settle-once result used by doubles configured to
resolve or reject asynchronously.

A Promise settles exactly once, either with a value or with an error. Callers
wait for it with Await, select on Done, or register a callback with Then.

	p := deferred.After(10*time.Millisecond, "ok", nil)
	v, err := p.Await(ctx)
*/
package deferred

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRejected is used when a Promise is rejected with a nil error.
var ErrRejected = errors.New("promise rejected")

// Promise is a value that becomes available later.
type Promise struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

// New returns a pending Promise with the functions that settle it. Only the
// first call to either function has any effect.
func New() (*Promise, func(any), func(error)) {
	p := &Promise{done: make(chan struct{})}
	return p, p.resolve, p.reject
}

// Resolved returns a Promise already settled with v.
func Resolved(v any) *Promise {
	p, resolve, _ := New()
	resolve(v)
	return p
}

// Rejected returns a Promise already settled with err.
func Rejected(err error) *Promise {
	p, _, reject := New()
	reject(err)
	return p
}

// After returns a Promise that settles on a real timer once delay elapses.
// A non-nil err rejects the Promise, otherwise it resolves with v.
func After(delay time.Duration, v any, err error) *Promise {
	p, resolve, reject := New()
	settle := func() {
		if err != nil {
			reject(err)
			return
		}
		resolve(v)
	}
	if delay <= 0 {
		settle()
		return p
	}
	time.AfterFunc(delay, settle)
	return p
}

func (p *Promise) resolve(v any) {
	p.once.Do(func() {
		p.value = v
		close(p.done)
	})
}

func (p *Promise) reject(err error) {
	if err == nil {
		err = ErrRejected
	}
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Done is closed once the Promise settles.
func (p *Promise) Done() <-chan struct{} { return p.done }

// Settled reports whether the Promise has settled.
func (p *Promise) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until the Promise settles or ctx is done.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Then calls fn with the settled value and error. fn runs synchronously when
// the Promise has already settled, otherwise on its own goroutine once it does.
func (p *Promise) Then(fn func(any, error)) {
	if p.Settled() {
		fn(p.value, p.err)
		return
	}
	go func() {
		<-p.done
		fn(p.value, p.err)
	}()
}
