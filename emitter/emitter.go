package emitter

import "sync"

// Listener receives the arguments of an emitted event.
type Listener func(args ...any)

// Emitter is a synchronous event emitter. Listeners run in registration order
// on the goroutine that emits.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]Listener
}

// New creates an empty Emitter.
func New() *Emitter {
	return &Emitter{listeners: make(map[string][]Listener)}
}

// On registers fn for event. A nil fn is ignored.
func (e *Emitter) On(event string, fn Listener) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[string][]Listener)
	}
	e.listeners[event] = append(e.listeners[event], fn)
}

// Emit calls every listener of event with args and reports whether there was
// at least one. Listeners registered while emitting are not called for this event.
func (e *Emitter) Emit(event string, args ...any) bool {
	e.mu.Lock()
	fns := append([]Listener(nil), e.listeners[event]...)
	e.mu.Unlock()

	for _, fn := range fns {
		fn(args...)
	}
	return len(fns) > 0
}

// Listeners returns the number of listeners registered for event.
func (e *Emitter) Listeners(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}

// Force emits event on e directly. Pass the original emitter, not a double
// of it, so the emission is never recorded or replaced.
func Force(e *Emitter, event string, args ...any) bool {
	return e.Emit(event, args...)
}
