/*
Package emitter provides a small synchronous event emitter.

It exists as a collaborator for doubles: wrapping an *Emitter with
testdouble.Wrap records On and Emit calls while registered listeners keep
firing exactly as they would on the emitter itself. Force emits on the
original emitter without going through any double.

	e := emitter.New()
	d, _ := testdouble.Wrap(e)
	d.Call("On", "ready", emitter.Listener(func(args ...any) { ... }))
	emitter.Force(e, "ready", 1)
*/
package emitter
