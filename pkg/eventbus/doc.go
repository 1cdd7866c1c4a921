/*
Package eventbus provides a synchronous, in-process publish/subscribe bus.

# Overview

A Bus maps event names to ordered lists of listeners. Emit calls each
listener for an event, in registration order, on the caller's goroutine.
There is no queueing, no background goroutine and no pattern matching:
an event name either has listeners or it does not.

	bus := eventbus.New()

	var log []int
	bus.On("x", eventbus.Func(func(args ...any) { log = append(log, args[0].(int)) }))
	bus.On("x", eventbus.Func(func(args ...any) { log = append(log, args[0].(int)*2) }))

	_ = bus.Emit("x", 5) // log == [5 10]

# Listeners

Go functions cannot be compared, so listeners are registered through a
*Listener handle. The handle is what Off matches on:

	l := eventbus.Func(onSaved)
	bus.On("saved", l)
	bus.Off("saved", l)

Subscribe wraps and registers in one step and returns the handle.
The same handle registered twice produces two entries; Off removes one
entry per call.

# Dispatch Semantics

Emit works on a snapshot of the listener list taken when it starts.
Listeners may call On, Off, Once or Emit on the bus that is dispatching to
them; the changes apply to the next Emit, never to the pass in progress.

Once registers a listener for a single delivery. The registration is
removed before the listener runs and a guard ensures it never runs twice,
even if Emit is re-entered from inside a listener.

Listeners are not isolated. A listener error ends the pass and is returned
as *ListenerError; a listener panic ends the pass and propagates to the
caller of Emit.

# Composition

	fork := bus.Fork()          // independent copy of the listener table
	merged := a.Merge(b)        // fork of a, then b's listeners on top
	a.SendTo(b)                 // copy a's current listeners onto b
	wire := eventbus.Send[*eventbus.Bus](table)
	wire(bus)                   // register a whole table on any Target

Every copy is deep: writing into a table returned by Listeners, or into a
table passed to WithListeners or Send, never changes a bus. A pending Once
registration copied by Fork, Merge or SendTo becomes a one-shot of its own
on the receiving bus, so each bus delivers it once.

# Injection

Types that embed Emitter or Observer gain pub/sub methods bound to an
existing bus:

	type Cart struct {
	    eventbus.Emitter
	    items []string
	}

	cart := eventbus.Inject(bus, &Cart{})
	cart.On("added", onAdded)   // registered on bus
	bus.Emit("added", "apple")  // reaches onAdded

Observer exposes On, Once and Off only, so a bus owner can hand out a
subscribe-only view while keeping Emit to itself.

# Observability

Logging (slog), metrics and tracing (OpenTelemetry) are opt-in:

	bus := eventbus.New(
	    eventbus.WithName("orders"),
	    eventbus.WithLogger(logger),
	    eventbus.WithMetrics(true),
	    eventbus.WithTracing(true),
	)
*/
package eventbus
