package eventbus

import (
	"context"
	"sync/atomic"
)

// EmitterHost is a value that can receive the full pub/sub capability.
// Embedding an Emitter is the usual way to satisfy it.
type EmitterHost interface {
	BindEmitter(b *Bus)
}

// ObserverHost is a value that can receive the subscribe-only capability.
// Embedding an Observer is the usual way to satisfy it.
type ObserverHost interface {
	BindObserver(b *Bus)
}

// InjectTo binds target to this bus's listener table and returns target.
// After injection, subscribing or emitting through target is the same as
// doing it on b, and the reverse.
func (b *Bus) InjectTo(target EmitterHost) EmitterHost {
	if target != nil {
		target.BindEmitter(b)
	}
	return target
}

// InjectObserverTo binds target to this bus's listener table with the
// subscribe-only capability and returns target. The holder of target can
// register and remove listeners but cannot emit.
func (b *Bus) InjectObserverTo(target ObserverHost) ObserverHost {
	if target != nil {
		target.BindObserver(b)
	}
	return target
}

// Inject is InjectTo preserving the concrete type of target.
//
// Example:
//
//	type Store struct {
//	    eventbus.Emitter
//	    items map[string]Item
//	}
//
//	store := eventbus.Inject(bus, &Store{items: map[string]Item{}})
//	store.On("saved", onSaved)
func Inject[T EmitterHost](b *Bus, target T) T {
	b.InjectTo(target)
	return target
}

// InjectObserver is InjectObserverTo preserving the concrete type of target.
func InjectObserver[T ObserverHost](b *Bus, target T) T {
	b.InjectObserverTo(target)
	return target
}

// busRef resolves the bus behind an Emitter or Observer, binding a private
// bus on first use so the zero value works.
type busRef struct {
	p atomic.Pointer[Bus]
}

func (r *busRef) get() *Bus {
	if b := r.p.Load(); b != nil {
		return b
	}
	r.p.CompareAndSwap(nil, New())
	return r.p.Load()
}

func (r *busRef) set(b *Bus) {
	if b != nil {
		r.p.Store(b)
	}
}

// Emitter carries the complete pub/sub surface of a Bus. Embed it in a type
// and pass that type to InjectTo to give it pub/sub behaviour.
//
// The zero Emitter is usable: it binds to a private bus on first use.
type Emitter struct {
	ref busRef
}

// BindEmitter binds e to b. It is called by InjectTo.
func (e *Emitter) BindEmitter(b *Bus) { e.ref.set(b) }

// On registers l for event.
func (e *Emitter) On(event string, l *Listener) *Emitter {
	e.ref.get().On(event, l)
	return e
}

// Once registers l for the next emission of event only.
func (e *Emitter) Once(event string, l *Listener) *Emitter {
	e.ref.get().Once(event, l)
	return e
}

// Off removes the first registration of l for event.
func (e *Emitter) Off(event string, l *Listener) *Emitter {
	e.ref.get().Off(event, l)
	return e
}

// OffAll removes every listener.
func (e *Emitter) OffAll() *Emitter {
	e.ref.get().OffAll()
	return e
}

// OnMany registers every listener in events.
func (e *Emitter) OnMany(events Listeners) *Emitter {
	e.ref.get().OnMany(events)
	return e
}

// OffMany removes every listener in events.
func (e *Emitter) OffMany(events Listeners) {
	e.ref.get().OffMany(events)
}

// Subscribe registers fn on event and returns its handle.
func (e *Emitter) Subscribe(event string, fn func(args ...any) error) *Listener {
	return e.ref.get().Subscribe(event, fn)
}

// AddListener registers l for event.
func (e *Emitter) AddListener(event string, l *Listener) {
	e.ref.get().AddListener(event, l)
}

// Emit dispatches event to its listeners.
func (e *Emitter) Emit(event string, args ...any) error {
	return e.ref.get().Emit(event, args...)
}

// EmitContext dispatches event to its listeners with a parent context.
func (e *Emitter) EmitContext(ctx context.Context, event string, args ...any) error {
	return e.ref.get().EmitContext(ctx, event, args...)
}

// Observer carries the subscribe-only surface of a Bus: it can register and
// remove listeners, never emit. Hand an Observer to consumers while the owner
// keeps the Bus.
//
// The zero Observer is usable: it binds to a private bus on first use.
type Observer struct {
	ref busRef
}

// BindObserver binds o to b. It is called by InjectObserverTo.
func (o *Observer) BindObserver(b *Bus) { o.ref.set(b) }

// On registers l for event.
func (o *Observer) On(event string, l *Listener) *Observer {
	o.ref.get().On(event, l)
	return o
}

// Once registers l for the next emission of event only.
func (o *Observer) Once(event string, l *Listener) *Observer {
	o.ref.get().Once(event, l)
	return o
}

// Off removes the first registration of l for event.
func (o *Observer) Off(event string, l *Listener) *Observer {
	o.ref.get().Off(event, l)
	return o
}

// Subscribe registers fn on event and returns its handle.
func (o *Observer) Subscribe(event string, fn func(args ...any) error) *Listener {
	return o.ref.get().Subscribe(event, fn)
}

// AddListener registers l for event.
func (o *Observer) AddListener(event string, l *Listener) {
	o.ref.get().AddListener(event, l)
}

// Compile-time interface checks.
var (
	_ Target       = (*Bus)(nil)
	_ Target       = (*Emitter)(nil)
	_ Target       = (*Observer)(nil)
	_ EmitterHost  = (*Emitter)(nil)
	_ ObserverHost = (*Observer)(nil)
)
