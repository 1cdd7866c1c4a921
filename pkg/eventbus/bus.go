package eventbus

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/eventbus/pkg/eventbus/observability"
)

// store is the listener table shared by a Bus and every Emitter or Observer
// injected from it.
//
// Per-event slices are copy-on-write: mutations build a new slice and swap it
// in, so a slice read under the lock stays valid after the lock is released.
type store struct {
	mu        sync.RWMutex
	listeners Listeners
}

// Bus is a synchronous publish/subscribe event bus.
//
// Listeners run on the goroutine that calls Emit, in registration order.
// A Bus is safe for concurrent use, and listeners may call back into the bus
// that is dispatching to them.
type Bus struct {
	id     string
	name   string
	cfg    busConfig
	logger *slog.Logger
	store  *store
}

// New creates a bus, empty unless WithListeners is given.
func New(opts ...Option) *Bus {
	cfg := defaultBusConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	seed := cfg.seed.rebind()
	cfg.seed = nil
	return newBus(cfg, seed)
}

func newBus(cfg busConfig, seed Listeners) *Bus {
	id := uuid.New().String()
	b := &Bus{
		id:     id,
		name:   cfg.name,
		cfg:    cfg,
		logger: observability.EnrichLogger(cfg.logger, id, cfg.name),
		store:  &store{listeners: seed},
	}
	for evt, list := range seed {
		b.cfg.metrics.RecordSubscription(context.Background(), evt, len(list))
	}
	return b
}

// ID returns the unique identifier assigned at construction.
func (b *Bus) ID() string { return b.id }

// Name returns the name set with WithName.
func (b *Bus) Name() string { return b.name }

// On appends l to the listeners of event. A nil listener is ignored.
func (b *Bus) On(event string, l *Listener) *Bus {
	b.AddListener(event, l)
	return b
}

// AddListener is On without chaining; it lets Bus satisfy Target.
// A Once entry copied from another bus (through Listeners, SendTo or Merge)
// is registered as a one-shot of its own on b.
func (b *Bus) AddListener(event string, l *Listener) {
	if l == nil {
		return
	}
	if l = l.entry(); l == nil {
		return
	}
	b.store.mu.Lock()
	next := append(slices.Clip(b.store.listeners[event]), l)
	b.store.listeners[event] = next
	b.store.mu.Unlock()

	observability.LogSubscribe(b.logger, event, len(next))
	b.cfg.metrics.RecordSubscription(context.Background(), event, 1)
}

// Subscribe registers fn on event and returns its handle for a later Off.
func (b *Bus) Subscribe(event string, fn func(args ...any) error) *Listener {
	l := NewListener(fn)
	b.On(event, l)
	return l
}

// Once registers l so that it runs on the next Emit of event only.
//
// The registration is removed before l is invoked. Because Emit works on a
// snapshot, the removal takes effect from the next Emit onwards; a guard
// keeps l from running twice even when Emit is re-entered from a listener.
func (b *Bus) Once(event string, l *Listener) *Bus {
	if l == nil {
		return b
	}
	return b.On(event, &Listener{fn: l.fn, origin: l})
}

// Off removes the first registration of l for event. A registration made
// with Once(event, l) also counts as a registration of l, as does a Once
// entry of the same listener taken from another bus's Listeners.
// Unknown events and listeners are ignored.
func (b *Bus) Off(event string, l *Listener) *Bus {
	if l != nil {
		b.removeListener(event, func(x *Listener) bool { return x.matches(l) })
	}
	return b
}

// removeListener drops the first entry for event that match accepts.
func (b *Bus) removeListener(event string, match func(*Listener) bool) {
	b.store.mu.Lock()
	list := b.store.listeners[event]
	idx := slices.IndexFunc(list, match)
	if idx < 0 {
		b.store.mu.Unlock()
		return
	}
	next := make([]*Listener, 0, len(list)-1)
	next = append(next, list[:idx]...)
	next = append(next, list[idx+1:]...)
	if len(next) == 0 {
		delete(b.store.listeners, event)
	} else {
		b.store.listeners[event] = next
	}
	b.store.mu.Unlock()

	observability.LogUnsubscribe(b.logger, event, len(next))
	b.cfg.metrics.RecordSubscription(context.Background(), event, -1)
}

// removeEntry drops exactly the entry e, leaving other Once entries of the
// same listener in place.
func (b *Bus) removeEntry(event string, e *Listener) {
	b.removeListener(event, func(x *Listener) bool { return x == e })
}

// OffAll removes every listener for every event.
func (b *Bus) OffAll() *Bus {
	b.store.mu.Lock()
	old := b.store.listeners
	b.store.listeners = make(Listeners)
	b.store.mu.Unlock()

	for evt, list := range old {
		b.cfg.metrics.RecordSubscription(context.Background(), evt, -len(list))
	}
	observability.LogClear(b.logger, len(old))
	return b
}

// OnMany registers every listener in events, as if by On.
func (b *Bus) OnMany(events Listeners) *Bus {
	return Send[*Bus](events)(b)
}

// OffMany removes every listener in events, as if by Off.
func (b *Bus) OffMany(events Listeners) {
	for _, evt := range events.Events() {
		for _, l := range events[evt] {
			b.Off(evt, l)
		}
	}
}

// Emit calls every listener registered for event with args.
// See EmitContext.
func (b *Bus) Emit(event string, args ...any) error {
	return b.EmitContext(context.Background(), event, args...)
}

// EmitContext calls every listener registered for event with args, in
// registration order. ctx carries the parent span when tracing is enabled.
//
// The listener list is captured when EmitContext starts: listeners added or
// removed while the pass runs only affect later calls.
//
// Listeners are not isolated from each other. The first listener error stops
// the pass and is returned as a *ListenerError. A panicking listener also
// stops the pass, and the panic propagates to the caller.
func (b *Bus) EmitContext(ctx context.Context, event string, args ...any) (err error) {
	b.store.mu.RLock()
	snapshot := b.store.listeners[event]
	b.store.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil
	}

	n := len(snapshot)
	elapsed := observability.TimedOperation()
	ctx, span := b.cfg.spans.StartEmitSpan(ctx, b.id, event, n)
	observability.LogEmitStart(b.logger, event, n)

	finished := false
	defer func() {
		if finished {
			return
		}
		r := recover()
		if r != nil {
			observability.LogListenerPanic(b.logger, event, r)
		}
		b.cfg.metrics.RecordEmit(ctx, event, n, elapsed(), ErrDispatchAborted)
		b.cfg.spans.EndSpanWithError(span, ErrDispatchAborted)
		if r != nil {
			panic(r)
		}
	}()

	for i, l := range snapshot {
		if l.origin != nil {
			if !l.fired.CompareAndSwap(false, true) {
				// Already consumed by a pass running on another
				// goroutine.
				b.removeEntry(event, l)
				continue
			}
			b.removeEntry(event, l)
		}
		if lerr := l.Call(args...); lerr != nil {
			err = &ListenerError{Event: event, Index: i, Err: lerr}
			observability.LogListenerError(b.logger, event, i, lerr)
			b.cfg.spans.AddSpanEvent(ctx, "listener.failed", attribute.Int("listener.index", i))
			break
		}
	}

	finished = true
	d := elapsed()
	b.cfg.metrics.RecordEmit(ctx, event, n, d, err)
	b.cfg.spans.EndSpanWithError(span, err)
	if err == nil {
		observability.LogEmitComplete(b.logger, event, n, observability.Milliseconds(d))
	}
	return err
}

// SendTo registers all of this bus's current listeners on target and returns
// target. Listeners added to b afterwards are not sent.
func (b *Bus) SendTo(target *Bus) *Bus {
	if target == nil {
		return nil
	}
	return Send[*Bus](b.Listeners())(target)
}

// Fork returns a new bus holding a copy of b's listeners and the same
// logger, metrics and tracing settings. The two buses are independent: a
// pending Once registration fires once on each of them.
func (b *Bus) Fork() *Bus {
	b.store.mu.RLock()
	seed := b.store.listeners.rebind()
	b.store.mu.RUnlock()
	return newBus(b.cfg, seed)
}

// Merge returns a fork of b with other's listeners registered on it after
// b's own. Neither b nor other is modified. A nil other is the same as Fork.
func (b *Bus) Merge(other *Bus) *Bus {
	merged := b.Fork()
	if other != nil {
		merged.OnMany(other.Listeners())
	}
	return merged
}

// Listeners returns a deep copy of the listener table.
func (b *Bus) Listeners() Listeners {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return b.store.listeners.Clone()
}

// Events returns the names of events with at least one listener, sorted.
func (b *Bus) Events() []string {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return b.store.listeners.Events()
}

// ListenerCount returns the number of registrations for event.
func (b *Bus) ListenerCount(event string) int {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return len(b.store.listeners[event])
}
