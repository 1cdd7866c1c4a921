package eventbus

import (
	"slices"
	"sort"
	"sync/atomic"
)

// Listener is a registered callback. Identity is the pointer: Off removes a
// listener by comparing handles, never by comparing functions.
//
// A Listener may be registered on several buses, or several times on the same
// event; each registration is a distinct entry.
type Listener struct {
	fn func(args ...any) error

	// origin is set on the wrapper created by Once and points at the
	// listener it wraps, so Off(event, origin) can find the wrapper.
	origin *Listener
	fired  atomic.Bool
}

// NewListener wraps fn in a Listener handle.
func NewListener(fn func(args ...any) error) *Listener {
	return &Listener{fn: fn}
}

// Func wraps a listener that never fails.
//
// Example:
//
//	bus.On("saved", eventbus.Func(func(args ...any) {
//	    fmt.Println("saved", args[0])
//	}))
func Func(fn func(args ...any)) *Listener {
	return NewListener(func(args ...any) error {
		fn(args...)
		return nil
	})
}

// Call invokes the listener directly with args.
func (l *Listener) Call(args ...any) error {
	if l == nil || l.fn == nil {
		return nil
	}
	return l.fn(args...)
}

// matches reports whether the registered entry l answers to target. A Once
// entry answers to the listener it wraps and to any other Once entry wrapping
// the same listener.
func (l *Listener) matches(target *Listener) bool {
	if l == target {
		return true
	}
	return l.origin != nil && (l.origin == target || l.origin == target.origin)
}

// entry returns what a bus stores when l is registered on it. A Once entry
// gets a fresh wrapper so that every bus consumes its own copy; one that has
// already fired yields nil.
func (l *Listener) entry() *Listener {
	if l.origin == nil {
		return l
	}
	if l.fired.Load() {
		return nil
	}
	return &Listener{fn: l.fn, origin: l.origin}
}

// Listeners maps event names to ordered listener sequences.
type Listeners map[string][]*Listener

// Clone returns a deep copy: writing to the map or to any slice of the copy
// never reaches ls. Events without listeners are dropped.
func (ls Listeners) Clone() Listeners {
	out := make(Listeners, len(ls))
	for evt, list := range ls {
		if len(list) == 0 {
			continue
		}
		out[evt] = slices.Clone(list)
	}
	return out
}

// rebind copies ls for installation on a new bus, giving each pending Once
// registration its own wrapper and dropping those that already fired.
func (ls Listeners) rebind() Listeners {
	out := make(Listeners, len(ls))
	for evt, list := range ls {
		next := make([]*Listener, 0, len(list))
		for _, l := range list {
			if l == nil {
				continue
			}
			if e := l.entry(); e != nil {
				next = append(next, e)
			}
		}
		if len(next) > 0 {
			out[evt] = next
		}
	}
	return out
}

// Events returns the event names with at least one listener, sorted.
func (ls Listeners) Events() []string {
	names := make([]string, 0, len(ls))
	for evt, list := range ls {
		if len(list) > 0 {
			names = append(names, evt)
		}
	}
	sort.Strings(names)
	return names
}

// Target is anything listeners can be attached to.
// Bus, Emitter and Observer all implement it.
type Target interface {
	AddListener(event string, l *Listener)
}

// Send returns a function that registers every listener in events on its
// argument and returns that argument. Events are visited in sorted order and
// listeners in sequence order.
//
// Example:
//
//	wire := eventbus.Send[*eventbus.Bus](eventbus.Listeners{
//	    "created": {onCreated},
//	    "deleted": {onDeleted, audit},
//	})
//	bus := wire(eventbus.New())
func Send[T Target](events Listeners) func(T) T {
	snapshot := events.Clone()
	return func(to T) T {
		for _, evt := range snapshot.Events() {
			for _, l := range snapshot[evt] {
				to.AddListener(evt, l)
			}
		}
		return to
	}
}
