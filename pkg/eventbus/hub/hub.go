// Package hub keeps a set of named buses so independent parts of an
// application can share a bus by name instead of passing it around.
package hub

import (
	"sort"
	"sync"

	"github.com/randalmurphal/eventbus/pkg/eventbus"
	"github.com/randalmurphal/eventbus/pkg/eventbus/config"
)

// Hub is a thread-safe set of buses indexed by name.
type Hub struct {
	mu    sync.RWMutex
	buses map[string]*eventbus.Bus
	opts  []eventbus.Option
}

// New creates an empty hub. opts are applied to every bus the hub creates,
// before the bus name.
func New(opts ...eventbus.Option) *Hub {
	return &Hub{
		buses: make(map[string]*eventbus.Bus),
		opts:  opts,
	}
}

// FromConfig creates a hub and one bus per entry of the "buses" section.
//
//	buses:
//	  orders:
//	    metrics: true
//	  audit:
//	    log_level: info
func FromConfig(cfg config.Config, opts ...eventbus.Option) *Hub {
	h := New(opts...)
	buses := cfg.Sub("buses")
	for _, name := range buses.Keys() {
		h.create(name, eventbus.OptionsFromConfig(buses.Sub(name))...)
	}
	return h
}

// Bus returns the bus called name, creating it if needed. Creation is
// atomic: concurrent callers with the same name get the same bus.
func (h *Hub) Bus(name string) *eventbus.Bus {
	h.mu.RLock()
	b, ok := h.buses[name]
	h.mu.RUnlock()
	if ok {
		return b
	}
	return h.create(name)
}

func (h *Hub) create(name string, extra ...eventbus.Option) *eventbus.Bus {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Double-check after acquiring write lock
	if b, ok := h.buses[name]; ok {
		return b
	}

	opts := make([]eventbus.Option, 0, len(h.opts)+len(extra)+1)
	opts = append(opts, h.opts...)
	opts = append(opts, eventbus.WithName(name))
	opts = append(opts, extra...)
	b := eventbus.New(opts...)
	h.buses[name] = b
	return b
}

// Get returns the bus called name and whether it exists.
func (h *Hub) Get(name string) (*eventbus.Bus, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, ok := h.buses[name]
	return b, ok
}

// Has returns true if a bus called name exists.
func (h *Hub) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Register stores b under name, replacing any bus already there.
// A nil bus is ignored.
func (h *Hub) Register(name string, b *eventbus.Bus) {
	if b == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buses[name] = b
}

// Remove drops the bus called name from the hub and returns it.
// The bus itself keeps working for anyone still holding it.
func (h *Hub) Remove(name string) (*eventbus.Bus, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.buses[name]
	delete(h.buses, name)
	return b, ok
}

// Names returns the bus names, sorted.
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.buses))
	for name := range h.buses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of buses.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.buses)
}

// Range calls fn for every bus in name order until fn returns false.
//
// Range iterates over a snapshot, so fn may call Bus, Register or Remove.
func (h *Hub) Range(fn func(name string, b *eventbus.Bus) bool) {
	h.mu.RLock()
	snapshot := make(map[string]*eventbus.Bus, len(h.buses))
	for k, v := range h.buses {
		snapshot[k] = v
	}
	h.mu.RUnlock()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !fn(name, snapshot[name]) {
			return
		}
	}
}

// Emit dispatches event on the bus called name. A missing bus is treated
// like a bus without listeners.
func (h *Hub) Emit(name, event string, args ...any) error {
	b, ok := h.Get(name)
	if !ok {
		return nil
	}
	return b.Emit(event, args...)
}

// Clear calls OffAll on every bus. The buses stay registered.
func (h *Hub) Clear() {
	h.Range(func(_ string, b *eventbus.Bus) bool {
		b.OffAll()
		return true
	})
}
