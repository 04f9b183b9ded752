package sse

import (
	"sync"
	"sync/atomic"
)

// Category identifies a delivery class in the listener registry.
type Category int

const (
	// CategoryBroadcast delivers to every active connection.
	CategoryBroadcast Category = iota
	// CategoryChannel delivers to connections whose channel identity matches.
	CategoryChannel
	// CategoryClient delivers to connections whose client identity matches.
	CategoryClient
	// CategoryBrowser delivers to connections whose browser identity matches.
	CategoryBrowser
	// CategoryBatch delivers a serialized batch to every active connection.
	CategoryBatch
)

// String returns the category name for logging and metric attributes.
func (c Category) String() string {
	switch c {
	case CategoryBroadcast:
		return "broadcast"
	case CategoryChannel:
		return "channel"
	case CategoryClient:
		return "client"
	case CategoryBrowser:
		return "browser"
	case CategoryBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// outbound is the unit handed from a publish operation to listeners.
// data/name/id describe a single event; batch holds the pre-marshaled
// items of a serialized batch; target carries the identity value for
// scoped categories.
type outbound struct {
	data   []byte
	name   string
	id     string // explicit id, empty means auto-assign per connection
	target string
	batch  [][]byte
}

// listenerFunc receives every event published to its category. Each
// listener applies its own identity filter before acting.
type listenerFunc func(ev *outbound)

// subscription is the handle returned by register. The active flag keeps a
// listener from firing after deregistration even when a publish snapshotted
// the listener set before the deregister ran.
type subscription struct {
	category Category
	fn       listenerFunc
	active   atomic.Bool
}

// registry is the hub's fan-out mechanism: a dynamic set of listeners per
// delivery category. register and deregister are safe to call while a
// publish is in progress.
type registry struct {
	mu        sync.RWMutex
	listeners map[Category][]*subscription
}

func newRegistry() *registry {
	return &registry{
		listeners: make(map[Category][]*subscription),
	}
}

// register adds a listener for the category and returns its handle.
func (r *registry) register(cat Category, fn listenerFunc) *subscription {
	s := &subscription{category: cat, fn: fn}
	s.active.Store(true)

	r.mu.Lock()
	r.listeners[cat] = append(r.listeners[cat], s)
	r.mu.Unlock()
	return s
}

// deregister removes the subscription. Safe to call more than once and
// during an in-progress publish; the listener never fires afterward.
func (r *registry) deregister(s *subscription) {
	if !s.active.CompareAndSwap(true, false) {
		return
	}

	r.mu.Lock()
	subs := r.listeners[s.category]
	for i, cur := range subs {
		if cur == s {
			r.listeners[s.category] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
}

// publish invokes every currently registered listener for the category.
// The listener set is snapshotted under the read lock and invoked outside
// it, so a listener may itself trigger deregistration (write failure
// teardown) without deadlocking.
func (r *registry) publish(cat Category, ev *outbound) {
	r.mu.RLock()
	subs := make([]*subscription, len(r.listeners[cat]))
	copy(subs, r.listeners[cat])
	r.mu.RUnlock()

	for _, s := range subs {
		if s.active.Load() {
			s.fn(ev)
		}
	}
}

// size returns the total number of registered listeners across all
// categories. Exposed through the hub as a leak-monitoring gauge.
func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, subs := range r.listeners {
		n += len(subs)
	}
	return n
}
