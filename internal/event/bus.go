// Package event implements a small generic pub/sub bus, used to notify the
// snapshot listener (and any other tick-scoped observer) after each Tick
// completes (spec.md §4.8).
package event

import (
	"reflect"
	"sync"
)

// Bus delivers events of any type to handlers subscribed for that exact
// type. Unlike the teacher's double-buffered ECS bus (events emitted in
// tick N become visible in tick N+1), this bus dispatches synchronously and
// immediately: the single serialization domain (spec.md §5) already
// guarantees no handler runs concurrently with the next Tick, so there is
// no cross-tick visibility problem to buffer against.
type Bus struct {
	mu       sync.Mutex
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]any)}
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Publish delivers event to every handler subscribed for its type,
// synchronously, in subscription order.
func Publish[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.Lock()
	handlers := append([]any(nil), b.handlers[t]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h.(func(T))(event)
	}
}
