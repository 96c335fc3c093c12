package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted during frame N are
// delivered at the start of frame N+1, after SwapBuffers rotates the buffers.
// Emission and dispatch run on the simulation goroutine; the mutex only
// protects handler registration.
type Bus struct {
	mu       sync.Mutex
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer for delivery next frame.
func Emit[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.back[t] = append(b.back[t], ev)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// SwapBuffers rotates back to front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers every front-buffer event to its subscribed handlers.
func (b *Bus) DispatchAll() {
	for t, events := range b.front {
		handlers := b.handlers[t]
		for _, ev := range events {
			for _, h := range handlers {
				// Safe: Subscribe and Emit key by the same type.
				reflect.ValueOf(h).Call([]reflect.Value{reflect.ValueOf(ev)})
			}
		}
	}
}
