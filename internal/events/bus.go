package events

import "sync"

// Listener handles one event. Listeners run synchronously on the goroutine
// that emitted the event, and several checks emit concurrently, so a
// listener must be safe for concurrent use.
type Listener func(Event)

// Bus dispatches events to the listeners registered for their name.
// The zero value is ready to use.
type Bus struct {
	mu        sync.RWMutex
	listeners map[Name][]Listener
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[Name][]Listener)}
}

// On registers l for events named name.
func (b *Bus) On(name Name, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listeners == nil {
		b.listeners = make(map[Name][]Listener)
	}
	b.listeners[name] = append(b.listeners[name], l)
}

// Emit calls every listener registered for e's name, in registration order.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	ls := b.listeners[e.EventName()]
	b.mu.RUnlock()

	for _, l := range ls {
		l(e)
	}
}
