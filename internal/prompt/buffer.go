// Package prompt provides a one-slot event buffer bridging an event that
// may fire before its consumer is ready, such as the browser install
// prompt captured before the UI mounts.
package prompt

import "sync"

// Buffer holds at most one pending event and at most one registered
// handler. Publish delivers immediately when a handler is registered and
// buffers otherwise; a later Register drains the buffered event. Each
// event is delivered at most once.
type Buffer[T any] struct {
	mu      sync.Mutex
	pending *T
	handler func(T)
}

func NewBuffer[T any]() *Buffer[T] {
	return &Buffer[T]{}
}

// Publish hands the event to the registered handler, or parks it in the
// slot. A second buffered Publish replaces the first: only the newest
// capture matters.
func (b *Buffer[T]) Publish(event T) {
	b.mu.Lock()
	handler := b.handler
	if handler == nil {
		b.pending = &event
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	handler(event)
}

// Register installs the handler and delivers any buffered event to it.
// Only one handler is held at a time; registering replaces the previous.
func (b *Buffer[T]) Register(handler func(T)) {
	b.mu.Lock()
	b.handler = handler
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()
	if pending != nil && handler != nil {
		handler(*pending)
	}
}

// Unregister removes the handler; later events buffer again. Consumers
// must call this on teardown.
func (b *Buffer[T]) Unregister() {
	b.mu.Lock()
	b.handler = nil
	b.mu.Unlock()
}
