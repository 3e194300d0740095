package basiclogger

import "sync"

// buffer is an ordered, mutex-guarded sequence of pending items
type buffer[T any] struct {
	mu    sync.Mutex
	items []T
}

// push appends an item, preserving insertion order
func (b *buffer[T]) push(item T) {
	b.mu.Lock()
	b.items = append(b.items, item)
	b.mu.Unlock()
}

// drain swaps out the pending items and leaves the buffer empty
func (b *buffer[T]) drain() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return nil
	}
	items := b.items
	b.items = nil
	return items
}

// len returns the number of pending items
func (b *buffer[T]) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
