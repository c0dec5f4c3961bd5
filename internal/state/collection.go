// Package state holds the client's normalized entity collections. A
// collection is a flat, ordered list of server-returned records plus the
// loading and error flags the presentation layer renders from. Collections
// never touch the network; they are fed by façade calls.
package state

import "sync"

// Collection is a keyed, ordered list of entities of one kind. All methods
// are safe for concurrent use; each mutation is atomic, so readers never
// observe a partial update.
type Collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	id      func(T) string
	loading bool
	err     string
}

// NewCollection creates a collection whose entries are identified by id.
func NewCollection[T any](id func(T) string) *Collection[T] {
	return &Collection[T]{id: id}
}

// SetAll replaces the full contents with items and clears the error flag.
func (c *Collection[T]) SetAll(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items[:0:0], items...)
	c.err = ""
}

// Items returns a copy of the current contents in insertion order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Get returns the entry with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if c.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of entries.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Add appends item, replacing any existing entry with the same id in place.
func (c *Collection[T]) Add(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.id(item)
	for i, it := range c.items {
		if c.id(it) == id {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

// UpdateOne applies fn to the entry with the given id. It reports whether
// the entry was found.
func (c *Collection[T]) UpdateOne(id string, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if c.id(it) == id {
			c.items[i] = fn(it)
			return true
		}
	}
	return false
}

// RemoveOne deletes the entry with the given id, preserving order of the
// rest. It reports whether the entry was found.
func (c *Collection[T]) RemoveOne(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if c.id(it) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// SetLoading flips the loading flag.
func (c *Collection[T]) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// Loading reports whether a fetch for this collection is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// SetError replaces the error message wholesale. An empty string clears it.
func (c *Collection[T]) SetError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = msg
}

// Err returns the current error message, empty when there is none.
func (c *Collection[T]) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Reset returns the collection to its initial empty state.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.loading = false
	c.err = ""
}
