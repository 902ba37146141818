// Package state holds observable values: a current value that can be read
// synchronously, replaced atomically, and watched for changes.
package state

import "sync"

// Cell is a mutex-guarded value with change notification. The zero value is
// not usable; create cells with New.
type Cell[T any] struct {
	mu          sync.RWMutex
	value       T
	subscribers map[int]chan T
	nextID      int
}

// New returns a cell holding initial.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{
		value:       initial,
		subscribers: make(map[int]chan T),
	}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies every subscriber. A subscriber that
// has not consumed the previous notification gets it replaced by this one,
// so slow readers always see the latest value rather than a backlog.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(v)
}

// Update replaces the value with fn(current) and notifies subscribers, all
// under one lock acquisition. It returns the new value. fn must not call
// back into the cell.
func (c *Cell[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := fn(c.value)
	c.setLocked(v)
	return v
}

func (c *Cell[T]) setLocked(v T) {
	c.value = v
	for _, ch := range c.subscribers {
		select {
		case ch <- v:
		default:
			// Drop the stale value, then deliver the new one. The write
			// lock keeps other setters from refilling the slot.
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

// Subscribe returns a channel receiving every value set after the call, and
// a function that unsubscribes and closes the channel. The channel holds at
// most one pending value.
func (c *Cell[T]) Subscribe() (<-chan T, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	ch := make(chan T, 1)
	c.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}
