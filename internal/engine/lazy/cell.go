// Package lazy provides a memoized single-value computation that can be cleared
// and recomputed.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Cell computes a value at most once until it is cleared.
//
// A computed value is read without locking. A miss serializes on a per-cell
// mutex so concurrent callers on an empty cell share one producer call.
// A Clear that races with an in-flight computation may be overtaken by it.
type Cell[T any] struct {
	produce func() (T, error)
	mu      sync.Mutex
	value   atomic.Pointer[T]
}

// New creates an empty cell backed by produce.
func New[T any](produce func() (T, error)) *Cell[T] {
	return &Cell[T]{produce: produce}
}

// Of creates a cell that always produces v.
func Of[T any](v T) *Cell[T] {
	return New(func() (T, error) { return v, nil })
}

// Get returns the cached value, computing it first if the cell is empty.
// A producer error is returned as-is and leaves the cell empty.
func (c *Cell[T]) Get() (T, error) {
	if v := c.value.Load(); v != nil {
		return *v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v := c.value.Load(); v != nil {
		return *v, nil
	}

	v, err := c.produce()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value.Store(&v)
	return v, nil
}

// Clear drops the cached value. The producer is kept for the next Get.
func (c *Cell[T]) Clear() {
	c.value.Store(nil)
}

// Computed reports whether a value is currently cached.
func (c *Cell[T]) Computed() bool {
	return c.value.Load() != nil
}
