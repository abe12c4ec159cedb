// Package history keeps a bounded, newest-first record of past analyses in the persisted store.
package history

// Capacity is the maximum number of entries kept. Older entries are dropped silently.
const Capacity = 10

// Ring is a bounded deque ordered head (newest) to tail (oldest).
type Ring[T any] struct {
	capacity int
	items    []T
}

// NewRing returns an empty ring with the given capacity. capacity < 1 is treated as 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{capacity: capacity, items: make([]T, 0, capacity)}
}

// RingFrom builds a ring from items already ordered head to tail, keeping the first capacity items.
func RingFrom[T any](capacity int, items []T) *Ring[T] {
	r := NewRing[T](capacity)
	n := min(len(items), r.capacity)
	r.items = append(r.items, items[:n]...)
	return r
}

// Push inserts v at the head and drops the tail beyond capacity.
func (r *Ring[T]) Push(v T) {
	if len(r.items) < r.capacity {
		r.items = append(r.items, v)
	}
	copy(r.items[1:], r.items[:len(r.items)-1])
	r.items[0] = v
}

// Items returns a copy of the entries, head first.
func (r *Ring[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of entries.
func (r *Ring[T]) Len() int {
	return len(r.items)
}
