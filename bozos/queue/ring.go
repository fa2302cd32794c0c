// Package queue provides the fixed-capacity FIFO used by the display and
// sound command queues.
//
// A Ring has exactly one producer and one consumer, both running on the
// tick loop, so it carries no locking.
package queue

// Ring is a bounded circular buffer.
type Ring[T any] struct {
	slots []T
	r     int
	n     int
}

// New returns an empty ring holding at most capacity elements.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{slots: make([]T, capacity)}
}

func (q *Ring[T]) Len() int    { return q.n }
func (q *Ring[T]) Cap() int    { return len(q.slots) }
func (q *Ring[T]) Free() int   { return len(q.slots) - q.n }
func (q *Ring[T]) Empty() bool { return q.n == 0 }
func (q *Ring[T]) Full() bool  { return q.n == len(q.slots) }

// Push appends v. It reports false, leaving the ring unchanged, when full.
func (q *Ring[T]) Push(v T) bool {
	if q.n == len(q.slots) {
		return false
	}
	q.slots[(q.r+q.n)%len(q.slots)] = v
	q.n++
	return true
}

// PushAll appends every element of vs, or none of them if they don't fit.
func (q *Ring[T]) PushAll(vs ...T) bool {
	if len(vs) > q.Free() {
		return false
	}
	for _, v := range vs {
		q.Push(v)
	}
	return true
}

// Pop removes and returns the oldest element.
func (q *Ring[T]) Pop() (T, bool) {
	var zero T
	if q.n == 0 {
		return zero, false
	}
	v := q.slots[q.r]
	q.slots[q.r] = zero
	q.r = (q.r + 1) % len(q.slots)
	q.n--
	return v, true
}

// Peek returns the oldest element without removing it.
func (q *Ring[T]) Peek() (T, bool) {
	if q.n == 0 {
		var zero T
		return zero, false
	}
	return q.slots[q.r], true
}

// Clear drops every queued element.
func (q *Ring[T]) Clear() {
	var zero T
	for i := range q.slots {
		q.slots[i] = zero
	}
	q.r, q.n = 0, 0
}
