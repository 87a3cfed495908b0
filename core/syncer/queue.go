package syncer

import "sync/atomic"

// Queue hands out the items of a fixed slice exactly once each.
// Next is safe for concurrent use; the slice itself is never mutated.
type Queue[T any] struct {
	items  []T
	cursor atomic.Int64
}

// NewQueue creates a queue over items.
func NewQueue[T any](items []T) *Queue[T] {
	return &Queue[T]{items: items}
}

// Next returns the next unclaimed item, or false once the queue is drained.
func (q *Queue[T]) Next() (T, bool) {
	i := q.cursor.Add(1) - 1
	if i >= int64(len(q.items)) {
		var zero T
		return zero, false
	}
	return q.items[i], true
}

// Len returns the total number of items, claimed or not.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Remaining returns how many items are still unclaimed.
func (q *Queue[T]) Remaining() int {
	claimed := q.cursor.Load()
	if claimed >= int64(len(q.items)) {
		return 0
	}
	return len(q.items) - int(claimed)
}
