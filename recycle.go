package kizuna

import (
	"container/heap"
	"iter"
)

// NoID is the id reported by an unbound module and returned when binding fails.
const NoID = -1

// freeQueue is a min-heap of released indices. Popping always yields the
// lowest index that was freed, so recycled slots fill from the front.
type freeQueue []int

func (q freeQueue) Len() int           { return len(q) }
func (q freeQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q freeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *freeQueue) Push(x any)        { *q = append(*q, x.(int)) }
func (q *freeQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

func (q *freeQueue) push(id int) { heap.Push(q, id) }
func (q *freeQueue) pop() int    { return heap.Pop(q).(int) }

// SlotVector is a vector of optional references whose indices are handed out
// and recycled. Released indices are reused lowest first before the vector
// grows, and trailing empty slots are trimmed off the tail. Indices stay
// stable for as long as the reference stays bound.
//
// The zero value of T marks an empty slot, so T is normally a pointer or an
// interface type.
type SlotVector[T comparable] struct {
	items []T
	free  freeQueue
	count int
}

// Bind stores item in the lowest recycled index, or appends it to the tail
// when no recycled index is available, and returns that index. Binding the
// zero value is refused and returns NoID.
func (v *SlotVector[T]) Bind(item T) int {
	var zero T
	if item == zero {
		return NoID
	}
	id := v.acquire()
	v.items[id] = item
	v.count++
	return id
}

// acquire pops free indices until one that is still inside the vector and
// empty turns up. Indices past the tail were trimmed away after they were
// queued and are discarded here, which also guarantees the queue is empty
// whenever the vector grows.
func (v *SlotVector[T]) acquire() int {
	var zero T
	for len(v.free) > 0 {
		id := v.free.pop()
		if id < len(v.items) && v.items[id] == zero {
			return id
		}
	}
	v.items = append(v.items, zero)
	return len(v.items) - 1
}

// Unbind empties the slot at id and queues the index for reuse. It returns
// the reference that was stored there, and false if id is out of range or
// the slot is already empty.
func (v *SlotVector[T]) Unbind(id int) (T, bool) {
	var zero T
	if id < 0 || id >= len(v.items) {
		return zero, false
	}
	item := v.items[id]
	if item == zero {
		return zero, false
	}
	v.items[id] = zero
	v.count--
	v.free.push(id)
	for n := len(v.items); n > 0 && v.items[n-1] == zero; n = len(v.items) {
		v.items = v.items[:n-1]
	}
	return item, true
}

// At returns the reference at id, or the zero value for holes and
// out-of-range ids.
func (v *SlotVector[T]) At(id int) T {
	if id < 0 || id >= len(v.items) {
		var zero T
		return zero
	}
	return v.items[id]
}

// Len returns the length of the backing vector, holes included.
func (v *SlotVector[T]) Len() int { return len(v.items) }

// Count returns the number of bound references.
func (v *SlotVector[T]) Count() int { return v.count }

// All iterates bound references in index order, skipping holes.
func (v *SlotVector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		var zero T
		for id := 0; id < len(v.items); id++ {
			if item := v.items[id]; item != zero {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Backward iterates bound references from the highest index down, skipping
// holes. Unbinding the yielded index while iterating is safe.
func (v *SlotVector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		var zero T
		for id := len(v.items) - 1; id >= 0; id-- {
			if id >= len(v.items) {
				continue
			}
			if item := v.items[id]; item != zero {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Reset drops every reference and every queued index.
func (v *SlotVector[T]) Reset() {
	clear(v.items)
	v.items = v.items[:0]
	v.free = v.free[:0]
	v.count = 0
}
