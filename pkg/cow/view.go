package cow

import (
	"fmt"
	"iter"
)

// View is an indexable, sized read-only snapshot of a Vector. It is bound
// to the storage captured at creation time and never observes later
// mutations of the source. The zero value is an empty view.
//
// A view pins its snapshot until Close is called; an unclosed view keeps
// forcing writers of the source vector onto the copy path, which is safe
// but costs copies.
type View[T any] struct {
	snap *handle[T]
}

// ReadOnlyCopy captures the current contents as a View. On an empty vector
// the view simply reports size 0; it is never an error.
func (v *Vector[T]) ReadOnlyCopy() View[T] {
	return View[T]{snap: v.capture()}
}

// Len returns the snapshot's element count.
func (s View[T]) Len() int {
	return s.snap.size()
}

// Empty reports whether the snapshot has no elements.
func (s View[T]) Empty() bool {
	return s.snap.size() == 0
}

// At returns the element at index i, or ErrOutOfRange when i is not in
// [0, Len()).
func (s View[T]) At(i int) (T, error) {
	if i < 0 || i >= s.snap.size() {
		var zero T
		return zero, fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, i, s.snap.size())
	}
	return s.snap.elems[i], nil
}

// Get returns the element at index i without bounds checking beyond the
// panic of out-of-range slice access.
func (s View[T]) Get(i int) T {
	return s.snap.slice()[i]
}

// Front returns the first element. Panics on an empty view.
func (s View[T]) Front() T {
	return s.snap.slice()[0]
}

// Back returns the last element. Panics on an empty view.
func (s View[T]) Back() T {
	elems := s.snap.slice()
	return elems[len(elems)-1]
}

// Data returns the snapshot's underlying buffer. The buffer is shared with
// the snapshot and possibly the live vector; the caller must not modify it.
func (s View[T]) Data() []T {
	return s.snap.slice()
}

// All returns a forward index/element range-func over the snapshot.
func (s View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, elem := range s.snap.slice() {
			if !yield(i, elem) {
				return
			}
		}
	}
}

// Backward returns a reverse index/element range-func over the snapshot.
func (s View[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		elems := s.snap.slice()
		for i := len(elems) - 1; i >= 0; i-- {
			if !yield(i, elems[i]) {
				return
			}
		}
	}
}

// Close releases the captured snapshot, letting the source vector mutate
// in place again once no other holder remains. The view reads as empty
// afterwards. Idempotent.
func (s *View[T]) Close() {
	if s.snap == nil {
		return
	}
	s.snap.release()
	s.snap = nil
}
