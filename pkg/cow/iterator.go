package cow

import "iter"

// Iterator is a cursor over one captured snapshot. It is either bound
// (holding a snapshot, a position, and the captured end) or a sentinel
// (holding nothing). Begin yields a bound iterator on non-empty vectors;
// End and the zero value are sentinels. There is no transition from
// sentinel back to bound.
//
// A bound iterator pins its snapshot until Close is called; mutations of
// the source vector after Begin never affect an in-flight traversal. For
// plain forward loops prefer Vector.All, which releases the snapshot
// automatically when the loop ends.
type Iterator[T any] struct {
	snap *handle[T]
	pos  int
	end  int
}

// Begin captures the current contents and returns a cursor positioned at
// the first element. On an empty vector it returns a sentinel. Call Close
// when done to release the snapshot.
func (v *Vector[T]) Begin() Iterator[T] {
	snap := v.capture()
	if snap == nil {
		return Iterator[T]{}
	}
	return Iterator[T]{snap: snap, end: snap.size()}
}

// End returns the past-the-end sentinel.
func (v *Vector[T]) End() Iterator[T] {
	return Iterator[T]{}
}

// Next advances the cursor one position.
func (it *Iterator[T]) Next() {
	it.pos++
}

// Prev retreats the cursor one position.
func (it *Iterator[T]) Prev() {
	it.pos--
}

// Value returns the element at the cursor. It panics on a sentinel or on a
// cursor outside the captured range, mirroring out-of-range slice access.
func (it *Iterator[T]) Value() T {
	return it.snap.elems[it.pos]
}

// Done reports whether the cursor has reached the captured end. A sentinel
// is always done.
func (it *Iterator[T]) Done() bool {
	return it.snap == nil || it.pos >= it.end
}

// Equal reports iterator equality: two sentinels are equal, a bound
// iterator equals a sentinel exactly when its cursor has reached the
// captured end, and two bound iterators are equal when they share a
// snapshot and a cursor position.
func (it *Iterator[T]) Equal(other Iterator[T]) bool {
	if it.snap == nil {
		if other.snap == nil {
			return true
		}
		return other.pos == other.end
	}
	if other.snap == nil {
		return it.pos == it.end
	}
	return it.snap == other.snap && it.pos == other.pos
}

// Close releases the captured snapshot and turns the iterator into a
// sentinel. It is idempotent and a no-op on sentinels.
func (it *Iterator[T]) Close() {
	if it.snap == nil {
		return
	}
	it.snap.release()
	it.snap = nil
}

// All returns a forward range-func over a snapshot captured when iteration
// starts. The snapshot is released when the loop finishes, including early
// break. Mutating the vector from inside the loop is allowed and does not
// affect the in-progress traversal.
func (v *Vector[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		snap := v.capture()
		defer snap.release()

		for _, elem := range snap.slice() {
			if !yield(elem) {
				return
			}
		}
	}
}

// Backward returns a reverse index/element range-func over a snapshot
// captured when iteration starts, released when the loop finishes.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		snap := v.capture()
		defer snap.release()

		elems := snap.slice()
		for i := len(elems) - 1; i >= 0; i-- {
			if !yield(i, elems[i]) {
				return
			}
		}
	}
}
