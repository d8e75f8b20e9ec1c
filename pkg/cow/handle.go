package cow

import "sync/atomic"

// handle is a reference-counted owner of one storage buffer. The holder
// count is the copy-on-write signal: a writer may mutate the buffer in place
// only while the count is exactly 1. Capturing a snapshot bumps the count,
// which forces every later writer onto the copy-and-swap path, so a buffer
// that has ever been published stays immutable for the rest of its life.
//
// A nil *handle is the canonical empty sequence.
type handle[T any] struct {
	refs  atomic.Int64
	elems []T
}

// newHandle wraps elems in a handle owned by a single holder.
func newHandle[T any](elems []T) *handle[T] {
	h := &handle[T]{elems: elems}
	h.refs.Store(1)
	return h
}

// retain registers one more holder and returns h for chaining.
// Safe on a nil handle.
func (h *handle[T]) retain() *handle[T] {
	if h != nil {
		h.refs.Add(1)
	}
	return h
}

// release drops one holder. The buffer itself is reclaimed by the garbage
// collector once the last reference is gone; the count only drives the
// in-place-vs-copy decision. Safe on a nil handle.
func (h *handle[T]) release() {
	if h != nil {
		h.refs.Add(-1)
	}
}

// unique reports whether the caller is the only holder. The caller must
// hold the container lock so no concurrent capture can race the check:
// captures happen under the same lock, and outstanding holders can only
// decrement the count.
func (h *handle[T]) unique() bool {
	return h != nil && h.refs.Load() == 1
}

// slice returns the underlying buffer, nil for the empty handle.
func (h *handle[T]) slice() []T {
	if h == nil {
		return nil
	}
	return h.elems
}

// size returns the element count, 0 for the empty handle.
func (h *handle[T]) size() int {
	if h == nil {
		return 0
	}
	return len(h.elems)
}
