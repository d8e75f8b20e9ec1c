package cow

import (
	"slices"
	"sync"
)

// spareCapacity is the number of extra slots reserved when a mutation is
// forced onto the copy path, to amortize repeated writes under read pressure.
const spareCapacity = 4

// Vector is a thread-safe, ordered sequence with copy-on-write snapshots.
//
// All operations are safe for concurrent use. Mutations run under the
// container lock and modify storage in place only while no snapshot is
// outstanding; otherwise they copy and swap, so captured snapshots stay
// stable. Queries and snapshot constructors hold the lock just long enough
// to capture the current storage handle.
//
// The zero value is not usable; construct with New, NewWithLocker, or
// NewFrom.
type Vector[T any] struct {
	mu     sync.Locker
	handle *handle[T]
}

// New creates an empty Vector guarded by a plain mutex.
func New[T any]() *Vector[T] {
	return &Vector[T]{mu: &sync.Mutex{}}
}

// NewWithLocker creates an empty Vector guarded by the given locker.
// This is the injection point for callers that need a different
// mutual-exclusion strategy. A nil locker falls back to a plain mutex.
func NewWithLocker[T any](l sync.Locker) *Vector[T] {
	if l == nil {
		l = &sync.Mutex{}
	}
	return &Vector[T]{mu: l}
}

// NewFrom creates a Vector sharing other's current contents. The storage
// is shared, not copied (O(1)); the first mutation of either side copies.
func NewFrom[T any](other *Vector[T]) *Vector[T] {
	return &Vector[T]{mu: &sync.Mutex{}, handle: other.capture()}
}

// capture grabs the current handle under the lock, registering the caller
// as a holder. The returned handle's buffer can never change after this:
// any concurrent writer now sees a holder count above 1 and copies instead.
func (v *Vector[T]) capture() *handle[T] {
	v.mu.Lock()
	h := v.handle.retain()
	v.mu.Unlock()
	return h
}

// replace installs h as the container's storage, dropping the container's
// hold on the previous one. Caller must hold the lock. The caller's
// reference to h, if any, is transferred to the container.
func (v *Vector[T]) replace(h *handle[T]) {
	v.handle.release()
	v.handle = h
}

// Assign replaces this vector's contents with a shared reference to other's
// current contents.
//
// The exchange is two-phase: other's handle is captured under other's lock,
// then installed under this vector's lock. The two locks are never held at
// the same time, so cross-instance assignment cannot deadlock regardless of
// order. The trade-off is weak consistency: the result reflects other's
// state at capture time, which may already be stale when the install
// completes under concurrent writers.
func (v *Vector[T]) Assign(other *Vector[T]) {
	h := other.capture()

	v.mu.Lock()
	v.replace(h)
	v.mu.Unlock()
}

// Clear empties the vector. Outstanding snapshots keep their own reference
// and are unaffected.
func (v *Vector[T]) Clear() {
	v.mu.Lock()
	v.replace(nil)
	v.mu.Unlock()
}

// PushBack appends elem. O(1) amortized while the storage is unshared;
// O(n) copy when a snapshot is outstanding.
func (v *Vector[T]) PushBack(elem T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.handle.unique() {
		v.handle.elems = append(v.handle.elems, elem)
		return
	}

	next := make([]T, 0, v.handle.size()+1+spareCapacity)
	next = append(next, v.handle.slice()...)
	next = append(next, elem)
	v.replace(newHandle(next))
}

// PushFront prepends elem. O(n) in both branches.
func (v *Vector[T]) PushFront(elem T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.handle.unique() {
		v.handle.elems = slices.Insert(v.handle.elems, 0, elem)
		return
	}

	next := make([]T, 0, v.handle.size()+1+spareCapacity)
	next = append(next, elem)
	next = append(next, v.handle.slice()...)
	v.replace(newHandle(next))
}

// EmplaceBack appends the element produced by construct. The constructor
// runs under the lock, after the copy decision: on the copy path the old
// storage is fully duplicated first, so a panicking constructor leaves the
// vector unchanged. On the in-place path a panicking constructor leaves the
// existing elements intact but offers no further guarantee.
func (v *Vector[T]) EmplaceBack(construct func() T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.handle.unique() {
		v.handle.elems = append(v.handle.elems, construct())
		return
	}

	next := make([]T, 0, v.handle.size()+1+spareCapacity)
	next = append(next, v.handle.slice()...)
	next = append(next, construct())
	v.replace(newHandle(next))
}

// Remove deletes every element matching pred, preserving the order of the
// rest, and returns the number removed. If the removal empties the vector
// the storage reverts to the canonical empty representation. If nothing
// matches, the storage is left untouched.
//
// A panicking predicate aborts mid-scan; on the in-place branch that can
// leave the storage partially compacted, while on the copy branch the
// vector is unchanged.
func (v *Vector[T]) Remove(pred func(T) bool) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.handle.size() == 0 {
		return 0
	}

	if v.handle.unique() {
		removed := 0
		kept := v.handle.elems[:0]
		for _, elem := range v.handle.elems {
			if pred(elem) {
				removed++
				continue
			}
			kept = append(kept, elem)
		}
		if len(kept) == 0 {
			v.replace(nil)
			return removed
		}
		clear(v.handle.elems[len(kept):]) // drop references in the tail
		v.handle.elems = kept
		return removed
	}

	removed := 0
	next := make([]T, 0, v.handle.size())
	for _, elem := range v.handle.elems {
		if pred(elem) {
			removed++
			continue
		}
		next = append(next, elem)
	}
	if removed == 0 {
		return 0
	}
	if len(next) == 0 {
		v.replace(nil)
		return removed
	}
	v.replace(newHandle(next))
	return removed
}

// RemoveFirst deletes the first element matching pred and reports whether
// one was removed.
func (v *Vector[T]) RemoveFirst(pred func(T) bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := slices.IndexFunc(v.handle.slice(), pred)
	if idx < 0 {
		return false
	}
	v.removeAt(idx)
	return true
}

// RemoveLast deletes the last element matching pred and reports whether
// one was removed.
func (v *Vector[T]) RemoveLast(pred func(T) bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	elems := v.handle.slice()
	for i := len(elems) - 1; i >= 0; i-- {
		if pred(elems[i]) {
			v.removeAt(i)
			return true
		}
	}
	return false
}

// removeAt erases the element at index i under the same sole-holder vs.
// shared policy as the bulk operations. Caller must hold the lock and
// guarantee i is in range.
func (v *Vector[T]) removeAt(i int) {
	if v.handle.size() == 1 {
		v.replace(nil)
		return
	}

	if v.handle.unique() {
		v.handle.elems = slices.Delete(v.handle.elems, i, i+1)
		return
	}

	old := v.handle.elems
	next := make([]T, 0, len(old)-1)
	next = append(next, old[:i]...)
	next = append(next, old[i+1:]...)
	v.replace(newHandle(next))
}

// Exists reports whether any element matched pred in the snapshot captured
// at call time. Mutations that start after the capture cannot change the
// result.
func (v *Vector[T]) Exists(pred func(T) bool) bool {
	snap := v.capture()
	defer snap.release()

	for _, elem := range snap.slice() {
		if pred(elem) {
			return true
		}
	}
	return false
}

// FindFirst returns the first element matching pred in the snapshot
// captured at call time, or def if none matches.
func (v *Vector[T]) FindFirst(pred func(T) bool, def T) T {
	snap := v.capture()
	defer snap.release()

	for _, elem := range snap.slice() {
		if pred(elem) {
			return elem
		}
	}
	return def
}

// FindLast returns the last element matching pred in the snapshot captured
// at call time, or def if none matches.
func (v *Vector[T]) FindLast(pred func(T) bool, def T) T {
	snap := v.capture()
	defer snap.release()

	elems := snap.slice()
	for i := len(elems) - 1; i >= 0; i-- {
		if pred(elems[i]) {
			return elems[i]
		}
	}
	return def
}

// Len returns the current element count.
func (v *Vector[T]) Len() int {
	v.mu.Lock()
	n := v.handle.size()
	v.mu.Unlock()
	return n
}

// Holders returns the holder count of the current storage: 0 when empty,
// 1 when this vector is the sole holder, more when snapshots or sibling
// vectors share it. A count above 1 means the next mutation will copy.
func (v *Vector[T]) Holders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.handle == nil {
		return 0
	}
	return int(v.handle.refs.Load())
}

// Update applies fn to the storage under the lock. Unlike the Locker/Data
// escape hatch, Update never leaks the lock: it forces sole ownership first
// (copying if a snapshot is outstanding), hands fn a slice it may grow,
// shrink, or reorder freely, and restores the canonical empty representation
// if fn leaves the storage empty.
func (v *Vector[T]) Update(fn func(elems *[]T)) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.handle.unique() {
		v.replace(newHandle(slices.Clone(v.handle.slice())))
	}
	fn(&v.handle.elems)
	if len(v.handle.elems) == 0 {
		v.replace(nil)
	}
}

// Locker exposes the vector's mutual-exclusion primitive for use with Data.
func (v *Vector[T]) Locker() sync.Locker {
	return v.mu
}

// Data returns the live storage for direct access, lazily allocating empty
// storage if none exists.
//
// Contract: the caller must hold Locker() for the entire duration of any
// access through the returned pointer. This is not checked at runtime;
// violating it is a data race. Direct writes also bypass the copy-on-write
// policy, so they can be observed by snapshots captured earlier. Prefer
// Update unless a legacy bulk-mutation pattern requires the raw storage.
func (v *Vector[T]) Data() *[]T {
	if v.handle == nil {
		v.handle = newHandle[T](nil)
	}
	return &v.handle.elems
}
