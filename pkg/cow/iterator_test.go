package cow

import (
	"slices"
	"testing"
)

func TestIteratorTraversal(t *testing.T) {
	v := newVector(1, 2, 3)

	var got []int
	end := v.End()
	it := v.Begin()
	defer it.Close()
	for ; !it.Equal(end); it.Next() {
		got = append(got, it.Value())
	}
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("traversal = %v, want [1 2 3]", got)
	}
}

func TestIteratorBackward(t *testing.T) {
	v := newVector(1, 2, 3)

	it := v.Begin()
	defer it.Close()
	it.Next()
	it.Next()
	if it.Value() != 3 {
		t.Fatalf("Value() after two Next = %d, want 3", it.Value())
	}
	it.Prev()
	if it.Value() != 2 {
		t.Errorf("Value() after Prev = %d, want 2", it.Value())
	}
}

func TestIteratorSentinelEquality(t *testing.T) {
	v := newVector(1)
	empty := New[int]()

	// Two sentinels are equal.
	e1, e2 := v.End(), empty.End()
	if !e1.Equal(e2) {
		t.Error("End() != End()")
	}

	// Begin on an empty vector is a sentinel.
	b := empty.Begin()
	if !b.Equal(empty.End()) {
		t.Error("Begin() on empty vector != End()")
	}
	if !b.Done() {
		t.Error("Begin() on empty vector is not Done")
	}

	// A bound iterator equals the sentinel only once exhausted.
	it := v.Begin()
	defer it.Close()
	end := v.End()
	if it.Equal(end) {
		t.Error("fresh bound iterator equals sentinel")
	}
	if end.Equal(it) {
		t.Error("sentinel equals unexhausted iterator")
	}
	it.Next()
	if !it.Equal(end) {
		t.Error("exhausted iterator does not equal sentinel")
	}
	if !end.Equal(it) {
		t.Error("sentinel does not equal exhausted iterator")
	}
}

func TestIteratorBoundEquality(t *testing.T) {
	v := newVector(1, 2)

	a := v.Begin()
	defer a.Close()
	b := v.Begin()
	defer b.Close()

	if !a.Equal(b) {
		t.Error("two fresh iterators over the same snapshot are not equal")
	}
	a.Next()
	if a.Equal(b) {
		t.Error("iterators at different positions are equal")
	}
	b.Next()
	if !a.Equal(b) {
		t.Error("iterators at the same position are not equal")
	}
}

func TestIteratorSnapshotStability(t *testing.T) {
	// Scenario: mutate during traversal; the loop sees the original order,
	// the vector ends up with the new contents.
	v := newVector(1, 2)

	var seen []int
	for elem := range v.All() {
		v.Remove(func(e int) bool { return e == 2 })
		v.PushFront(2)
		seen = append(seen, elem)
	}

	if !slices.Equal(seen, []int{1, 2}) {
		t.Errorf("traversal during mutation = %v, want [1 2]", seen)
	}
	if got := contents(v); !slices.Equal(got, []int{2, 1}) {
		t.Errorf("final contents = %v, want [2 1]", got)
	}
}

func TestIteratorCloseReleasesSnapshot(t *testing.T) {
	v := newVector(1, 2)

	it := v.Begin()
	if v.Holders() != 2 {
		t.Fatalf("Holders() with open iterator = %d, want 2", v.Holders())
	}
	it.Close()
	if v.Holders() != 1 {
		t.Errorf("Holders() after Close = %d, want 1", v.Holders())
	}
	it.Close() // idempotent
	if v.Holders() != 1 {
		t.Errorf("Holders() after double Close = %d, want 1", v.Holders())
	}
}

func TestAllReleasesOnBreak(t *testing.T) {
	v := newVector(1, 2, 3)

	for range v.All() {
		break
	}
	if v.Holders() != 1 {
		t.Errorf("Holders() after broken loop = %d, want 1", v.Holders())
	}
}

func TestBackward(t *testing.T) {
	v := newVector(1, 2, 3)

	var idxs, elems []int
	for i, e := range v.Backward() {
		idxs = append(idxs, i)
		elems = append(elems, e)
	}
	if !slices.Equal(idxs, []int{2, 1, 0}) || !slices.Equal(elems, []int{3, 2, 1}) {
		t.Errorf("Backward() = %v/%v, want [2 1 0]/[3 2 1]", idxs, elems)
	}
}
