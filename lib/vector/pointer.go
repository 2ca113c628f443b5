package vector

import (
	"cmp"
	"iter"
)

// PointerVector is a sequence of heap-allocated elements that owns its pointees.
// Every non-nil slot is the sole owner of its pointee: evicted pointees are
// released exactly once and copies are deep. Nil slots are allowed and keep
// their position.
//
// Thread-safety: a single PointerVector must not be mutated concurrently.
type PointerVector[E any] struct {
	vec     Vector[*E, Owned[E]]
	compare func(a, b E) int // orders pointees, nil if unordered
}

// NewPointerVector creates an empty owning vector. compare orders the pointees
// and may be nil if Sort is never called.
func NewPointerVector[E any](compare func(a, b E) int) *PointerVector[E] {
	pv := &PointerVector[E]{compare: compare}
	pv.vec.traits = Traits[*E]{
		Equal: func(a, b *E) bool { return a == b },
	}
	if compare != nil {
		pv.vec.traits.Compare = derefCompare(compare)
	}
	return pv
}

// NewOrderedPointerVector creates an empty owning vector of ordered pointees
func NewOrderedPointerVector[E cmp.Ordered]() *PointerVector[E] {
	return NewPointerVector[E](cmp.Compare[E])
}

// derefCompare lifts compare to pointers, ordering nil before everything else
func derefCompare[E any](compare func(a, b E) int) func(a, b *E) int {
	return func(a, b *E) int {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		case b == nil:
			return 1
		}
		return compare(*a, *b)
	}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Len returns the number of slots
func (pv *PointerVector[E]) Len() int { return pv.vec.Len() }

// Empty reports whether the vector has no slots
func (pv *PointerVector[E]) Empty() bool { return pv.vec.Empty() }

// Get returns the pointer at index i. The vector keeps ownership.
func (pv *PointerVector[E]) Get(i int) *E { return pv.vec.Get(i) }

// Back returns the pointer in the last slot. The vector keeps ownership.
func (pv *PointerVector[E]) Back() *E { return pv.vec.Back() }

// Cap returns the reserved number of slots
func (pv *PointerVector[E]) Cap() int { return pv.vec.Cap() }

// Reserve grows the capacity to at least n slots
func (pv *PointerVector[E]) Reserve(n int) { pv.vec.Reserve(n) }

// ContainsIndex reports whether i is a valid index
func (pv *PointerVector[E]) ContainsIndex(i int) bool { return pv.vec.ContainsIndex(i) }

// All iterates over index and pointer pairs
func (pv *PointerVector[E]) All() iter.Seq2[int, *E] { return pv.vec.All() }

// Contains reports whether p is owned by this vector (pointer identity)
func (pv *PointerVector[E]) Contains(p *E) bool { return pv.vec.Contains(p) }

// GetIndex returns the slot holding p, or -1
func (pv *PointerVector[E]) GetIndex(p *E) int { return pv.vec.GetIndex(p) }

// --------------------------------------------------------------------------
// Mutation
// --------------------------------------------------------------------------

// PushBack takes ownership of p and returns its index
func (pv *PointerVector[E]) PushBack(p *E) int { return pv.vec.PushBack(p) }

// PushBackNew takes ownership of p unless the vector already holds it and
// returns the slot of p
func (pv *PointerVector[E]) PushBackNew(p *E) int { return pv.vec.PushBackNew(p) }

// PushFront takes ownership of p and places it at index 0
func (pv *PointerVector[E]) PushFront(p *E) { pv.vec.PushFront(p) }

// Insert takes ownership of p and places it at index i
func (pv *PointerVector[E]) Insert(p *E, i int) { pv.vec.Insert(p, i) }

// Set takes ownership of p and releases the pointee it displaces
func (pv *PointerVector[E]) Set(p *E, i int) {
	old := pv.vec.Get(i)
	if old == p {
		return
	}
	pv.vec.Set(p, i)
	pv.vec.policy.Release(old)
}

// PopBack removes the last slot and hands its pointee to the caller
func (pv *PointerVector[E]) PopBack() *E { return pv.vec.PopBack() }

// Remove releases the pointee at index i and drops the slot
func (pv *PointerVector[E]) Remove(i int) { pv.vec.Remove(i) }

// Truncate releases the pointees from index n on and drops their slots
func (pv *PointerVector[E]) Truncate(n int) { pv.vec.Truncate(n) }

// Clear releases every pointee in index order and frees the storage
func (pv *PointerVector[E]) Clear() { pv.vec.Clear() }

// Swap exchanges the slots at i and j
func (pv *PointerVector[E]) Swap(i, j int) { pv.vec.Swap(i, j) }

// Reverse reverses the slot order
func (pv *PointerVector[E]) Reverse() { pv.vec.Reverse() }

// Compact drops every slot for which remove returns true, releasing its
// pointee. Surviving slots keep their relative order.
func (pv *PointerVector[E]) Compact(remove func(p *E) bool) {
	data := pv.vec.data
	kept := 0
	for _, p := range data {
		if remove(p) {
			pv.vec.policy.Release(p)
			continue
		}
		data[kept] = p
		kept++
	}
	clear(data[kept:])
	pv.vec.data = data[:kept]
}

// Move releases the current pointees and takes over those of from, which is left empty
func (pv *PointerVector[E]) Move(from *PointerVector[E]) {
	if from == pv {
		return
	}
	pv.vec.Move(&from.vec)
	pv.compare, from.compare = from.compare, nil
}

// --------------------------------------------------------------------------
// Deep copy
// --------------------------------------------------------------------------

// Clone returns a vector owning a copy of every pointee. Pointees implementing
// Cloner are copied with Clone, all others with a shallow struct copy.
func (pv *PointerVector[E]) Clone() *PointerVector[E] {
	return &PointerVector[E]{vec: *pv.vec.Clone(), compare: pv.compare}
}

// AppendCopies appends a copy of every pointee of other
func (pv *PointerVector[E]) AppendCopies(other *PointerVector[E]) {
	pv.vec.Append(&other.vec)
}

// Assign releases the current pointees and replaces them with copies of those of other
func (pv *PointerVector[E]) Assign(other *PointerVector[E]) {
	if other == pv {
		return
	}
	pv.vec.Truncate(0)
	pv.AppendCopies(other)
}

// --------------------------------------------------------------------------
// Ordering
// --------------------------------------------------------------------------

// Sort orders the slots by the pointees, nil slots first
func (pv *PointerVector[E]) Sort() {
	pv.vec.Sort()
}

// SortFunc orders the slots by pointer with a custom comparison
func (pv *PointerVector[E]) SortFunc(cmp func(a, b *E) int) {
	pv.vec.SortFunc(cmp)
}

// BinarySearch returns the largest slot whose pointee is <= *target, see Vector.BinarySearch.
// target is only compared, the vector never takes ownership of it.
func (pv *PointerVector[E]) BinarySearch(target *E) int {
	return pv.vec.BinarySearch(target)
}

// BoolBinarySearch reports whether a pointee equal to *target is in the sorted vector
func (pv *PointerVector[E]) BoolBinarySearch(target *E) bool {
	return pv.vec.BoolBinarySearch(target)
}

// WithinBounds reports whether *lo <= *e <= *hi holds for every pointee, nil slots sort first
func (pv *PointerVector[E]) WithinBounds(lo, hi *E) bool {
	return pv.vec.WithinBounds(lo, hi)
}

// ChooseNthItem returns the index of the k-th smallest pointee, see Vector.ChooseNthItem
func (pv *PointerVector[E]) ChooseNthItem(k int) int {
	return pv.vec.ChooseNthItem(k)
}
