package vector

import "slices"

// --------------------------------------------------------------------------
// Reordering
// --------------------------------------------------------------------------

// Reverse reverses the element order in place
func (v *Vector[T, P]) Reverse() {
	slices.Reverse(v.data)
}

// Swap exchanges the elements at i and j
func (v *Vector[T, P]) Swap(i, j int) {
	v.checkIndex(i)
	v.checkIndex(j)
	v.data[i], v.data[j] = v.data[j], v.data[i]
}

func (v *Vector[T, P]) compare() func(a, b T) int {
	if v.traits.Compare == nil {
		panic("vector: no Compare trait installed")
	}
	return v.traits.Compare
}

// Sort sorts ascending with the Compare trait
func (v *Vector[T, P]) Sort() {
	slices.SortFunc(v.data, v.compare())
}

// SortFunc sorts with a custom three-way comparison
func (v *Vector[T, P]) SortFunc(cmp func(a, b T) int) {
	slices.SortFunc(v.data, cmp)
}

// --------------------------------------------------------------------------
// Searching sorted vectors
// --------------------------------------------------------------------------

// BinarySearch returns the largest index i with data[i] <= target, or 0 if
// every element is greater. The vector must be sorted ascending.
func (v *Vector[T, P]) BinarySearch(target T) int {
	cmp := v.compare()
	bottom, top := 0, len(v.data)
	for top-bottom > 1 {
		middle := (bottom + top) / 2
		if cmp(v.data[middle], target) > 0 {
			top = middle
		} else {
			bottom = middle
		}
	}
	return bottom
}

// BoolBinarySearch reports whether target is in the sorted vector
func (v *Vector[T, P]) BoolBinarySearch(target T) bool {
	i := v.BinarySearch(target)
	if i >= len(v.data) {
		return false
	}
	return v.compare()(v.data[i], target) == 0
}

// CompactSorted drops consecutive duplicates of a sorted vector, keeping the
// first element of every run. Dropped duplicates are not released.
func (v *Vector[T, P]) CompactSorted() {
	if len(v.data) == 0 {
		return
	}
	last := 0
	for i := 1; i < len(v.data); i++ {
		if !v.same(v.data[last], v.data[i]) {
			last++
			v.data[last] = v.data[i]
		}
	}
	clear(v.data[last+1:])
	v.data = v.data[:last+1]
}

// WithinBounds reports whether lo <= e <= hi holds for every element
func (v *Vector[T, P]) WithinBounds(lo, hi T) bool {
	cmp := v.compare()
	for _, e := range v.data {
		if cmp(e, lo) < 0 || cmp(hi, e) < 0 {
			return false
		}
	}
	return true
}
