package vector

import (
	"cmp"
	"fmt"
	"github.com/ValentinKolb/dSeq/lib/common"
	"iter"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	defaultCapacity = 4 // first allocation of an empty vector

	// MaxElements is the largest count accepted by the raw, legacy and classes decoders
	MaxElements = 50_000_000
)

var Logger = common.GetLogger("vector")

// --------------------------------------------------------------------------
// Core structure
// --------------------------------------------------------------------------

// Vector is an ordered, index-addressable sequence of T.
// The zero value is an empty vector without traits.
//
// Thread-safety: a single Vector must not be mutated concurrently.
type Vector[T any, P Policy[T]] struct {
	data   []T       // len(data) is the logical length, cap(data) the reserved capacity
	traits Traits[T] // immutable after construction
	policy P
}

// New creates an empty vector with the given traits
func New[T any, P Policy[T]](traits Traits[T]) *Vector[T, P] {
	return &Vector[T, P]{traits: traits}
}

// NewSized creates an empty vector with room for capacity elements
func NewSized[T any, P Policy[T]](traits Traits[T], capacity int) *Vector[T, P] {
	v := New[T, P](traits)
	v.Reserve(capacity)
	return v
}

// NewOrdered creates a borrowing vector of ordered values holding a copy of values
func NewOrdered[T cmp.Ordered](values ...T) *Vector[T, Borrowed[T]] {
	return fromValues(Ordered[T](), values)
}

// NewComparable creates a borrowing vector that supports identity search but no ordering
func NewComparable[T comparable](values ...T) *Vector[T, Borrowed[T]] {
	return fromValues(Comparable[T](), values)
}

// NewFunc creates a borrowing vector from explicit equality and comparison functions
func NewFunc[T any](equal func(a, b T) bool, compare func(a, b T) int) *Vector[T, Borrowed[T]] {
	return New[T, Borrowed[T]](Func(equal, compare))
}

func fromValues[T any](traits Traits[T], values []T) *Vector[T, Borrowed[T]] {
	v := NewSized[T, Borrowed[T]](traits, len(values))
	v.data = append(v.data, values...)
	return v
}

// Traits returns the traits the vector was built with
func (v *Vector[T, P]) Traits() Traits[T] {
	return v.traits
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Len returns the number of elements
func (v *Vector[T, P]) Len() int {
	return len(v.data)
}

// Cap returns the reserved capacity
func (v *Vector[T, P]) Cap() int {
	return cap(v.data)
}

// Empty reports whether the vector holds no elements
func (v *Vector[T, P]) Empty() bool {
	return len(v.data) == 0
}

// ContainsIndex reports whether i is a valid index
func (v *Vector[T, P]) ContainsIndex(i int) bool {
	return i >= 0 && i < len(v.data)
}

func (v *Vector[T, P]) checkIndex(i int) {
	if !v.ContainsIndex(i) {
		panic(fmt.Sprintf("vector: index %d out of range [0, %d)", i, len(v.data)))
	}
}

// Get returns the element at index i
func (v *Vector[T, P]) Get(i int) T {
	v.checkIndex(i)
	return v.data[i]
}

// At returns a pointer to the slot at index i. The pointer is invalidated
// by any operation that grows the vector.
func (v *Vector[T, P]) At(i int) *T {
	v.checkIndex(i)
	return &v.data[i]
}

// Set overwrites the element at index i. The old element is not released.
func (v *Vector[T, P]) Set(val T, i int) {
	v.checkIndex(i)
	v.data[i] = val
}

// Back returns the last element
func (v *Vector[T, P]) Back() T {
	v.checkIndex(len(v.data) - 1)
	return v.data[len(v.data)-1]
}

// PopBack removes and returns the last element. Ownership passes to the caller.
func (v *Vector[T, P]) PopBack() T {
	v.checkIndex(len(v.data) - 1)
	last := len(v.data) - 1
	val := v.data[last]
	var zero T
	v.data[last] = zero
	v.data = v.data[:last]
	return val
}

// Slice returns a view of the elements. It shares storage with the vector.
func (v *Vector[T, P]) Slice() []T {
	return v.data
}

// All iterates over index and element pairs
func (v *Vector[T, P]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, val := range v.data {
			if !yield(i, val) {
				return
			}
		}
	}
}

// --------------------------------------------------------------------------
// Growth
// --------------------------------------------------------------------------

// Reserve grows the capacity to at least n. It never shrinks and never
// allocates less than the default capacity.
func (v *Vector[T, P]) Reserve(n int) {
	if n <= cap(v.data) || n <= 0 {
		return
	}
	if n < defaultCapacity {
		n = defaultCapacity
	}
	data := make([]T, len(v.data), n)
	copy(data, v.data)
	v.data = data
}

// DoubleTheSize doubles the capacity, starting from the default capacity
func (v *Vector[T, P]) DoubleTheSize() {
	if cap(v.data) == 0 {
		v.Reserve(defaultCapacity)
		return
	}
	v.Reserve(2 * cap(v.data))
}

// InitToSize releases the current elements and fills the vector with n copies of val.
// The copies are made by the policy, the caller keeps val.
func (v *Vector[T, P]) InitToSize(n int, val T) {
	v.Truncate(0)
	v.Reserve(n)
	v.data = v.data[:n]
	for i := range v.data {
		v.data[i] = v.policy.Copy(val)
	}
}

// ResizeNoInit sets the length to n. New slots hold the zero value, a shrink
// releases the dropped elements like Truncate.
func (v *Vector[T, P]) ResizeNoInit(n int) {
	if n < len(v.data) {
		v.Truncate(n)
		return
	}
	v.Reserve(n)
	old := len(v.data)
	v.data = v.data[:n]
	clear(v.data[old:])
}

// --------------------------------------------------------------------------
// Insertion and removal
// --------------------------------------------------------------------------

// PushBack appends val and returns its index
func (v *Vector[T, P]) PushBack(val T) int {
	if len(v.data) == cap(v.data) {
		v.DoubleTheSize()
	}
	v.data = append(v.data, val)
	return len(v.data) - 1
}

// PushFront inserts val at index 0, shifting every element right
func (v *Vector[T, P]) PushFront(val T) {
	v.Insert(val, 0)
}

// Insert places val at index i, shifting [i, end) right by one.
// i may equal Len to append.
func (v *Vector[T, P]) Insert(val T, i int) {
	if i != len(v.data) {
		v.checkIndex(i)
	}
	if len(v.data) == cap(v.data) {
		v.DoubleTheSize()
	}
	var zero T
	v.data = append(v.data, zero)
	copy(v.data[i+1:], v.data[i:])
	v.data[i] = val
}

// Remove releases the element at index i and shifts [i+1, end) left by one
func (v *Vector[T, P]) Remove(i int) {
	v.checkIndex(i)
	v.policy.Release(v.data[i])
	copy(v.data[i:], v.data[i+1:])
	last := len(v.data) - 1
	var zero T
	v.data[last] = zero
	v.data = v.data[:last]
}

// Truncate releases and drops every element from index n on. It never grows the vector.
func (v *Vector[T, P]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(v.data) {
		return
	}
	for i := n; i < len(v.data); i++ {
		v.policy.Release(v.data[i])
	}
	clear(v.data[n:])
	v.data = v.data[:n]
}

// Clear releases every element in index order and frees the storage
func (v *Vector[T, P]) Clear() {
	for _, val := range v.data {
		v.policy.Release(val)
	}
	v.data = nil
}

// Append adds a copy of every element of other, made by the policy.
// other may be v itself.
func (v *Vector[T, P]) Append(other *Vector[T, P]) {
	if other == nil {
		return
	}
	n := len(other.data)
	v.Reserve(len(v.data) + n)
	for i := 0; i < n; i++ {
		v.data = append(v.data, v.policy.Copy(other.data[i]))
	}
}

// Clone returns a vector with the same traits and a copy of every element, made by the policy
func (v *Vector[T, P]) Clone() *Vector[T, P] {
	c := NewSized[T, P](v.traits, len(v.data))
	c.Append(v)
	return c
}

// Move releases the current content and takes over the storage and traits of from.
// from is left empty and without traits, it no longer owns the transferred elements.
func (v *Vector[T, P]) Move(from *Vector[T, P]) {
	if from == v {
		return
	}
	v.Clear()
	v.data, v.traits = from.data, from.traits
	from.data, from.traits = nil, Traits[T]{}
}

// --------------------------------------------------------------------------
// Identity search
// --------------------------------------------------------------------------

// GetIndex returns the index of the first element equal to val, or -1.
// Precondition: the Equal trait is installed, without it nothing is found.
func (v *Vector[T, P]) GetIndex(val T) int {
	if v.traits.Equal == nil {
		return -1
	}
	for i := range v.data {
		if v.traits.Equal(val, v.data[i]) {
			return i
		}
	}
	return -1
}

// Contains reports whether an element equal to val is present (see GetIndex)
func (v *Vector[T, P]) Contains(val T) bool {
	return v.GetIndex(val) != -1
}

// PushBackNew appends val unless an equal element is present and returns the
// index of the existing or appended element.
func (v *Vector[T, P]) PushBackNew(val T) int {
	if i := v.GetIndex(val); i >= 0 {
		return i
	}
	return v.PushBack(val)
}

// Equal reports whether both vectors hold equal elements in the same order
func (v *Vector[T, P]) Equal(other *Vector[T, P]) bool {
	if len(v.data) != len(other.data) {
		return false
	}
	for i := range v.data {
		if !v.same(v.data[i], other.data[i]) {
			return false
		}
	}
	return true
}

// same compares with Equal, falling back to Compare
func (v *Vector[T, P]) same(a, b T) bool {
	switch {
	case v.traits.Equal != nil:
		return v.traits.Equal(a, b)
	case v.traits.Compare != nil:
		return v.traits.Compare(a, b) == 0
	}
	panic("vector: no Equal or Compare trait installed")
}
