package vector

import "cmp"

// Traits bundles the element capabilities a container was built with.
// Either function may be nil, operations that need a missing one either
// report "not found" (Equal) or panic (Compare).
type Traits[T any] struct {
	Equal   func(a, b T) bool // identity search
	Compare func(a, b T) int  // three-way ordering, negative if a < b
}

// Ordered returns equality and ordering for any cmp.Ordered type
func Ordered[T cmp.Ordered]() Traits[T] {
	return Traits[T]{
		Equal:   func(a, b T) bool { return a == b },
		Compare: cmp.Compare[T],
	}
}

// Comparable returns equality only
func Comparable[T comparable]() Traits[T] {
	return Traits[T]{
		Equal: func(a, b T) bool { return a == b },
	}
}

// Func builds traits from the given functions
func Func[T any](equal func(a, b T) bool, compare func(a, b T) int) Traits[T] {
	return Traits[T]{Equal: equal, Compare: compare}
}
