package vector

// --------------------------------------------------------------------------
// Ownership policies
// --------------------------------------------------------------------------

// Policy decides what happens to an element that is evicted from a container
// (Remove, Truncate, Clear and Move) and how an element is duplicated
// (Clone, Append and InitToSize).
type Policy[T any] interface {
	Release(v T)
	Copy(v T) T
}

// Borrowed is the policy of a container that does not own its elements
type Borrowed[T any] struct{}

// Release does nothing
func (Borrowed[T]) Release(T) {}

// Copy returns v unchanged
func (Borrowed[T]) Copy(v T) T { return v }

// Owned is the policy of a container that owns the pointees of its elements.
// Nil slots are skipped.
type Owned[E any] struct{}

// Release calls Release on the pointee if it implements Releaser
func (Owned[E]) Release(p *E) {
	if p == nil {
		return
	}
	if r, ok := any(p).(Releaser); ok {
		r.Release()
	}
}

// Copy returns a new pointee equal to *p so that no two slots share one
func (Owned[E]) Copy(p *E) *E { return clonePointee(p) }

// Releaser is implemented by pointees that hold resources beyond their memory
type Releaser interface {
	Release()
}

// Cloner is implemented by pointees that need more than a shallow struct copy
// when an owning vector is deep copied.
type Cloner[E any] interface {
	Clone() *E
}

// clonePointee returns a new pointee equal to *p, or nil for a nil slot
func clonePointee[E any](p *E) *E {
	if p == nil {
		return nil
	}
	if c, ok := any(p).(Cloner[E]); ok {
		return c.Clone()
	}
	cp := *p
	return &cp
}
