package testing

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/ValentinKolb/dSeq/lib/vector"
	"testing"
)

// ElementFactory creates the i-th element of a test sequence. Elements for
// different i must compare unequal.
type ElementFactory[E any] func(i int) *E

// trailer is written after a record to check that readers stop at its end
const trailer = int32(0x5EC0DE)

// RunCodecTests runs the conformance suite for an element type with delegated serialization.
func RunCodecTests[E any, PE vector.Codec[E]](t *testing.T, name string, factory ElementFactory[E], compare func(a, b E) int) {
	t.Run(name, func(t *testing.T) {
		t.Run("ClassesRoundTrip", func(t *testing.T) {
			testClassesRoundTrip[E, PE](t, factory, compare)
		})

		t.Run("PointerRoundTrip", func(t *testing.T) {
			testPointerRoundTrip[E, PE](t, factory, compare)
		})

		t.Run("SkipAlignment", func(t *testing.T) {
			testSkipAlignment[E, PE](t, factory)
		})

		t.Run("PartialSelection", func(t *testing.T) {
			testPartialSelection[E, PE](t, factory, compare)
		})

		t.Run("Truncated", func(t *testing.T) {
			testTruncated[E, PE](t, factory)
		})

		t.Run("DeepCopy", func(t *testing.T) {
			testDeepCopy(t, factory, compare)
		})
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func buildVector[E any](factory ElementFactory[E], compare func(a, b E) int, n int) *vector.Vector[E, vector.Borrowed[E]] {
	v := vector.New[E, vector.Borrowed[E]](vector.Func(nil, compare))
	for i := 0; i < n; i++ {
		v.PushBack(*factory(i))
	}
	return v
}

// buildPointers creates n slots where every third slot is nil
func buildPointers[E any](factory ElementFactory[E], compare func(a, b E) int, n int) *vector.PointerVector[E] {
	pv := vector.NewPointerVector(compare)
	for i := 0; i < n; i++ {
		if i%3 == 1 {
			pv.PushBack(nil)
			continue
		}
		pv.PushBack(factory(i))
	}
	return pv
}

func requireTrailer(t *testing.T, r *stream.Reader) {
	t.Helper()
	got, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("reading trailer failed: %v", err)
	}
	if got != trailer {
		t.Fatalf("trailer = %x, want %x (stream misaligned)", got, trailer)
	}
}

func equalPointers[E any](compare func(a, b E) int, a, b *E) bool {
	if a == nil || b == nil {
		return a == b
	}
	return compare(*a, *b) == 0
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testClassesRoundTrip[E any, PE vector.Codec[E]](t *testing.T, factory ElementFactory[E], compare func(a, b E) int) {
	for _, n := range []int{0, 1, 17} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			v := buildVector(factory, compare, n)

			var buf bytes.Buffer
			w := stream.NewWriter(&buf)
			if err := vector.SerializeClasses[E, vector.Borrowed[E], PE](v, w); err != nil {
				t.Fatalf("SerializeClasses() failed: %v", err)
			}
			_ = w.WriteInt32(trailer)

			r := stream.NewReader(&buf, false)
			decoded := vector.New[E, vector.Borrowed[E]](vector.Func(nil, compare))
			decoded.PushBack(*factory(99))
			if err := vector.DeSerializeClasses[E, vector.Borrowed[E], PE](decoded, r); err != nil {
				t.Fatalf("DeSerializeClasses() failed: %v", err)
			}
			requireTrailer(t, r)

			if decoded.Len() != n {
				t.Fatalf("Len() = %d, want %d", decoded.Len(), n)
			}
			for i := 0; i < n; i++ {
				if compare(decoded.Get(i), v.Get(i)) != 0 {
					t.Errorf("element %d = %v, want %v", i, decoded.Get(i), v.Get(i))
				}
			}
		})
	}
}

func testPointerRoundTrip[E any, PE vector.Codec[E]](t *testing.T, factory ElementFactory[E], compare func(a, b E) int) {
	for _, n := range []int{0, 1, 2, 10} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			pv := buildPointers(factory, compare, n)

			var buf bytes.Buffer
			w := stream.NewWriter(&buf)
			if err := vector.SerializePointers[E, PE](pv, w); err != nil {
				t.Fatalf("SerializePointers() failed: %v", err)
			}
			_ = w.WriteInt32(trailer)

			r := stream.NewReader(&buf, false)
			decoded := vector.NewPointerVector(compare)
			if err := vector.DeSerializePointers[E, PE](decoded, r); err != nil {
				t.Fatalf("DeSerializePointers() failed: %v", err)
			}
			requireTrailer(t, r)

			if decoded.Len() != n {
				t.Fatalf("Len() = %d, want %d", decoded.Len(), n)
			}
			for i := 0; i < n; i++ {
				if !equalPointers(compare, decoded.Get(i), pv.Get(i)) {
					t.Errorf("slot %d = %v, want %v", i, decoded.Get(i), pv.Get(i))
				}
				if pv.Get(i) != nil && decoded.Get(i) == pv.Get(i) {
					t.Errorf("slot %d aliases the source pointer", i)
				}
			}
		})
	}
}

func testSkipAlignment[E any, PE vector.Codec[E]](t *testing.T, factory ElementFactory[E]) {
	var buf bytes.Buffer
	w := stream.NewWriter(&buf)

	v := buildVector(factory, nil, 7)
	if err := vector.SerializeClasses[E, vector.Borrowed[E], PE](v, w); err != nil {
		t.Fatalf("SerializeClasses() failed: %v", err)
	}
	_ = w.WriteInt32(trailer)
	if err := vector.SerializePointers[E, PE](buildPointers(factory, nil, 7), w); err != nil {
		t.Fatalf("SerializePointers() failed: %v", err)
	}
	_ = w.WriteInt32(trailer)

	r := stream.NewReader(&buf, false)
	if err := vector.SkipDeSerializeClasses[E, PE](r); err != nil {
		t.Fatalf("SkipDeSerializeClasses() failed: %v", err)
	}
	requireTrailer(t, r)
	if err := vector.SkipPointers[E, PE](r); err != nil {
		t.Fatalf("SkipPointers() failed: %v", err)
	}
	requireTrailer(t, r)

	if r.Offset() != w.Offset() {
		t.Errorf("reader Offset() = %d, want %d", r.Offset(), w.Offset())
	}
}

func testPartialSelection[E any, PE vector.Codec[E]](t *testing.T, factory ElementFactory[E], compare func(a, b E) int) {
	src := buildPointers(factory, compare, 9)

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	if err := vector.SerializePointers[E, PE](src, w); err != nil {
		t.Fatalf("SerializePointers() failed: %v", err)
	}
	_ = w.WriteInt32(trailer)

	r := stream.NewReader(&buf, false)
	size, err := vector.DeSerializeSize(r)
	if err != nil {
		t.Fatalf("DeSerializeSize() failed: %v", err)
	}
	if size != src.Len() {
		t.Fatalf("DeSerializeSize() = %d, want %d", size, src.Len())
	}

	// keep the even slots, skip the odd ones
	picked := vector.NewPointerVector(compare)
	for i := 0; i < size; i++ {
		if i%2 == 0 {
			err = vector.DeSerializeElement[E, PE](picked, r)
		} else {
			err = vector.DeSerializeSkip[E, PE](r)
		}
		if err != nil {
			t.Fatalf("slot %d failed: %v", i, err)
		}
	}
	requireTrailer(t, r)

	if picked.Len() != (size+1)/2 {
		t.Fatalf("Len() = %d, want %d", picked.Len(), (size+1)/2)
	}
	for i := 0; i < picked.Len(); i++ {
		if !equalPointers(compare, picked.Get(i), src.Get(2*i)) {
			t.Errorf("picked slot %d = %v, want %v", i, picked.Get(i), src.Get(2*i))
		}
	}
}

func testTruncated[E any, PE vector.Codec[E]](t *testing.T, factory ElementFactory[E]) {
	var buf bytes.Buffer
	if err := vector.SerializeClasses[E, vector.Borrowed[E], PE](buildVector(factory, nil, 5), stream.NewWriter(&buf)); err != nil {
		t.Fatalf("SerializeClasses() failed: %v", err)
	}
	full := buf.Bytes()

	for _, cut := range []int{2, 4, len(full) - 1} {
		r := stream.NewReader(bytes.NewReader(full[:cut]), false)
		v := vector.New[E, vector.Borrowed[E]](vector.Traits[E]{})
		err := vector.DeSerializeClasses[E, vector.Borrowed[E], PE](v, r)
		if !errors.Is(err, stream.ErrShortRead) {
			t.Errorf("cut at %d: expected ErrShortRead, got %v", cut, err)
		}
	}
}

func testDeepCopy[E any](t *testing.T, factory ElementFactory[E], compare func(a, b E) int) {
	src := buildPointers(factory, compare, 6)
	cp := src.Clone()

	if cp.Len() != src.Len() {
		t.Fatalf("Clone().Len() = %d, want %d", cp.Len(), src.Len())
	}
	for i := 0; i < src.Len(); i++ {
		if !equalPointers(compare, cp.Get(i), src.Get(i)) {
			t.Errorf("slot %d = %v, want %v", i, cp.Get(i), src.Get(i))
		}
		if src.Get(i) != nil && cp.Get(i) == src.Get(i) {
			t.Errorf("slot %d shares its pointee with the source", i)
		}
	}

	// replacing a slot of the source must not be visible in the copy
	src.Set(factory(1000), 0)
	if !equalPointers(compare, cp.Get(0), factory(0)) {
		t.Errorf("copy changed after the source was modified")
	}
}
