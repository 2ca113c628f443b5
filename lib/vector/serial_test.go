package vector

import (
	"bytes"
	"errors"
	"github.com/ValentinKolb/dSeq/lib/elements"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"math"
	"slices"
	"testing"
)

type pair struct {
	A int32
	B float32
}

func rawRoundTrip[T any](t *testing.T, values []T) []T {
	t.Helper()
	src := New[T, Borrowed[T]](Traits[T]{})
	for _, v := range values {
		src.PushBack(v)
	}

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	if err := src.Serialize(w); err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	if want := int64(4 + len(values)*binarySize[T]()); w.Offset() != want {
		t.Errorf("Serialize() wrote %d bytes, want %d", w.Offset(), want)
	}

	dst := New[T, Borrowed[T]](Traits[T]{})
	if err := dst.DeSerialize(stream.NewReader(&buf, false)); err != nil {
		t.Fatalf("DeSerialize() failed: %v", err)
	}
	return dst.Slice()
}

func binarySize[T any]() int {
	size, _ := rawSize[T]()
	return size
}

func TestRawRoundTrip(t *testing.T) {
	t.Run("int32", func(t *testing.T) {
		in := []int32{1, -2, math.MaxInt32, math.MinInt32}
		if got := rawRoundTrip(t, in); !slices.Equal(got, in) {
			t.Errorf("round trip = %v, want %v", got, in)
		}
	})

	t.Run("float64", func(t *testing.T) {
		in := []float64{0.5, -1e300, math.Inf(1)}
		if got := rawRoundTrip(t, in); !slices.Equal(got, in) {
			t.Errorf("round trip = %v, want %v", got, in)
		}
	})

	t.Run("uint16", func(t *testing.T) {
		in := []uint16{0, 1, 0xFFFF}
		if got := rawRoundTrip(t, in); !slices.Equal(got, in) {
			t.Errorf("round trip = %v, want %v", got, in)
		}
	})

	t.Run("struct", func(t *testing.T) {
		in := []pair{{1, 0.5}, {-7, 3}}
		if got := rawRoundTrip(t, in); !slices.Equal(got, in) {
			t.Errorf("round trip = %v, want %v", got, in)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := rawRoundTrip[int64](t, nil); len(got) != 0 {
			t.Errorf("round trip = %v, want empty", got)
		}
	})
}

func TestRawNotFixedSize(t *testing.T) {
	v := NewOrdered(1, 2)
	var buf bytes.Buffer
	if err := v.Serialize(stream.NewWriter(&buf)); !errors.Is(err, ErrNotFixedSize) {
		t.Errorf("Serialize() of int: expected ErrNotFixedSize, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Serialize() wrote %d bytes before failing", buf.Len())
	}
}

func TestRawEndianSwap(t *testing.T) {
	values := []int32{1, 0x01020304, -2}
	foreign := stream.OppositeOrder()

	raw := foreign.AppendUint32(nil, uint32(len(values)))
	for _, v := range values {
		raw = foreign.AppendUint32(raw, uint32(v))
	}

	v := NewOrdered[int32]()
	if err := v.DeSerialize(stream.NewReader(bytes.NewReader(raw), true)); err != nil {
		t.Fatalf("DeSerialize(swap) failed: %v", err)
	}
	if !slices.Equal(v.Slice(), values) {
		t.Errorf("DeSerialize(swap) = %v, want %v", v.Slice(), values)
	}
}

func TestRawFloatSwap(t *testing.T) {
	values := []float64{1.5, -0.25}
	foreign := stream.OppositeOrder()

	raw := foreign.AppendUint32(nil, uint32(len(values)))
	for _, v := range values {
		raw = foreign.AppendUint64(raw, math.Float64bits(v))
	}

	v := NewOrdered[float64]()
	if err := v.DeSerialize(stream.NewReader(bytes.NewReader(raw), true)); err != nil {
		t.Fatalf("DeSerialize(swap) failed: %v", err)
	}
	if !slices.Equal(v.Slice(), values) {
		t.Errorf("DeSerialize(swap) = %v, want %v", v.Slice(), values)
	}
}

func TestOversizedCount(t *testing.T) {
	tests := []struct {
		name  string
		count uint32
	}{
		{"AllOnes", 0xFFFFFFFF},
		{"AboveLimit", MaxElements + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := stream.NativeOrder.AppendUint32(nil, tt.count)

			v := NewOrdered[int32](1, 2)
			err := v.DeSerialize(stream.NewReader(bytes.NewReader(raw), false))
			if !errors.Is(err, ErrTooManyElements) {
				t.Fatalf("DeSerialize(): expected ErrTooManyElements, got %v", err)
			}
			if v.Len() != 2 || v.Cap() != 4 {
				t.Errorf("rejected record changed the vector: Len() = %d, Cap() = %d", v.Len(), v.Cap())
			}

			tv := New[elements.Text, Borrowed[elements.Text]](Traits[elements.Text]{})
			if err := DeSerializeClasses(tv, stream.NewReader(bytes.NewReader(raw), false)); !errors.Is(err, ErrTooManyElements) {
				t.Errorf("DeSerializeClasses(): expected ErrTooManyElements, got %v", err)
			}
			if err := SkipDeSerialize[int32](stream.NewReader(bytes.NewReader(raw), false)); !errors.Is(err, ErrTooManyElements) {
				t.Errorf("SkipDeSerialize(): expected ErrTooManyElements, got %v", err)
			}
		})
	}
}

func TestShortIO(t *testing.T) {
	v := NewOrdered[int64](1, 2, 3)

	// count fits, payload does not
	err := v.Serialize(stream.NewWriter(stream.NewFaultyWriter(&bytes.Buffer{}, 10)))
	if !errors.Is(err, stream.ErrShortWrite) {
		t.Errorf("Serialize(): expected ErrShortWrite, got %v", err)
	}

	var buf bytes.Buffer
	if err := v.Serialize(stream.NewWriter(&buf)); err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-3]
	if err := NewOrdered[int64]().DeSerialize(stream.NewReader(bytes.NewReader(truncated), false)); !errors.Is(err, stream.ErrShortRead) {
		t.Errorf("DeSerialize(): expected ErrShortRead, got %v", err)
	}
}

func TestSkipAlignment(t *testing.T) {
	var buf bytes.Buffer
	w := stream.NewWriter(&buf)

	if err := NewOrdered[uint16](1, 2, 3).Serialize(w); err != nil {
		t.Fatal(err)
	}
	texts := New[elements.Text, Borrowed[elements.Text]](Traits[elements.Text]{})
	texts.PushBack(elements.Text{Value: "alpha"})
	texts.PushBack(elements.Text{Value: ""})
	if err := SerializeClasses(texts, w); err != nil {
		t.Fatal(err)
	}
	if err := NewOrdered(2.5).Serialize(w); err != nil {
		t.Fatal(err)
	}

	r := stream.NewReader(&buf, false)
	if err := SkipDeSerialize[uint16](r); err != nil {
		t.Fatalf("SkipDeSerialize() failed: %v", err)
	}
	if err := SkipDeSerializeClasses[elements.Text](r); err != nil {
		t.Fatalf("SkipDeSerializeClasses() failed: %v", err)
	}
	last := NewOrdered[float64]()
	if err := last.DeSerialize(r); err != nil {
		t.Fatalf("DeSerialize() after skips failed: %v", err)
	}
	if !slices.Equal(last.Slice(), []float64{2.5}) {
		t.Errorf("field after skips = %v, want [2.5]", last.Slice())
	}
}

func TestClassesFailFast(t *testing.T) {
	src := New[elements.Sample, Borrowed[elements.Sample]](Traits[elements.Sample]{})
	for i := 0; i < 3; i++ {
		src.PushBack(elements.Sample{ID: int64(i + 1), Score: float64(i), Label: elements.Text{Value: "s"}})
	}

	var buf bytes.Buffer
	if err := SerializeClasses(src, stream.NewWriter(&buf)); err != nil {
		t.Fatal(err)
	}

	// corrupt the label length of the second sample
	raw := buf.Bytes()
	sampleSize := 8 + 8 + 4 + 1
	stream.NativeOrder.PutUint32(raw[4+sampleSize+16:], 0xFFFFFFFF)

	dst := New[elements.Sample, Borrowed[elements.Sample]](Traits[elements.Sample]{})
	err := DeSerializeClasses(dst, stream.NewReader(bytes.NewReader(raw), false))
	if !errors.Is(err, stream.ErrTooLarge) {
		t.Fatalf("DeSerializeClasses(): expected ErrTooLarge, got %v", err)
	}
	if dst.Len() != 3 || dst.Get(0).ID != 1 || dst.Get(2).ID != 0 {
		t.Errorf("unexpected content after failure: %v", dst.Slice())
	}
}

func TestLegacy(t *testing.T) {
	t.Run("Raw", func(t *testing.T) {
		src := NewSized[int32, Borrowed[int32]](Ordered[int32](), 10)
		src.PushBack(7)
		src.PushBack(-7)

		var buf bytes.Buffer
		if err := src.Write(stream.NewWriter(&buf), nil); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
		raw := buf.Bytes()
		if len(raw) != 4+4+2*4 {
			t.Fatalf("Write() produced %d bytes, want 16", len(raw))
		}
		if c := stream.NativeOrder.Uint32(raw); c != 10 {
			t.Errorf("capacity field = %d, want 10", c)
		}
		if n := stream.NativeOrder.Uint32(raw[4:]); n != 2 {
			t.Errorf("count field = %d, want 2", n)
		}

		dst := NewOrdered[int32]()
		if err := dst.Read(stream.NewReader(bytes.NewReader(raw), false), nil); err != nil {
			t.Fatalf("Read() failed: %v", err)
		}
		if !dst.Equal(src) || dst.Cap() < 10 {
			t.Errorf("Read() = %v (cap %d), want %v (cap >= 10)", dst.Slice(), dst.Cap(), src.Slice())
		}

		// the legacy layout is not readable by the current decoder
		if err := NewOrdered[int32]().DeSerialize(stream.NewReader(bytes.NewReader(raw), false)); err == nil {
			t.Errorf("DeSerialize() accepted a legacy record")
		}
	})

	t.Run("Callback", func(t *testing.T) {
		src := NewOrdered("a", "bc", "")
		writeText := func(w *stream.Writer, s string) error { return w.WriteString(s) }
		readText := func(r *stream.Reader, s *string) (err error) {
			*s, err = r.ReadString()
			return err
		}

		var buf bytes.Buffer
		if err := src.Write(stream.NewWriter(&buf), writeText); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
		dst := NewOrdered[string]()
		if err := dst.Read(stream.NewReader(&buf, false), readText); err != nil {
			t.Fatalf("Read() failed: %v", err)
		}
		if !dst.Equal(src) {
			t.Errorf("Read() = %v, want %v", dst.Slice(), src.Slice())
		}
	})

	t.Run("Swap", func(t *testing.T) {
		foreign := stream.OppositeOrder()
		raw := foreign.AppendUint32(nil, 4)
		raw = foreign.AppendUint32(raw, 1)
		raw = foreign.AppendUint16(raw, 0x0102)

		dst := NewOrdered[uint16]()
		if err := dst.Read(stream.NewReader(bytes.NewReader(raw), true), nil); err != nil {
			t.Fatalf("Read(swap) failed: %v", err)
		}
		if !slices.Equal(dst.Slice(), []uint16{0x0102}) {
			t.Errorf("Read(swap) = %v", dst.Slice())
		}
	})
}
