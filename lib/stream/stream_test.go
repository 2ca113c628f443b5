package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// TestTypedRoundTrip writes one field of every type and reads them back
func TestTypedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	steps := []func() error{
		func() error { return w.WriteInt8(-7) },
		func() error { return w.WriteUint8(200) },
		func() error { return w.WriteUint16(0xBEEF) },
		func() error { return w.WriteInt32(-123456) },
		func() error { return w.WriteUint32(0xDEADBEEF) },
		func() error { return w.WriteInt64(math.MinInt64) },
		func() error { return w.WriteUint64(math.MaxUint64 - 1) },
		func() error { return w.WriteFloat32(3.25) },
		func() error { return w.WriteFloat64(-0.125) },
		func() error { return w.WriteString("hello") },
		func() error { return w.WriteBytes(nil) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("write step %d failed: %v", i, err)
		}
	}

	wantSize := int64(1 + 1 + 2 + 4 + 4 + 8 + 8 + 4 + 8 + 4 + 5 + 4)
	if w.Offset() != wantSize {
		t.Fatalf("Offset() = %d, want %d", w.Offset(), wantSize)
	}

	r := NewReader(&buf, false)
	if v, err := r.ReadInt8(); err != nil || v != -7 {
		t.Errorf("ReadInt8() = %d, %v, want -7", v, err)
	}
	if v, err := r.ReadUint8(); err != nil || v != 200 {
		t.Errorf("ReadUint8() = %d, %v, want 200", v, err)
	}
	if v, err := r.ReadUint16(); err != nil || v != 0xBEEF {
		t.Errorf("ReadUint16() = %x, %v, want beef", v, err)
	}
	if v, err := r.ReadInt32(); err != nil || v != -123456 {
		t.Errorf("ReadInt32() = %d, %v, want -123456", v, err)
	}
	if v, err := r.ReadUint32(); err != nil || v != 0xDEADBEEF {
		t.Errorf("ReadUint32() = %x, %v, want deadbeef", v, err)
	}
	if v, err := r.ReadInt64(); err != nil || v != math.MinInt64 {
		t.Errorf("ReadInt64() = %d, %v, want %d", v, err, int64(math.MinInt64))
	}
	if v, err := r.ReadUint64(); err != nil || v != math.MaxUint64-1 {
		t.Errorf("ReadUint64() = %d, %v", v, err)
	}
	if v, err := r.ReadFloat32(); err != nil || v != 3.25 {
		t.Errorf("ReadFloat32() = %v, %v, want 3.25", v, err)
	}
	if v, err := r.ReadFloat64(); err != nil || v != -0.125 {
		t.Errorf("ReadFloat64() = %v, %v, want -0.125", v, err)
	}
	if v, err := r.ReadString(); err != nil || v != "hello" {
		t.Errorf("ReadString() = %q, %v, want hello", v, err)
	}
	if v, err := r.ReadBytes(nil); err != nil || len(v) != 0 {
		t.Errorf("ReadBytes() = %v, %v, want empty", v, err)
	}
	if r.Offset() != wantSize {
		t.Errorf("reader Offset() = %d, want %d", r.Offset(), wantSize)
	}
}

func TestByteOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteUint32(0x01020304); err != nil {
		t.Fatalf("WriteUint32() error = %v", err)
	}

	if want := NativeOrder.AppendUint32(nil, 0x01020304); !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WriteUint32() bytes = %x, want %x", buf.Bytes(), want)
	}
	foreign := OppositeOrder().AppendUint32(nil, 0x01020304)
	if bytes.Equal(buf.Bytes(), foreign) {
		t.Errorf("OppositeOrder() encodes like NativeOrder")
	}
	ReverseItems(foreign, 4)
	if !bytes.Equal(buf.Bytes(), foreign) {
		t.Errorf("ReverseItems(foreign) = %x, want %x", foreign, buf.Bytes())
	}
}

// TestSwappedRead reads fields that were written in the opposite byte order
func TestSwappedRead(t *testing.T) {
	foreign := OppositeOrder()

	raw := make([]byte, 0, 14)
	raw = foreign.AppendUint16(raw, 0x0102)
	raw = foreign.AppendUint32(raw, 0x01020304)
	raw = foreign.AppendUint64(raw, math.Float64bits(1.5))

	r := NewReader(bytes.NewReader(raw), true)
	if !r.Swap() {
		t.Fatal("Swap() = false, want true")
	}
	if v, err := r.ReadUint16(); err != nil || v != 0x0102 {
		t.Errorf("ReadUint16() = %x, %v, want 102", v, err)
	}
	if v, err := r.ReadUint32(); err != nil || v != 0x01020304 {
		t.Errorf("ReadUint32() = %x, %v, want 1020304", v, err)
	}
	if v, err := r.ReadFloat64(); err != nil || v != 1.5 {
		t.Errorf("ReadFloat64() = %v, %v, want 1.5", v, err)
	}
}

// TestReadItems checks raw and endian-aware item reads
func TestReadItems(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	t.Run("Raw", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data), true)
		p := make([]byte, 8)
		n, err := r.ReadItems(p, 4, 2)
		if err != nil || n != 2 {
			t.Fatalf("ReadItems() = %d, %v, want 2, nil", n, err)
		}
		if !bytes.Equal(p, data) {
			t.Errorf("raw read reordered bytes: %v", p)
		}
	})

	t.Run("Endian", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data), true)
		p := make([]byte, 8)
		if _, err := r.ReadItemsEndian(p, 4, 2); err != nil {
			t.Fatalf("ReadItemsEndian() failed: %v", err)
		}
		want := []byte{4, 3, 2, 1, 8, 7, 6, 5}
		if !bytes.Equal(p, want) {
			t.Errorf("ReadItemsEndian() = %v, want %v", p, want)
		}
	})

	t.Run("Discard", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data), false)
		n, err := r.ReadItems(nil, 2, 3)
		if err != nil || n != 3 {
			t.Fatalf("ReadItems(nil) = %d, %v, want 3, nil", n, err)
		}
		if b, _ := r.ReadUint8(); b != 7 {
			t.Errorf("next byte after discard = %d, want 7", b)
		}
	})

	t.Run("Short", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data), false)
		p := make([]byte, 12)
		n, err := r.ReadItems(p, 4, 3)
		if !errors.Is(err, ErrShortRead) {
			t.Fatalf("expected ErrShortRead, got %v", err)
		}
		if n != 2 {
			t.Errorf("ReadItems() read %d whole items, want 2", n)
		}
	})
}

// TestSkip tests exact skipping of raw bytes and byte fields
func TestSkip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_ = w.WriteString("skip me")
	_ = w.WriteUint64(42)
	_ = w.WriteUint32(7)

	r := NewReader(&buf, false)
	if err := r.SkipBytes(); err != nil {
		t.Fatalf("SkipBytes() failed: %v", err)
	}
	if err := r.Skip(8); err != nil {
		t.Fatalf("Skip() failed: %v", err)
	}
	if v, err := r.ReadUint32(); err != nil || v != 7 {
		t.Errorf("ReadUint32() after skip = %d, %v, want 7", v, err)
	}
	if err := r.Skip(1); !errors.Is(err, ErrShortRead) {
		t.Errorf("Skip() past the end: expected ErrShortRead, got %v", err)
	}
}

// TestOversizedField checks that a corrupt length prefix is rejected before allocation
func TestOversizedField(t *testing.T) {
	raw := binary.NativeEndian.AppendUint32(nil, 0xFFFFFFFF)
	r := NewReader(bytes.NewReader(raw), false)
	if _, err := r.ReadBytes(nil); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

// TestShortWrite checks that a failing writer surfaces ErrShortWrite
func TestShortWrite(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(NewFaultyWriter(&buf, 6))

	if err := w.WriteUint32(1); err != nil {
		t.Fatalf("first write should succeed: %v", err)
	}
	n, err := w.WriteItems([]byte{1, 2, 3, 4}, 2, 2)
	if !errors.Is(err, ErrShortWrite) {
		t.Fatalf("expected ErrShortWrite, got %v", err)
	}
	if n != 1 {
		t.Errorf("WriteItems() wrote %d whole items, want 1", n)
	}
	if buf.Len() != 6 {
		t.Errorf("underlying buffer holds %d bytes, want 6", buf.Len())
	}
}

// TestFaultyReader checks the injected read failure
func TestFaultyReader(t *testing.T) {
	r := NewReader(NewFaultyReader(bytes.NewReader(make([]byte, 16)), 5), false)
	if _, err := r.ReadUint32(); err != nil {
		t.Fatalf("first read should succeed: %v", err)
	}
	if _, err := r.ReadUint32(); !errors.Is(err, ErrShortRead) {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
}

// TestReverseItems tests in-place reversal with a trailing partial item
func TestReverseItems(t *testing.T) {
	p := []byte{1, 2, 3, 4, 5, 6, 7}
	ReverseItems(p, 3)
	want := []byte{3, 2, 1, 6, 5, 4, 7}
	if !bytes.Equal(p, want) {
		t.Errorf("ReverseItems() = %v, want %v", p, want)
	}
}
