package stream

import (
	"github.com/pkg/errors"
	"io"
	"math"
)

// Writer writes items and typed fields to an io.Writer in native byte order
type Writer struct {
	w      io.Writer
	offset int64
	buf    [8]byte
}

// NewWriter creates a Writer on top of w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Offset returns the number of bytes written so far
func (w *Writer) Offset() int64 {
	return w.offset
}

// Flush flushes the underlying writer if it buffers data
func (w *Writer) Flush() error {
	if f, ok := w.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// WriteItems writes count items of size bytes taken from the front of p.
// It returns the number of whole items written.
func (w *Writer) WriteItems(p []byte, size, count int) (int, error) {
	total, err := checkItems(size, count)
	if err != nil {
		return 0, err
	}
	if int64(len(p)) < total {
		return 0, errors.Errorf("stream: buffer of %d bytes holds less than %d items of %d bytes", len(p), count, size)
	}
	if total == 0 {
		return 0, nil
	}

	n, err := w.w.Write(p[:total])
	w.offset += int64(n)
	writtenBytes.Add(n)

	if err == nil && int64(n) < total {
		err = io.ErrShortWrite
	}
	if err != nil {
		shortIO.Inc()
		Logger.Debugf("short write at offset %d: wrote %d of %d bytes", w.offset, n, total)
		return n / size, errors.WithMessagef(ErrShortWrite, "wrote %d of %d items of %d bytes: %v", n/size, count, size, err)
	}
	return count, nil
}

// write is the single-field variant of WriteItems
func (w *Writer) write(p []byte) error {
	_, err := w.WriteItems(p, len(p), 1)
	return err
}

// --------------------------------------------------------------------------
// Typed fields
// --------------------------------------------------------------------------

// WriteInt8 writes a single signed byte
func (w *Writer) WriteInt8(v int8) error {
	return w.WriteUint8(uint8(v))
}

// WriteUint8 writes a single byte
func (w *Writer) WriteUint8(v uint8) error {
	w.buf[0] = v
	return w.write(w.buf[:1])
}

// WriteUint16 writes v in native byte order
func (w *Writer) WriteUint16(v uint16) error {
	NativeOrder.PutUint16(w.buf[:2], v)
	return w.write(w.buf[:2])
}

// WriteInt32 writes v in native byte order
func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

// WriteUint32 writes v in native byte order
func (w *Writer) WriteUint32(v uint32) error {
	NativeOrder.PutUint32(w.buf[:4], v)
	return w.write(w.buf[:4])
}

// WriteInt64 writes v in native byte order
func (w *Writer) WriteInt64(v int64) error {
	return w.WriteUint64(uint64(v))
}

// WriteUint64 writes v in native byte order
func (w *Writer) WriteUint64(v uint64) error {
	NativeOrder.PutUint64(w.buf[:8], v)
	return w.write(w.buf[:8])
}

// WriteFloat32 writes the IEEE 754 bits of v in native byte order
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes the IEEE 754 bits of v in native byte order
func (w *Writer) WriteFloat64(v float64) error {
	return w.WriteUint64(math.Float64bits(v))
}

// WriteBytes writes a uint32 length followed by the bytes of p
func (w *Writer) WriteBytes(p []byte) error {
	if len(p) > MaxFieldLen {
		return errors.WithMessagef(ErrTooLarge, "%d bytes", len(p))
	}
	if err := w.WriteUint32(uint32(len(p))); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	_, err := w.WriteItems(p, 1, len(p))
	return err
}

// WriteString writes s with the layout of WriteBytes
func (w *Writer) WriteString(s string) error {
	return w.WriteBytes([]byte(s))
}
