package stream

import (
	"github.com/pkg/errors"
	"io"
	"math"
)

// Reader reads items and typed fields from an io.Reader.
// The swap flag is decided by the caller when the reader is created: it must be
// set iff the stream was produced on a machine of the opposite byte order.
type Reader struct {
	r      io.Reader
	swap   bool
	offset int64
	buf    [8]byte
}

// NewReader creates a Reader on top of r
func NewReader(r io.Reader, swap bool) *Reader {
	return &Reader{r: r, swap: swap}
}

// Swap reports whether multi-byte fields are byte-reversed on read
func (r *Reader) Swap() bool {
	return r.swap
}

// Offset returns the number of bytes consumed so far (read or skipped)
func (r *Reader) Offset() int64 {
	return r.offset
}

// ReadItems reads count items of size bytes into the front of p without any
// byte reordering. A nil p discards the items instead.
// It returns the number of whole items consumed.
func (r *Reader) ReadItems(p []byte, size, count int) (int, error) {
	total, err := checkItems(size, count)
	if err != nil {
		return 0, err
	}

	// case discard
	if p == nil {
		skipped, err := r.skip(total)
		if err != nil {
			return int(skipped / int64(size)), errors.WithMessagef(err, "skipped %d of %d items of %d bytes", skipped/int64(size), count, size)
		}
		return count, nil
	}

	if int64(len(p)) < total {
		return 0, errors.Errorf("stream: buffer of %d bytes holds less than %d items of %d bytes", len(p), count, size)
	}

	n, err := io.ReadFull(r.r, p[:total])
	r.offset += int64(n)
	readBytes.Add(n)

	if err != nil {
		shortIO.Inc()
		Logger.Debugf("short read at offset %d: got %d of %d bytes", r.offset, n, total)
		return n / size, errors.WithMessagef(ErrShortRead, "read %d of %d items of %d bytes: %v", n/size, count, size, err)
	}
	return count, nil
}

// ReadItemsEndian behaves like ReadItems and additionally reverses the bytes
// of every item when the reader swaps.
func (r *Reader) ReadItemsEndian(p []byte, size, count int) (int, error) {
	n, err := r.ReadItems(p, size, count)
	if r.swap && p != nil {
		ReverseItems(p[:n*size], size)
	}
	return n, err
}

// Skip discards exactly n bytes
func (r *Reader) Skip(n int64) error {
	if n < 0 {
		return errors.Errorf("stream: invalid skip of %d bytes", n)
	}
	_, err := r.skip(n)
	return err
}

// skip discards n bytes and returns how many were actually consumed
func (r *Reader) skip(n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}

	skipped, err := io.CopyN(io.Discard, r.r, n)
	r.offset += skipped
	skippedBytes.Add(int(skipped))

	if err != nil {
		shortIO.Inc()
		Logger.Debugf("short skip at offset %d: got %d of %d bytes", r.offset, skipped, n)
		return skipped, errors.WithMessagef(ErrShortRead, "skipped %d of %d bytes: %v", skipped, n, err)
	}
	return skipped, nil
}

// read is the single-field variant of ReadItemsEndian
func (r *Reader) read(p []byte) error {
	_, err := r.ReadItemsEndian(p, len(p), 1)
	return err
}

// --------------------------------------------------------------------------
// Typed fields
// --------------------------------------------------------------------------

// ReadInt8 reads a single signed byte
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadUint8 reads a single byte
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.read(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// ReadUint16 reads a uint16, normalized to host order
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.read(r.buf[:2]); err != nil {
		return 0, err
	}
	return NativeOrder.Uint16(r.buf[:2]), nil
}

// ReadInt32 reads an int32, normalized to host order
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint32 reads a uint32, normalized to host order
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.read(r.buf[:4]); err != nil {
		return 0, err
	}
	return NativeOrder.Uint32(r.buf[:4]), nil
}

// ReadInt64 reads an int64, normalized to host order
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadUint64 reads a uint64, normalized to host order
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.read(r.buf[:8]); err != nil {
		return 0, err
	}
	return NativeOrder.Uint64(r.buf[:8]), nil
}

// ReadFloat32 reads a float32, normalized to host order
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads a float64, normalized to host order
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBytes reads a field written by Writer.WriteBytes.
// The returned slice reuses buf if it is large enough.
func (r *Reader) ReadBytes(buf []byte) ([]byte, error) {
	n, err := r.readFieldLen()
	if err != nil {
		return nil, err
	}

	// Reuse existing buffer if possible to reduce allocations
	if cap(buf) < n {
		buf = make([]byte, n)
	} else {
		buf = buf[:n]
	}

	if n == 0 {
		return buf, nil
	}
	if _, err := r.ReadItems(buf, 1, n); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadString reads a field written by Writer.WriteString
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes(nil)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SkipBytes skips a field written by Writer.WriteBytes or Writer.WriteString
func (r *Reader) SkipBytes() error {
	n, err := r.readFieldLen()
	if err != nil {
		return err
	}
	return r.Skip(int64(n))
}

// readFieldLen reads and validates the length prefix of a byte field
func (r *Reader) readFieldLen() (int, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if n > MaxFieldLen {
		return 0, errors.WithMessagef(ErrTooLarge, "declared length %d exceeds %d", n, MaxFieldLen)
	}
	return int(n), nil
}
