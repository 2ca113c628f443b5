package vector

import (
	"encoding/binary"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/pkg/errors"
)

var (
	// ErrTooManyElements is returned when a record declares more elements than the decoder accepts
	ErrTooManyElements = errors.New("vector: declared element count exceeds limit")
	// ErrNotFixedSize is returned by the raw codec for element types without a fixed binary size
	ErrNotFixedSize = errors.New("vector: element type has no fixed binary size")
)

// --------------------------------------------------------------------------
// Element contract
// --------------------------------------------------------------------------

// Serializer writes exactly one self-delimited encoding of an element
type Serializer interface {
	Serialize(w *stream.Writer) error
}

// Deserializer decodes one element in place, consuming exactly the bytes
// Serialize wrote. The reader decides whether multi-byte fields are swapped.
type Deserializer interface {
	DeSerialize(r *stream.Reader) error
}

// Skipper consumes the encoding of one element without keeping it.
// It is called on a zero value.
type Skipper interface {
	SkipDeSerialize(r *stream.Reader) error
}

// Codec is the constraint of element types with delegated serialization.
// PT is inferred as *T.
type Codec[T any] interface {
	*T
	Serializer
	Deserializer
	Skipper
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// rawSize returns the fixed binary size of T
func rawSize[T any]() (int, error) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return 0, errors.Wrapf(ErrNotFixedSize, "%T", zero)
	}
	return size, nil
}

// readCount reads an element count and checks it against limit before anything is allocated
func readCount(r *stream.Reader, limit int) (int, error) {
	count, err := r.ReadInt32()
	if err != nil {
		return 0, errors.WithMessage(err, "reading element count")
	}
	if count < 0 || int(count) > limit {
		Logger.Warningf("rejecting record at offset %d: declared count %d, limit %d", r.Offset(), uint32(count), limit)
		return 0, errors.Wrapf(ErrTooManyElements, "count %d, limit %d", uint32(count), limit)
	}
	return int(count), nil
}

// writeRaw dumps the elements bitwise in native order
func writeRaw[T any](w *stream.Writer, data []T, size int) error {
	if len(data) == 0 {
		return nil
	}
	buf, err := binary.Append(make([]byte, 0, size*len(data)), binary.NativeEndian, data)
	if err != nil {
		return errors.Wrap(err, "encoding elements")
	}
	_, err = w.WriteItems(buf, size, len(data))
	return err
}

// readRaw fills data bitwise, reversing every element when the reader swaps
func readRaw[T any](r *stream.Reader, data []T, size int) error {
	if len(data) == 0 {
		return nil
	}
	buf := make([]byte, size*len(data))
	if _, err := r.ReadItemsEndian(buf, size, len(data)); err != nil {
		return err
	}
	if _, err := binary.Decode(buf, binary.NativeEndian, data); err != nil {
		return errors.Wrap(err, "decoding elements")
	}
	return nil
}

// --------------------------------------------------------------------------
// Raw codec
// --------------------------------------------------------------------------

// Serialize writes [int32 count][count x element bytes]. T must have a fixed
// binary size (see encoding/binary.Size), otherwise ErrNotFixedSize is returned.
func (v *Vector[T, P]) Serialize(w *stream.Writer) error {
	size, err := rawSize[T]()
	if err != nil {
		return err
	}
	if err := w.WriteInt32(int32(len(v.data))); err != nil {
		return errors.WithMessage(err, "writing element count")
	}
	return writeRaw(w, v.data, size)
}

// DeSerialize replaces the content with a record written by Serialize
func (v *Vector[T, P]) DeSerialize(r *stream.Reader) error {
	size, err := rawSize[T]()
	if err != nil {
		return err
	}
	count, err := readCount(r, MaxElements)
	if err != nil {
		return err
	}
	v.ResizeNoInit(count)
	return readRaw(r, v.data, size)
}

// SkipDeSerialize consumes a record written by Serialize for element type T
func SkipDeSerialize[T any](r *stream.Reader) error {
	size, err := rawSize[T]()
	if err != nil {
		return err
	}
	count, err := readCount(r, MaxElements)
	if err != nil {
		return err
	}
	_, err = r.ReadItems(nil, size, count)
	return err
}

// --------------------------------------------------------------------------
// Legacy codec
// --------------------------------------------------------------------------

// Write writes [int32 capacity][int32 count] followed by either the raw
// element bytes (cb == nil) or whatever cb writes for each element.
func (v *Vector[T, P]) Write(w *stream.Writer, cb func(w *stream.Writer, val T) error) error {
	if err := w.WriteInt32(int32(cap(v.data))); err != nil {
		return errors.WithMessage(err, "writing capacity")
	}
	if err := w.WriteInt32(int32(len(v.data))); err != nil {
		return errors.WithMessage(err, "writing element count")
	}
	if cb == nil {
		size, err := rawSize[T]()
		if err != nil {
			return err
		}
		return writeRaw(w, v.data, size)
	}
	for i, val := range v.data {
		if err := cb(w, val); err != nil {
			return errors.WithMessagef(err, "writing element %d", i)
		}
	}
	return nil
}

// Read replaces the content with a record written by Write. cb decodes one
// element in place and must mirror the callback used for writing.
func (v *Vector[T, P]) Read(r *stream.Reader, cb func(r *stream.Reader, val *T) error) error {
	capacity, err := readCount(r, MaxElements)
	if err != nil {
		return errors.WithMessage(err, "reading capacity")
	}
	count, err := readCount(r, MaxElements)
	if err != nil {
		return err
	}

	v.Truncate(0)
	v.Reserve(max(capacity, count))
	v.ResizeNoInit(count)

	if cb == nil {
		size, err := rawSize[T]()
		if err != nil {
			return err
		}
		return readRaw(r, v.data, size)
	}
	for i := range v.data {
		if err := cb(r, &v.data[i]); err != nil {
			return errors.WithMessagef(err, "reading element %d", i)
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Delegated codec
// --------------------------------------------------------------------------

// SerializeClasses writes [int32 count] and then every element's own encoding in index order
func SerializeClasses[T any, P Policy[T], PT Codec[T]](v *Vector[T, P], w *stream.Writer) error {
	if err := w.WriteInt32(int32(v.Len())); err != nil {
		return errors.WithMessage(err, "writing element count")
	}
	for i := range v.data {
		if err := PT(&v.data[i]).Serialize(w); err != nil {
			return errors.WithMessagef(err, "writing element %d", i)
		}
	}
	return nil
}

// DeSerializeClasses replaces the content with a record written by
// SerializeClasses. The vector is first filled with zero values which are then
// decoded in place; on failure the remaining elements stay zero.
func DeSerializeClasses[T any, P Policy[T], PT Codec[T]](v *Vector[T, P], r *stream.Reader) error {
	count, err := readCount(r, MaxElements)
	if err != nil {
		return err
	}
	var zero T
	v.InitToSize(count, zero)
	for i := range v.data {
		if err := PT(&v.data[i]).DeSerialize(r); err != nil {
			Logger.Debugf("element %d of %d failed to decode: %v", i, count, err)
			return errors.WithMessagef(err, "reading element %d", i)
		}
	}
	return nil
}

// SkipDeSerializeClasses consumes a record written by SerializeClasses for element type T
func SkipDeSerializeClasses[T any, PT Codec[T]](r *stream.Reader) error {
	count, err := readCount(r, MaxElements)
	if err != nil {
		return err
	}
	var zero T
	for i := 0; i < count; i++ {
		if err := PT(&zero).SkipDeSerialize(r); err != nil {
			return errors.WithMessagef(err, "skipping element %d", i)
		}
	}
	return nil
}
