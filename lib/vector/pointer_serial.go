package vector

import (
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/pkg/errors"
)

// MaxPointerElements is the largest count accepted by the pointer stream decoders
const MaxPointerElements = 1<<16 - 1

// SerializePointers writes [int32 count] and for every slot an int8 presence
// flag followed by the pointee's own encoding if the slot is not nil.
func SerializePointers[E any, PE Codec[E]](pv *PointerVector[E], w *stream.Writer) error {
	if err := w.WriteInt32(int32(pv.Len())); err != nil {
		return errors.WithMessage(err, "writing element count")
	}
	for i, p := range pv.vec.data {
		var present int8
		if p != nil {
			present = 1
		}
		if err := w.WriteInt8(present); err != nil {
			return errors.WithMessagef(err, "writing presence of element %d", i)
		}
		if p == nil {
			continue
		}
		if err := PE(p).Serialize(w); err != nil {
			return errors.WithMessagef(err, "writing element %d", i)
		}
	}
	return nil
}

// DeSerializePointers releases the current pointees and replaces them with a
// record written by SerializePointers. Nil slots are restored as nil.
func DeSerializePointers[E any, PE Codec[E]](pv *PointerVector[E], r *stream.Reader) error {
	count, err := DeSerializeSize(r)
	if err != nil {
		return err
	}
	pv.vec.Truncate(0)
	pv.vec.Reserve(count)
	for i := 0; i < count; i++ {
		if err := DeSerializeElement[E, PE](pv, r); err != nil {
			return errors.WithMessagef(err, "element %d of %d", i, count)
		}
	}
	return nil
}

// DeSerializeSize reads the slot count of a pointer record. The caller must
// then consume exactly that many slots through any mix of DeSerializeElement
// and DeSerializeSkip, otherwise the stream is left misaligned.
func DeSerializeSize(r *stream.Reader) (int, error) {
	return readCount(r, MaxPointerElements)
}

// DeSerializeElement decodes the next slot and appends it. A pointee that
// fails to decode is dropped and not appended.
func DeSerializeElement[E any, PE Codec[E]](pv *PointerVector[E], r *stream.Reader) error {
	present, err := r.ReadInt8()
	if err != nil {
		return errors.WithMessage(err, "reading presence flag")
	}
	if present == 0 {
		pv.vec.PushBack(nil)
		return nil
	}

	p := new(E)
	if err := PE(p).DeSerialize(r); err != nil {
		pv.vec.policy.Release(p)
		Logger.Debugf("pointee at offset %d failed to decode: %v", r.Offset(), err)
		return err
	}
	pv.vec.PushBack(p)
	return nil
}

// DeSerializeSkip consumes the next slot of a pointer record for pointee type E
func DeSerializeSkip[E any, PE Codec[E]](r *stream.Reader) error {
	present, err := r.ReadInt8()
	if err != nil {
		return errors.WithMessage(err, "reading presence flag")
	}
	if present == 0 {
		return nil
	}
	var zero E
	return PE(&zero).SkipDeSerialize(r)
}

// SkipPointers consumes a whole record written by SerializePointers
func SkipPointers[E any, PE Codec[E]](r *stream.Reader) error {
	count, err := DeSerializeSize(r)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := DeSerializeSkip[E, PE](r); err != nil {
			return errors.WithMessagef(err, "skipping element %d of %d", i, count)
		}
	}
	return nil
}
