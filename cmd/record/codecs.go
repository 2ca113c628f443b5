package record

import (
	"fmt"
	"github.com/ValentinKolb/dSeq/lib/elements"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/ValentinKolb/dSeq/lib/vector"
	"github.com/pkg/errors"
	"slices"
	"strconv"
)

// recordCodec encodes and decodes records of one element type.
// Values travel as their textual form.
type recordCodec interface {
	// Encode writes values as one record
	Encode(w *stream.Writer, values []string, legacy bool) error
	// Decode reads one record
	Decode(r *stream.Reader, legacy bool) ([]string, error)
	// Skip consumes one record without keeping it
	Skip(r *stream.Reader, legacy bool) error
	// Nth reads one record and returns the value of rank rank(len) and the number of elements
	Nth(r *stream.Reader, legacy bool, rank func(n int) int) (string, int, error)
}

type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// codecs maps the --type names to their codec
var codecs = map[string]recordCodec{
	"int8":    numericCodec[int8]{parse: parseInt[int8](8)},
	"uint8":   numericCodec[uint8]{parse: parseUint[uint8](8)},
	"int16":   numericCodec[int16]{parse: parseInt[int16](16)},
	"uint16":  numericCodec[uint16]{parse: parseUint[uint16](16)},
	"int32":   numericCodec[int32]{parse: parseInt[int32](32)},
	"uint32":  numericCodec[uint32]{parse: parseUint[uint32](32)},
	"int64":   numericCodec[int64]{parse: parseInt[int64](64)},
	"uint64":  numericCodec[uint64]{parse: parseUint[uint64](64)},
	"float32": numericCodec[float32]{parse: parseFloat[float32](32)},
	"float64": numericCodec[float64]{parse: parseFloat[float64](64)},
	"text":    textCodec{},
	"ptext":   pointerTextCodec{},
}

// codecByName returns the codec of an element type
func codecByName(name string) (recordCodec, error) {
	c, ok := codecs[name]
	if !ok {
		names := make([]string, 0, len(codecs))
		for n := range codecs {
			names = append(names, n)
		}
		slices.Sort(names)
		return nil, fmt.Errorf("unknown element type %q, must be one of %v", name, names)
	}
	return c, nil
}

// --------------------------------------------------------------------------
// Numeric records (raw layout)
// --------------------------------------------------------------------------

func parseInt[T number](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 10, bits)
		return T(v), err
	}
}

func parseUint[T number](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseUint(s, 10, bits)
		return T(v), err
	}
}

func parseFloat[T number](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		return T(v), err
	}
}

type numericCodec[T number] struct {
	parse func(string) (T, error)
}

func (c numericCodec[T]) Encode(w *stream.Writer, values []string, legacy bool) error {
	v := vector.NewOrdered[T]()
	v.Reserve(len(values))
	for _, s := range values {
		e, err := c.parse(s)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", s, err)
		}
		v.PushBack(e)
	}
	if legacy {
		return v.Write(w, nil)
	}
	return v.Serialize(w)
}

func (c numericCodec[T]) read(r *stream.Reader, legacy bool) (*vector.Vector[T, vector.Borrowed[T]], error) {
	v := vector.NewOrdered[T]()
	var err error
	if legacy {
		err = v.Read(r, nil)
	} else {
		err = v.DeSerialize(r)
	}
	return v, err
}

func (c numericCodec[T]) Decode(r *stream.Reader, legacy bool) ([]string, error) {
	v, err := c.read(r, legacy)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, v.Len())
	for _, e := range v.All() {
		out = append(out, fmt.Sprint(e))
	}
	return out, nil
}

func (c numericCodec[T]) Skip(r *stream.Reader, legacy bool) error {
	if legacy {
		_, err := c.read(r, true)
		return err
	}
	return vector.SkipDeSerialize[T](r)
}

func (c numericCodec[T]) Nth(r *stream.Reader, legacy bool, rank func(n int) int) (string, int, error) {
	v, err := c.read(r, legacy)
	if err != nil {
		return "", 0, err
	}
	if v.Empty() {
		return "", 0, nil
	}
	return fmt.Sprint(v.Get(v.ChooseNthItem(rank(v.Len())))), v.Len(), nil
}

// --------------------------------------------------------------------------
// Text records (classes layout)
// --------------------------------------------------------------------------

type textCodec struct{}

type textVector = vector.Vector[elements.Text, vector.Borrowed[elements.Text]]

func newTextVector() *textVector {
	return vector.New[elements.Text, vector.Borrowed[elements.Text]](vector.Func(
		func(a, b elements.Text) bool { return a.Value == b.Value },
		elements.CompareText,
	))
}

func writeText(w *stream.Writer, t elements.Text) error { return t.Serialize(w) }

func readText(r *stream.Reader, t *elements.Text) error { return t.DeSerialize(r) }

func (textCodec) Encode(w *stream.Writer, values []string, legacy bool) error {
	v := newTextVector()
	for _, s := range values {
		v.PushBack(elements.Text{Value: s})
	}
	if legacy {
		return v.Write(w, writeText)
	}
	return vector.SerializeClasses(v, w)
}

func (textCodec) read(r *stream.Reader, legacy bool) (*textVector, error) {
	v := newTextVector()
	if legacy {
		return v, v.Read(r, readText)
	}
	return v, vector.DeSerializeClasses(v, r)
}

func (c textCodec) Decode(r *stream.Reader, legacy bool) ([]string, error) {
	v, err := c.read(r, legacy)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, v.Len())
	for _, t := range v.All() {
		out = append(out, t.Value)
	}
	return out, nil
}

func (c textCodec) Skip(r *stream.Reader, legacy bool) error {
	if legacy {
		_, err := c.read(r, true)
		return err
	}
	return vector.SkipDeSerializeClasses[elements.Text](r)
}

func (c textCodec) Nth(r *stream.Reader, legacy bool, rank func(n int) int) (string, int, error) {
	v, err := c.read(r, legacy)
	if err != nil || v.Empty() {
		return "", 0, err
	}
	return v.Get(v.ChooseNthItem(rank(v.Len()))).Value, v.Len(), nil
}

// --------------------------------------------------------------------------
// Nullable text records (pointer layout)
// --------------------------------------------------------------------------

// nullValue is the textual form of a nil slot
const nullValue = "<nil>"

type pointerTextCodec struct{}

var errNoLegacyPointers = errors.New("the legacy layout does not support pointer records")

func (pointerTextCodec) Encode(w *stream.Writer, values []string, legacy bool) error {
	if legacy {
		return errNoLegacyPointers
	}
	pv := vector.NewPointerVector(elements.CompareText)
	defer pv.Clear()
	for _, s := range values {
		if s == nullValue {
			pv.PushBack(nil)
			continue
		}
		pv.PushBack(elements.NewText(s))
	}
	return vector.SerializePointers(pv, w)
}

func (pointerTextCodec) read(r *stream.Reader, legacy bool) (*vector.PointerVector[elements.Text], error) {
	if legacy {
		return nil, errNoLegacyPointers
	}
	pv := vector.NewPointerVector(elements.CompareText)
	return pv, vector.DeSerializePointers(pv, r)
}

func (c pointerTextCodec) Decode(r *stream.Reader, legacy bool) ([]string, error) {
	pv, err := c.read(r, legacy)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, pv.Len())
	for _, t := range pv.All() {
		if t == nil {
			out = append(out, nullValue)
			continue
		}
		out = append(out, t.Value)
	}
	return out, nil
}

func (c pointerTextCodec) Skip(r *stream.Reader, legacy bool) error {
	if legacy {
		return errNoLegacyPointers
	}
	return vector.SkipPointers[elements.Text](r)
}

func (c pointerTextCodec) Nth(r *stream.Reader, legacy bool, rank func(n int) int) (string, int, error) {
	pv, err := c.read(r, legacy)
	if err != nil || pv.Empty() {
		return "", 0, err
	}
	t := pv.Get(pv.ChooseNthItem(rank(pv.Len())))
	if t == nil {
		return nullValue, pv.Len(), nil
	}
	return t.Value, pv.Len(), nil
}
