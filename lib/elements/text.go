package elements

import (
	"github.com/ValentinKolb/dSeq/lib/stream"
	"strings"
)

// Text is a variable-length string element encoded as [uint32 length][bytes]
type Text struct {
	Value string
}

// NewText returns a pointer to a Text holding s
func NewText(s string) *Text {
	return &Text{Value: s}
}

func (t *Text) Serialize(w *stream.Writer) error {
	return w.WriteString(t.Value)
}

func (t *Text) DeSerialize(r *stream.Reader) error {
	s, err := r.ReadString()
	if err != nil {
		return err
	}
	t.Value = s
	return nil
}

func (t *Text) SkipDeSerialize(r *stream.Reader) error {
	return r.SkipBytes()
}

func (t *Text) String() string {
	return t.Value
}

// CompareText orders texts lexicographically
func CompareText(a, b Text) int {
	return strings.Compare(a.Value, b.Value)
}
