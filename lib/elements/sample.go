package elements

import (
	"cmp"
	"fmt"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/pkg/errors"
)

// Sample is a labelled measurement: [int64 id][float64 score][label as Text]
type Sample struct {
	ID    int64
	Score float64
	Label Text

	// OnRelease is called when an owning container releases the sample.
	// It is not serialized.
	OnRelease func(s *Sample)
}

func (s *Sample) Serialize(w *stream.Writer) error {
	if err := w.WriteInt64(s.ID); err != nil {
		return err
	}
	if err := w.WriteFloat64(s.Score); err != nil {
		return err
	}
	return s.Label.Serialize(w)
}

func (s *Sample) DeSerialize(r *stream.Reader) (err error) {
	if s.ID, err = r.ReadInt64(); err != nil {
		return errors.WithMessage(err, "sample id")
	}
	if s.Score, err = r.ReadFloat64(); err != nil {
		return errors.WithMessagef(err, "score of sample %d", s.ID)
	}
	if err = s.Label.DeSerialize(r); err != nil {
		return errors.WithMessagef(err, "label of sample %d", s.ID)
	}
	return nil
}

func (s *Sample) SkipDeSerialize(r *stream.Reader) error {
	if err := r.Skip(8 + 8); err != nil {
		return err
	}
	return r.SkipBytes()
}

// Clone returns a copy of the sample sharing the release hook
func (s *Sample) Clone() *Sample {
	cp := *s
	cp.Label = Text{Value: s.Label.Value}
	return &cp
}

// Release runs the release hook, if any
func (s *Sample) Release() {
	if s.OnRelease != nil {
		s.OnRelease(s)
	}
}

func (s *Sample) String() string {
	return fmt.Sprintf("#%d %s=%g", s.ID, s.Label.Value, s.Score)
}

// CompareSample orders samples by score, then by id
func CompareSample(a, b Sample) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
