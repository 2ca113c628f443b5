package elements

import (
	"bytes"
	"fmt"
	"github.com/ValentinKolb/dSeq/lib/stream"
	vectesting "github.com/ValentinKolb/dSeq/lib/vector/testing"
	"strings"
	"testing"
)

func Test(t *testing.T) {
	vectesting.RunCodecTests[Text](t, "Text", func(i int) *Text {
		return NewText(strings.Repeat(fmt.Sprint(i%10), i+1))
	}, CompareText)

	vectesting.RunCodecTests[Sample](t, "Sample", func(i int) *Sample {
		return &Sample{ID: int64(i), Score: float64(i) * 1.5, Label: Text{Value: fmt.Sprintf("label-%d", i)}}
	}, CompareSample)
}

func TestSampleSwap(t *testing.T) {
	foreign := stream.OppositeOrder()
	raw := foreign.AppendUint64(nil, 77)
	raw = foreign.AppendUint64(raw, 0x4004000000000000) // 2.5
	raw = foreign.AppendUint32(raw, 2)
	raw = append(raw, "ok"...)

	var s Sample
	if err := s.DeSerialize(stream.NewReader(bytes.NewReader(raw), true)); err != nil {
		t.Fatalf("DeSerialize(swap) failed: %v", err)
	}
	if s.ID != 77 || s.Score != 2.5 || s.Label.Value != "ok" {
		t.Errorf("DeSerialize(swap) = %v", &s)
	}
}

func TestSampleClone(t *testing.T) {
	released := 0
	s := &Sample{ID: 1, Label: Text{Value: "a"}, OnRelease: func(*Sample) { released++ }}
	c := s.Clone()
	c.Label.Value = "b"
	c.Release()

	if s.Label.Value != "a" {
		t.Errorf("Clone() shares the label")
	}
	if released != 1 {
		t.Errorf("release hook ran %d times, want 1", released)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Sample
		want int
	}{
		{Sample{ID: 1, Score: 1}, Sample{ID: 2, Score: 2}, -1},
		{Sample{ID: 2, Score: 1}, Sample{ID: 1, Score: 1}, 1},
		{Sample{ID: 3, Score: 1}, Sample{ID: 3, Score: 1}, 0},
	}
	for _, tt := range tests {
		if got := CompareSample(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareSample(%v, %v) = %d, want %d", &tt.a, &tt.b, got, tt.want)
		}
	}
	if CompareText(Text{"a"}, Text{"b"}) >= 0 {
		t.Errorf("CompareText(a, b) should be negative")
	}
}
