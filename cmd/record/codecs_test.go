package record

import (
	"bytes"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/pkg/errors"
	"slices"
	"testing"
)

func median(n int) int { return n / 2 }

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		typ    string
		values []string
		legacy bool
	}{
		{"int8", []string{"-128", "0", "127"}, false},
		{"uint16", []string{"65535", "1", "2"}, false},
		{"int32", []string{"5", "-3", "9", "0"}, false},
		{"int32", []string{"5", "-3", "9", "0"}, true},
		{"uint64", []string{"18446744073709551615"}, false},
		{"float64", []string{"1.5", "-2.25"}, false},
		{"float32", []string{"0.5"}, true},
		{"text", []string{"b", "", "a"}, false},
		{"text", []string{"b", "", "a"}, true},
		{"ptext", []string{"x", nullValue, "y"}, false},
		{"int64", nil, false},
	}

	for _, tt := range tests {
		name := tt.typ
		if tt.legacy {
			name += "/legacy"
		}
		t.Run(name, func(t *testing.T) {
			codec, err := codecByName(tt.typ)
			if err != nil {
				t.Fatalf("codecByName() error = %v", err)
			}

			var buf bytes.Buffer
			if err := codec.Encode(stream.NewWriter(&buf), tt.values, tt.legacy); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			r := stream.NewReader(&buf, false)
			got, err := codec.Decode(r, tt.legacy)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(got) != len(tt.values) || (len(got) > 0 && !slices.Equal(got, tt.values)) {
				t.Errorf("Decode() = %v, want %v", got, tt.values)
			}
			if buf.Len() != 0 {
				t.Errorf("Decode() left %d bytes unread", buf.Len())
			}
		})
	}
}

func TestCodecSkip(t *testing.T) {
	for _, typ := range []string{"int32", "text", "ptext"} {
		t.Run(typ, func(t *testing.T) {
			codec, _ := codecByName(typ)
			var buf bytes.Buffer
			w := stream.NewWriter(&buf)
			if err := codec.Encode(w, []string{"1", "2", "3"}, false); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if err := codec.Encode(w, []string{"7"}, false); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			r := stream.NewReader(&buf, false)
			if err := codec.Skip(r, false); err != nil {
				t.Fatalf("Skip() error = %v", err)
			}
			got, err := codec.Decode(r, false)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !slices.Equal(got, []string{"7"}) {
				t.Errorf("Decode() after Skip() = %v, want [7]", got)
			}
		})
	}
}

func TestCodecNth(t *testing.T) {
	tests := []struct {
		typ    string
		values []string
		rank   func(int) int
		want   string
	}{
		{"int32", []string{"9", "1", "5", "3", "7"}, median, "5"},
		{"int32", []string{"9", "1", "5", "3", "7"}, func(int) int { return 0 }, "1"},
		{"float64", []string{"2.5", "-1", "0"}, func(n int) int { return n - 1 }, "2.5"},
		{"text", []string{"pear", "apple", "fig"}, median, "fig"},
		{"ptext", []string{"b", nullValue, "a"}, func(int) int { return 0 }, nullValue},
		{"uint8", []string{"4", "4", "4"}, median, "4"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			codec, _ := codecByName(tt.typ)
			var buf bytes.Buffer
			if err := codec.Encode(stream.NewWriter(&buf), tt.values, false); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, n, err := codec.Nth(stream.NewReader(&buf, false), false, tt.rank)
			if err != nil {
				t.Fatalf("Nth() error = %v", err)
			}
			if got != tt.want || n != len(tt.values) {
				t.Errorf("Nth() = (%q, %d), want (%q, %d)", got, n, tt.want, len(tt.values))
			}
		})
	}
}

func TestCodecErrors(t *testing.T) {
	if _, err := codecByName("complex128"); err == nil {
		t.Errorf("codecByName(complex128) error = nil, want error")
	}

	codec, _ := codecByName("int8")
	var buf bytes.Buffer
	if err := codec.Encode(stream.NewWriter(&buf), []string{"300"}, false); err == nil {
		t.Errorf("Encode(300) as int8 error = nil, want range error")
	}

	codec, _ = codecByName("ptext")
	if err := codec.Encode(stream.NewWriter(&buf), []string{"a"}, true); !errors.Is(err, errNoLegacyPointers) {
		t.Errorf("Encode(legacy) error = %v, want %v", err, errNoLegacyPointers)
	}

	codec, _ = codecByName("int32")
	_, err := codec.Decode(stream.NewReader(bytes.NewReader([]byte{1, 0}), false), false)
	if !errors.Is(err, stream.ErrShortRead) {
		t.Errorf("Decode(truncated) error = %v, want %v", err, stream.ErrShortRead)
	}
}
