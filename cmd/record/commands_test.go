package record

import (
	"bytes"
	"github.com/ValentinKolb/dSeq/lib/stream"
	"github.com/pkg/errors"
	"io"
	"path/filepath"
	"slices"
	"testing"
)

// closeCounter wraps a compressor and counts closed writers
type closeCounter struct {
	stream.ICompressor
	closed int
}

type countingWriteCloser struct {
	io.WriteCloser
	owner *closeCounter
}

func (c countingWriteCloser) Close() error {
	c.owner.closed++
	return c.WriteCloser.Close()
}

func (c *closeCounter) NewWriter(w io.Writer) (io.WriteCloser, error) {
	cw, err := c.ICompressor.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return countingWriteCloser{WriteCloser: cw, owner: c}, nil
}

func TestWriteRecordClosesCompressor(t *testing.T) {
	failure := errors.New("encode failed")

	tests := []struct {
		name    string
		fn      func(w *stream.Writer) error
		wantErr error
	}{
		{"success", func(w *stream.Writer) error { return w.WriteInt32(7) }, nil},
		{"failure", func(w *stream.Writer) error { return failure }, failure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressor := &closeCounter{ICompressor: stream.NewZstdCompressor()}
			var buf bytes.Buffer

			err := writeRecord(&buf, compressor, tt.fn)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("writeRecord() error = %v, want %v", err, tt.wantErr)
			}
			if compressor.closed != 1 {
				t.Errorf("compressing writer closed %d times, want 1", compressor.closed)
			}
		})
	}
}

func TestRecordFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.bin")
	codec, _ := codecByName("int16")
	values := []string{"3", "-1", "2"}

	err := withRecordWriter(path, func(w *stream.Writer) error {
		return codec.Encode(w, values, false)
	})
	if err != nil {
		t.Fatalf("withRecordWriter() error = %v", err)
	}

	var got []string
	err = withRecordReader(path, func(r *stream.Reader) error {
		var err error
		got, err = codec.Decode(r, false)
		return err
	})
	if err != nil {
		t.Fatalf("withRecordReader() error = %v", err)
	}
	if !slices.Equal(got, values) {
		t.Errorf("Decode() = %v, want %v", got, values)
	}
}
