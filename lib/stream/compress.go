package stream

import (
	"fmt"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"io"
)

// ICompressor is the interface for all stream compressors
type ICompressor interface {
	// Name returns the name under which the compressor is selected
	Name() string
	// NewWriter wraps w so that everything written to the result is compressed.
	// Closing the result flushes all pending data but does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// NewReader wraps r so that reads from the result are decompressed.
	// Closing the result releases its resources but does not close r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// CompressorByName returns the compressor registered under name
func CompressorByName(name string) (ICompressor, error) {
	switch name {
	case "", "none":
		return NewNoopCompressor(), nil
	case "zstd":
		return NewZstdCompressor(), nil
	case "lz4":
		return NewLZ4Compressor(), nil
	case "snappy":
		return NewSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("invalid compression %s (expected one of: none, zstd, lz4, snappy)", name)
	}
}

// --------------------------------------------------------------------------
// No-op
// --------------------------------------------------------------------------

// NewNoopCompressor creates a compressor that passes data through unchanged
func NewNoopCompressor() ICompressor {
	return &noopCompressorImpl{}
}

type noopCompressorImpl struct {
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (n noopCompressorImpl) Name() string {
	return "none"
}

func (n noopCompressorImpl) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (n noopCompressorImpl) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// --------------------------------------------------------------------------
// zstd
// --------------------------------------------------------------------------

// NewZstdCompressor creates a compressor using the zstd format.
// Best ratio of the available compressors, recommended for cold data.
func NewZstdCompressor() ICompressor {
	return &zstdCompressorImpl{}
}

type zstdCompressorImpl struct {
}

func (z zstdCompressorImpl) Name() string {
	return "zstd"
}

func (z zstdCompressorImpl) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	return enc, nil
}

func (z zstdCompressorImpl) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

// --------------------------------------------------------------------------
// lz4
// --------------------------------------------------------------------------

// NewLZ4Compressor creates a compressor using the lz4 frame format.
// Fastest of the available compressors, recommended for hot data.
func NewLZ4Compressor() ICompressor {
	return &lz4CompressorImpl{}
}

type lz4CompressorImpl struct {
}

func (l lz4CompressorImpl) Name() string {
	return "lz4"
}

func (l lz4CompressorImpl) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (l lz4CompressorImpl) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// --------------------------------------------------------------------------
// snappy
// --------------------------------------------------------------------------

// NewSnappyCompressor creates a compressor using the snappy framing format
func NewSnappyCompressor() ICompressor {
	return &snappyCompressorImpl{}
}

type snappyCompressorImpl struct {
}

func (s snappyCompressorImpl) Name() string {
	return "snappy"
}

func (s snappyCompressorImpl) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func (s snappyCompressorImpl) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}
