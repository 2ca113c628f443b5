package stream

import (
	"encoding/binary"
	"github.com/ValentinKolb/dSeq/lib/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
)

var Logger = common.GetLogger("stream")

var (
	// ErrShortRead is returned when the underlying reader delivered fewer bytes than requested
	ErrShortRead = errors.New("stream: short read")
	// ErrShortWrite is returned when the underlying writer accepted fewer bytes than requested
	ErrShortWrite = errors.New("stream: short write")
	// ErrTooLarge is returned when a length-prefixed field declares more than MaxFieldLen bytes
	ErrTooLarge = errors.New("stream: field too large")
)

// MaxFieldLen limits length-prefixed byte fields to protect against bad data
const MaxFieldLen = 64 << 20

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

var (
	readBytes    = metrics.GetOrCreateCounter(`dseq_stream_read_bytes_total`)
	writtenBytes = metrics.GetOrCreateCounter(`dseq_stream_written_bytes_total`)
	skippedBytes = metrics.GetOrCreateCounter(`dseq_stream_skipped_bytes_total`)
	shortIO      = metrics.GetOrCreateCounter(`dseq_stream_short_io_total`)
)

// --------------------------------------------------------------------------
// Byte order helpers
// --------------------------------------------------------------------------

// ByteOrder converts multi-byte fields both in place and by appending
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// NativeOrder is the byte order used for every multi-byte field written by a Writer
var NativeOrder ByteOrder = binary.NativeEndian

// IsLittleEndian reports whether the host stores integers least significant byte first
func IsLittleEndian() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] == 1
}

// OppositeOrder returns the byte order of a foreign-endian producer
func OppositeOrder() ByteOrder {
	if IsLittleEndian() {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ReverseItems reverses the bytes of every size-byte item in p in place.
// A trailing partial item is left untouched.
func ReverseItems(p []byte, size int) {
	if size <= 1 {
		return
	}
	for off := 0; off+size <= len(p); off += size {
		item := p[off : off+size]
		for i, j := 0, size-1; i < j; i, j = i+1, j-1 {
			item[i], item[j] = item[j], item[i]
		}
	}
}

// checkItems validates the item geometry of a read or write and returns the byte count
func checkItems(size, count int) (int64, error) {
	if size <= 0 {
		return 0, errors.Errorf("stream: invalid item size %d", size)
	}
	if count < 0 {
		return 0, errors.Errorf("stream: invalid item count %d", count)
	}
	return int64(size) * int64(count), nil
}
