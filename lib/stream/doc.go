// Package stream provides the byte-stream layer on which dSeq records are
// written and read. It wraps any io.Writer / io.Reader and adds item-oriented
// reads and writes, byte order normalization and exact skipping.
//
// The package focuses on:
//   - Writing fixed-size items and typed fields in the producer's native byte order
//   - Reading items either raw or endian-aware (byte reversal when the reader was
//     opened for a stream written with the opposite byte order)
//   - Skipping over fields without materializing them, consuming exactly the
//     same number of bytes a full read would
//   - Optional transparent compression of whole streams
//
// Key Components:
//
//   - Writer: Wraps an io.Writer. WriteItems writes count items of a given size,
//     typed helpers (WriteInt32, WriteFloat64, WriteBytes, ...) write single fields.
//
//   - Reader: Wraps an io.Reader. The swap flag given to NewReader is decided by
//     the caller. ReadItems never reorders bytes, ReadItemsEndian and all typed
//     helpers reverse multi-byte fields when swap is set. Skip discards bytes.
//
//   - ICompressor: Interface for stream compressors with implementations for
//     zstd, lz4, snappy and a no-op compressor. Compressors are selected by name
//     with CompressorByName.
//
//   - FaultyWriter / FaultyReader: Wrappers that fail after a byte limit. They are
//     used to verify the behavior of codecs on short writes and short reads.
//
// Error Handling:
//
//	Every short read or short write is reported as an error wrapping ErrShortRead
//	or ErrShortWrite. Callers test for them with errors.Is. A stream that returned
//	an error is no longer aligned and must not be read further.
//
// Metrics:
//
//	The package maintains the counters dseq_stream_read_bytes_total,
//	dseq_stream_written_bytes_total, dseq_stream_skipped_bytes_total and
//	dseq_stream_short_io_total in the default VictoriaMetrics set.
//
// Thread Safety:
//
//	Readers and writers are not safe for concurrent use. Compressors are
//	stateless and may be shared.
package stream
