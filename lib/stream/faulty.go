package stream

import (
	"fmt"
	"io"
)

// errInjected is returned by faulty wrappers when no error was configured
var errInjected = fmt.Errorf("injected fault error")

// FaultyWriter is an io.Writer wrapper that fails once FailAfterBytes bytes were written.
// Bytes up to the limit are passed through, so a failing write may be partial.
type FaultyWriter struct {
	W              io.Writer
	FailAfterBytes int64 // -1 to disable
	Err            error
	written        int64
}

// NewFaultyWriter creates a FaultyWriter on top of w that fails after limit bytes
func NewFaultyWriter(w io.Writer, limit int64) *FaultyWriter {
	return &FaultyWriter{W: w, FailAfterBytes: limit}
}

// Written returns the number of bytes passed through so far
func (f *FaultyWriter) Written() int64 {
	return f.written
}

func (f *FaultyWriter) Write(p []byte) (int, error) {
	if f.FailAfterBytes < 0 || f.written+int64(len(p)) <= f.FailAfterBytes {
		n, err := f.W.Write(p)
		f.written += int64(n)
		return n, err
	}

	// pass through what fits below the limit, then fail
	allowed := f.FailAfterBytes - f.written
	n, err := f.W.Write(p[:allowed])
	f.written += int64(n)
	if err != nil {
		return n, err
	}
	return n, f.err()
}

func (f *FaultyWriter) err() error {
	if f.Err != nil {
		return f.Err
	}
	return errInjected
}

// FaultyReader is an io.Reader wrapper that fails once FailAfterBytes bytes were read
type FaultyReader struct {
	R              io.Reader
	FailAfterBytes int64 // -1 to disable
	Err            error
	read           int64
}

// NewFaultyReader creates a FaultyReader on top of r that fails after limit bytes
func NewFaultyReader(r io.Reader, limit int64) *FaultyReader {
	return &FaultyReader{R: r, FailAfterBytes: limit}
}

func (f *FaultyReader) Read(p []byte) (int, error) {
	if f.FailAfterBytes >= 0 {
		allowed := f.FailAfterBytes - f.read
		if allowed <= 0 {
			if f.Err != nil {
				return 0, f.Err
			}
			return 0, errInjected
		}
		if int64(len(p)) > allowed {
			p = p[:allowed]
		}
	}
	n, err := f.R.Read(p)
	f.read += int64(n)
	return n, err
}
