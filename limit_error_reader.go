// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package unpack

import (
	"fmt"
	"io"
)

// limitErrorReader is a reader that returns an error if the limit is exceeded
// before the underlying reader is fully read.
// If the limit is -1, all data from the original reader is read.
type limitErrorReader struct {
	src   io.Reader
	limit int64
	read  int64
}

// newLimitErrorReader returns a new limitErrorReader that reads from src
func newLimitErrorReader(src io.Reader, limit int64) *limitErrorReader {
	return &limitErrorReader{src: src, limit: limit}
}

// Read reads from the underlying reader and fills up p.
// It returns an error if the limit is exceeded, even if the underlying reader
// is not fully read. If the limit is -1, all data from the original reader is
// read.
func (l *limitErrorReader) Read(p []byte) (int, error) {
	if l.limit >= 0 {
		// check if limit has been exhausted
		if l.read >= l.limit {
			return 0, fmt.Errorf("maximum input size exceeded")
		}

		// cap the read at the remaining budget
		if remaining := l.limit - l.read; remaining < int64(len(p)) {
			p = p[:remaining]
		}
	}

	// read from underlying reader and preserve error type
	n, err := l.src.Read(p)
	l.read += int64(n)
	return n, err
}

// ReadBytes returns how many bytes have been read from the underlying reader
func (l *limitErrorReader) ReadBytes() int {
	return int(l.read)
}
