// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package unpack

import (
	"fmt"
	"io"
)

// headerReader is an implementation of io.Reader that allows the first bytes
// of the reader to be read twice. This is useful for identifying the
// compression type before filling a buffer.
type headerReader struct {
	src    io.Reader
	header []byte
	off    int
}

func newHeaderReader(src io.Reader, headerSize int) (*headerReader, error) {
	// read at least headerSize bytes. If EOF, capture whatever was read.
	header := make([]byte, headerSize)
	n, err := io.ReadFull(src, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	return &headerReader{src: src, header: header[:n]}, nil
}

func (h *headerReader) Read(p []byte) (int, error) {
	// replay the header first
	if h.off < len(h.header) {
		n := copy(p, h.header[h.off:])
		h.off += n
		return n, nil
	}

	// then continue reading from the source
	return h.src.Read(p)
}

// PeekHeader returns the header bytes without consuming them.
func (h *headerReader) PeekHeader() []byte {
	return h.header
}
