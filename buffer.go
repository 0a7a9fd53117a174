// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unpack

import (
	"errors"
	"fmt"
)

// ErrSizeExceeded is returned when an operation would grow a [Buffer] beyond
// the maximum buffer size set in the [Config].
var ErrSizeExceeded = errors.New("maximum buffer size exceeded")

// Buffer is an owned, growable byte region with a current length. The zero
// point of its lifecycle is [NewBuffer], which takes ownership of an existing
// region; [Buffer.Append] extends the valid content and reports the new
// length.
//
// A Buffer is not safe for concurrent use; callers that share a Buffer
// between goroutines must synchronize access.
type Buffer struct {
	cfg  *Config
	data []byte
}

// NewBuffer returns a [Buffer] whose initial contents are data and whose
// length equals len(data). The buffer takes ownership of the slice as its
// backing store; the caller must not use data afterwards, since an append may
// either write into it or replace it. A nil cfg falls back to the defaults of
// [NewConfig].
func NewBuffer(cfg *Config, data []byte) *Buffer {
	if cfg == nil {
		cfg = NewConfig()
	}
	b := &Buffer{cfg: cfg, data: data}

	// honor a requested starting capacity
	if c := cfg.InitialCapacity(); c > cap(data) {
		grown := make([]byte, len(data), c)
		copy(grown, data)
		b.data = grown
	}

	return b
}

// Len returns the number of valid bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the capacity of the backing store.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Bytes returns the valid region of the buffer. The returned slice aliases
// the backing store and is only valid until the next mutating call.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Append copies p onto the end of the buffer, growing the backing store if
// necessary, and returns the new length. If the configured maximum buffer
// size would be exceeded, the buffer is left untouched and an error wrapping
// [ErrSizeExceeded] is returned. Appending an empty or nil slice is a no-op
// that returns the current length.
func (b *Buffer) Append(p []byte) (int, error) {
	if len(p) == 0 {
		return len(b.data), nil
	}
	if err := b.cfg.CheckBufferSize(int64(len(b.data)) + int64(len(p))); err != nil {
		return len(b.data), err
	}
	b.data = append(b.data, p...)
	return len(b.data), nil
}

// AppendByte appends a single byte and returns the new length, following the
// same rules as [Buffer.Append].
func (b *Buffer) AppendByte(c byte) (int, error) {
	return b.Append([]byte{c})
}

// Write implements [io.Writer], so that a Buffer can terminate copy
// pipelines. It reports len(p) on success.
func (b *Buffer) Write(p []byte) (int, error) {
	if _, err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Grow ensures capacity for at least n more bytes, so that a following append
// of up to n bytes does not reallocate. Growing respects the maximum buffer
// size.
func (b *Buffer) Grow(n int) error {
	if n < 0 {
		return fmt.Errorf("cannot grow buffer by negative count: %d", n)
	}
	if err := b.cfg.CheckBufferSize(int64(len(b.data)) + int64(n)); err != nil {
		return err
	}

	// check if the backing store already has room
	if cap(b.data)-len(b.data) >= n {
		return nil
	}

	grown := make([]byte, len(b.data), len(b.data)+n)
	copy(grown, b.data)
	b.data = grown
	return nil
}

// Truncate shrinks the valid length to n, keeping the backing store. An n
// outside [0, Len()] is an error.
func (b *Buffer) Truncate(n int) error {
	if n < 0 || n > len(b.data) {
		return fmt.Errorf("truncation out of range: %d", n)
	}
	b.data = b.data[:n]
	return nil
}

// Reset empties the buffer, keeping the backing store for reuse.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}
