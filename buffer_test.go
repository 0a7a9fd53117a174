package unpack

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// TestNewBuffer tests the construction of a buffer from an existing region
func TestNewBuffer(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		opts      []ConfigOption
		expectLen int
		expectCap int
	}{
		{
			name:      "existing region",
			data:      []byte("hello"),
			expectLen: 5,
			expectCap: 5,
		},
		{
			name:      "nil region",
			data:      nil,
			expectLen: 0,
			expectCap: 0,
		},
		{
			name:      "empty region",
			data:      []byte{},
			expectLen: 0,
			expectCap: 0,
		},
		{
			name:      "initial capacity",
			data:      []byte("ab"),
			opts:      []ConfigOption{WithInitialCapacity(64)},
			expectLen: 2,
			expectCap: 64,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuffer(NewConfig(test.opts...), test.data)
			if b.Len() != test.expectLen {
				t.Errorf("Len() = %v, want %v", b.Len(), test.expectLen)
			}
			if b.Cap() != test.expectCap {
				t.Errorf("Cap() = %v, want %v", b.Cap(), test.expectCap)
			}
			if !bytes.Equal(b.Bytes(), test.data) {
				t.Errorf("Bytes() = %q, want %q", b.Bytes(), test.data)
			}
		})
	}
}

// TestNewBufferAliasing verifies that the handle takes over the callers
// region instead of copying it
func TestNewBufferAliasing(t *testing.T) {
	data := []byte("abc")
	b := NewBuffer(nil, data)

	data[0] = 'x'
	if b.Bytes()[0] != 'x' {
		t.Errorf("expected buffer to reference the given region")
	}
}

// TestNewBufferIdempotence verifies that two buffers created with the same
// arguments have identical observable state
func TestNewBufferIdempotence(t *testing.T) {
	first := NewBuffer(nil, []byte("same"))
	second := NewBuffer(nil, []byte("same"))

	if first.Len() != second.Len() {
		t.Errorf("Len() differs: %v != %v", first.Len(), second.Len())
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("Bytes() differs: %q != %q", first.Bytes(), second.Bytes())
	}
}

// TestBufferAppend tests growing a buffer and its size limit
func TestBufferAppend(t *testing.T) {
	tests := []struct {
		name        string
		initial     []byte
		appends     [][]byte
		opts        []ConfigOption
		expectLen   int
		expectData  string
		expectError bool
	}{
		{
			name:       "append to empty buffer",
			appends:    [][]byte{[]byte("hello")},
			expectLen:  5,
			expectData: "hello",
		},
		{
			name:       "append extends existing content",
			initial:    []byte("hello"),
			appends:    [][]byte{[]byte(" "), []byte("world")},
			expectLen:  11,
			expectData: "hello world",
		},
		{
			name:       "append empty slice is a no-op",
			initial:    []byte("hi"),
			appends:    [][]byte{nil, {}},
			expectLen:  2,
			expectData: "hi",
		},
		{
			name:        "append over size limit",
			initial:     []byte("1234"),
			appends:     [][]byte{[]byte("56")},
			opts:        []ConfigOption{WithMaxBufferSize(5)},
			expectLen:   4,
			expectData:  "1234",
			expectError: true,
		},
		{
			name:       "append with disabled size limit",
			initial:    []byte("1234"),
			appends:    [][]byte{[]byte("56")},
			opts:       []ConfigOption{WithMaxBufferSize(-1)},
			expectLen:  6,
			expectData: "123456",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuffer(NewConfig(test.opts...), test.initial)

			var n int
			var err error
			for _, p := range test.appends {
				n, err = b.Append(p)
			}
			if (err != nil) != test.expectError {
				t.Fatalf("Append() error = %v, wantErr %v", err, test.expectError)
			}
			if err != nil && !errors.Is(err, ErrSizeExceeded) {
				t.Errorf("Append() error = %v, want ErrSizeExceeded", err)
			}
			if n != test.expectLen {
				t.Errorf("Append() = %v, want %v", n, test.expectLen)
			}
			if string(b.Bytes()) != test.expectData {
				t.Errorf("Bytes() = %q, want %q", b.Bytes(), test.expectData)
			}
		})
	}
}

// TestBufferAppendByte tests the single byte convenience append
func TestBufferAppendByte(t *testing.T) {
	b := NewBuffer(nil, []byte("ab"))
	n, err := b.AppendByte('c')
	if err != nil {
		t.Fatalf("AppendByte() error = %v", err)
	}
	if n != 3 {
		t.Errorf("AppendByte() = %v, want 3", n)
	}
	if string(b.Bytes()) != "abc" {
		t.Errorf("Bytes() = %q, want %q", b.Bytes(), "abc")
	}
}

// TestBufferWrite tests the io.Writer implementation
func TestBufferWrite(t *testing.T) {
	b := NewBuffer(nil, nil)
	n, err := io.Copy(b, strings.NewReader("streamed content"))
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if n != int64(len("streamed content")) {
		t.Errorf("Copy() = %v, want %v", n, len("streamed content"))
	}
	if string(b.Bytes()) != "streamed content" {
		t.Errorf("Bytes() = %q, want %q", b.Bytes(), "streamed content")
	}

	// write over the size limit
	limited := NewBuffer(NewConfig(WithMaxBufferSize(3)), nil)
	if _, err := limited.Write([]byte("toolong")); !errors.Is(err, ErrSizeExceeded) {
		t.Errorf("Write() error = %v, want ErrSizeExceeded", err)
	}
}

// TestBufferGrow tests capacity management
func TestBufferGrow(t *testing.T) {
	tests := []struct {
		name        string
		initial     []byte
		grow        int
		opts        []ConfigOption
		expectError bool
	}{
		{
			name:    "grow empty buffer",
			grow:    32,
			initial: nil,
		},
		{
			name:    "grow with existing content",
			grow:    8,
			initial: []byte("abc"),
		},
		{
			name:        "negative grow",
			grow:        -1,
			expectError: true,
		},
		{
			name:        "grow over size limit",
			grow:        10,
			initial:     []byte("abc"),
			opts:        []ConfigOption{WithMaxBufferSize(8)},
			expectError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuffer(NewConfig(test.opts...), test.initial)
			err := b.Grow(test.grow)
			if (err != nil) != test.expectError {
				t.Fatalf("Grow() error = %v, wantErr %v", err, test.expectError)
			}
			if err != nil {
				return
			}
			if b.Cap()-b.Len() < test.grow {
				t.Errorf("Grow() left %v spare capacity, want at least %v", b.Cap()-b.Len(), test.grow)
			}
			if !bytes.Equal(b.Bytes(), test.initial) {
				t.Errorf("Grow() changed contents to %q", b.Bytes())
			}
		})
	}
}

// TestBufferTruncate tests shrinking the valid length
func TestBufferTruncate(t *testing.T) {
	tests := []struct {
		name        string
		truncate    int
		expectData  string
		expectError bool
	}{
		{name: "to zero", truncate: 0, expectData: ""},
		{name: "to middle", truncate: 3, expectData: "abc"},
		{name: "to full length", truncate: 5, expectData: "abcde"},
		{name: "negative", truncate: -1, expectError: true},
		{name: "beyond length", truncate: 6, expectError: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuffer(nil, []byte("abcde"))
			err := b.Truncate(test.truncate)
			if (err != nil) != test.expectError {
				t.Fatalf("Truncate() error = %v, wantErr %v", err, test.expectError)
			}
			if err != nil {
				return
			}
			if string(b.Bytes()) != test.expectData {
				t.Errorf("Bytes() = %q, want %q", b.Bytes(), test.expectData)
			}
		})
	}
}

// TestBufferReset tests that reset keeps the backing store
func TestBufferReset(t *testing.T) {
	b := NewBuffer(nil, []byte("content"))
	capBefore := b.Cap()

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len() = %v after reset, want 0", b.Len())
	}
	if b.Cap() != capBefore {
		t.Errorf("Cap() = %v after reset, want %v", b.Cap(), capBefore)
	}
}
