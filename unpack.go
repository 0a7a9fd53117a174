// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unpack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

// decompressionFunc is a function that wraps src in a decompressing reader.
type decompressionFunc func(src io.Reader) (io.Reader, error)

// headerCheck is a function that checks if the given header matches the
// expected magic bytes.
type headerCheck func([]byte) bool

type availableDecompressor struct {
	Decompress  decompressionFunc
	HeaderCheck headerCheck
	MagicBytes  [][]byte
	Offset      int
}

// availableDecompressors is the collection of supported decompression
// algorithms with the required magic bytes and potential offset, keyed by
// file extension.
var availableDecompressors = map[string]availableDecompressor{
	fileExtensionBrotli: {
		Decompress:  decompressBrotliStream,
		HeaderCheck: isBrotli,
	},
	fileExtensionBzip2: {
		Decompress:  decompressBzip2Stream,
		HeaderCheck: isBzip2,
		MagicBytes:  magicBytesBzip2,
	},
	fileExtensionGZip: {
		Decompress:  decompressGZipStream,
		HeaderCheck: isGZip,
		MagicBytes:  magicBytesGZip,
	},
	fileExtensionLZ4: {
		Decompress:  decompressLZ4Stream,
		HeaderCheck: isLZ4,
		MagicBytes:  magicBytesLZ4,
	},
	fileExtensionSnappy: {
		Decompress:  decompressSnappyStream,
		HeaderCheck: isSnappy,
		MagicBytes:  magicBytesSnappy,
	},
	fileExtensionXz: {
		Decompress:  decompressXzStream,
		HeaderCheck: isXz,
		MagicBytes:  magicBytesXz,
	},
	fileExtensionZlib: {
		Decompress:  decompressZlibStream,
		HeaderCheck: isZlib,
		MagicBytes:  magicBytesZlib,
	},
	fileExtensionZstd: {
		Decompress:  decompressZstdStream,
		HeaderCheck: isZstd,
		MagicBytes:  magicBytesZstd,
	},
}

// typeRaw marks a fill that appended the input without decompression.
const typeRaw = "raw"

var maxHeaderLength int

// init calculates the maximum header length
func init() {
	for _, d := range availableDecompressors {
		needs := d.Offset
		for _, mb := range d.MagicBytes {
			if len(mb)+d.Offset > needs {
				needs = len(mb) + d.Offset
			}
		}
		if needs > maxHeaderLength {
			maxHeaderLength = needs
		}
	}
}

var now = time.Now

// Fill reads src to its end and appends the content to b, returning the
// number of bytes appended. If the input starts with the magic bytes of a
// supported compression format, the decompressed content is appended instead
// of the raw bytes; cfg can force a specific algorithm or disable detection
// entirely. The input is bounded by the configured maximum input size, the
// buffer by the maximum buffer size.
//
// A nil cfg falls back to the defaults of [NewConfig]. The cfg passed here
// governs only the fill; size checks on the buffer itself use the config the
// buffer was created with.
func Fill(ctx context.Context, b *Buffer, src io.Reader, cfg *Config) (int64, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	// prepare telemetry capturing
	td := &TelemetryData{DetectedType: typeRaw}
	defer cfg.TelemetryHook()(ctx, td)
	defer captureFillDuration(td, now())

	// limit input size
	limitedReader := newLimitErrorReader(src, cfg.MaxInputSize())
	defer captureInputSize(td, limitedReader)

	// peek the stream header for magic byte detection
	headerReader, err := newHeaderReader(limitedReader, maxHeaderLength)
	if err != nil {
		return 0, handleError(cfg, td, "cannot read header", err)
	}

	// check if context is canceled
	if err := ctx.Err(); err != nil {
		return 0, handleError(cfg, td, "context error", err)
	}

	// select decompressor and start decompression
	stream := io.Reader(headerReader)
	decFunc, fileExt, err := selectDecompressor(cfg, headerReader.PeekHeader())
	if err != nil {
		return 0, handleError(cfg, td, "cannot select decompressor", err)
	}
	if decFunc != nil {
		cfg.Logger().Info("fill with decompression", "fileExt", fileExt)
		decompressedStream, err := decFunc(stream)
		if err != nil {
			return 0, handleError(cfg, td, "cannot start decompression", err)
		}
		defer func() {
			if closer, ok := decompressedStream.(io.Closer); ok {
				closer.Close()
			}
		}()
		stream = decompressedStream
		td.DetectedType = fileExt
	}

	// append the stream content to the buffer
	n, err := appendStream(ctx, b, stream)
	td.BytesAppended = n
	if err != nil {
		return n, handleError(cfg, td, "cannot append to buffer", err)
	}

	// finished
	cfg.Logger().Debug("fill finished", "bytesAppended", n, "type", td.DetectedType)
	return n, nil
}

// selectDecompressor determines the decompression algorithm for a fill. It
// returns a nil decompressionFunc if the input should be appended as-is.
func selectDecompressor(cfg *Config, header []byte) (decompressionFunc, string, error) {

	// check if detection is disabled
	if cfg.NoDecompression() {
		return nil, typeRaw, nil
	}

	// check if an algorithm is forced
	if want := cfg.DecompressionType(); want != "" {
		d, ok := availableDecompressors[want]
		if !ok {
			return nil, "", fmt.Errorf("unsupported decompression type: %s", want)
		}
		return d.Decompress, want, nil
	}

	// detect by magic bytes
	for fileExt, d := range availableDecompressors {
		if d.HeaderCheck(header) {
			return d.Decompress, fileExt, nil
		}
	}

	return nil, typeRaw, nil
}

// appendStream copies src into b in chunks, checking ctx for cancellation
// between chunks. It returns the number of bytes appended.
func appendStream(ctx context.Context, b *Buffer, src io.Reader) (int64, error) {
	var total int64
	chunk := make([]byte, 32*1024)
	for {
		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := src.Read(chunk)
		if n > 0 {
			if _, appendErr := b.Append(chunk[:n]); appendErr != nil {
				return total, appendErr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// matchesMagicBytes checks if data matches any of the given magic bytes at
// the given offset.
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	// check all possible magic bytes until match is found
	for _, mb := range magicBytes {
		// check if header is long enough
		if offset+len(mb) > len(data) {
			continue
		}

		// check for byte match
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}

	// no match found
	return false
}

// handleError increases the error counter, sets the latest error and
// decides if the fill should report it.
func handleError(cfg *Config, td *TelemetryData, msg string, err error) error {

	// increase error counter and set error
	td.FillErrors++
	td.LastFillError = fmt.Errorf("%s: %w", msg, err)

	// do not end on error
	if cfg.ContinueOnError() {
		cfg.Logger().Error(msg, "error", err)
		return nil
	}

	// end fill on error
	return td.LastFillError
}

// captureFillDuration captures the duration of the fill
func captureFillDuration(td *TelemetryData, start time.Time) {
	stop := now()
	td.FillDuration = stop.Sub(start)
}

// captureInputSize captures the consumed input size of the fill
func captureInputSize(td *TelemetryData, ler *limitErrorReader) {
	td.InputSize = int64(ler.ReadBytes())
}
