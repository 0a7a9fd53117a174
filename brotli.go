package unpack

import (
	"io"

	"github.com/andybalholm/brotli"
)

// fileExtensionBrotli is the file extension for brotli files
const fileExtensionBrotli = "br"

// isBrotli returns always false, because the brotli magic bytes are not
// unique. Brotli decompression has to be requested explicitly.
func isBrotli(header []byte) bool {
	return false
}

// decompressBrotliStream returns an io.Reader that decompresses src with brotli algorithm
func decompressBrotliStream(src io.Reader) (io.Reader, error) {
	return brotli.NewReader(src), nil
}
