package unpack

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// fileExtensionLZ4 is the file extension for LZ4 files.
const fileExtensionLZ4 = "lz4"

// magicBytesLZ4 is the magic bytes for LZ4 files.
// reference https://android.googlesource.com/platform/external/lz4/+/HEAD/doc/lz4_Frame_format.md
var magicBytesLZ4 = [][]byte{
	{0x04, 0x22, 0x4D, 0x18},
}

// isLZ4 checks if the header matches the LZ4 magic bytes.
func isLZ4(header []byte) bool {
	return matchesMagicBytes(header, 0, magicBytesLZ4)
}

// decompressLZ4Stream returns an io.Reader that decompresses src with lz4 algorithm
func decompressLZ4Stream(src io.Reader) (io.Reader, error) {
	return lz4.NewReader(src), nil
}
