package compress

import (
	"fmt"

	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/format"
)

// MaxDecompressedSize bounds the size a payload may claim to expand to.
const MaxDecompressedSize = 1 << 30 // 1GiB

// Compressor compresses a complete block payload.
type Compressor interface {
	// Compress returns the compressed form of data. The result is owned by the
	// caller; data is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
type Decompressor interface {
	// Decompress expands data, which must decompress to exactly size bytes.
	// A mismatch is reported as a decompression error.
	Decompress(data []byte, size int) ([]byte, error)
}

// Codec combines both directions and reports its algorithm.
type Codec interface {
	Compressor
	Decompressor
	Type() format.CompressionType
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (0x%02x)", errs.ErrInvalidCompression, compressionType, uint8(compressionType))
}

func checkSize(size int) error {
	if size < 0 || size > MaxDecompressedSize {
		return fmt.Errorf("%w: decompressed size %d out of range", errs.ErrInvalidEncoding, size)
	}

	return nil
}

func checkLength(name string, got []byte, size int) ([]byte, error) {
	if len(got) != size {
		return nil, fmt.Errorf("%w: %s payload expanded to %d bytes, want %d", errs.ErrInvalidEncoding, name, len(got), size)
	}

	return got, nil
}
