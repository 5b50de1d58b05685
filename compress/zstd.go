package compress

import "github.com/arloliu/memcodec/format"

// ZstdCompressor compresses payloads with Zstandard. It gives the best ratio
// of the built-in codecs and suits cold or archived key blocks.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}
