// Package compress provides the block compression codecs used by key blocks.
//
// A key block payload is a run of prefix-elided keys. Sorted keys share long
// prefixes and repeat chunk padding, so general-purpose compressors shrink
// them well. Four codecs are available, selected by format.CompressionType:
//
//   - None: payload stored as is
//   - Zstd: best ratio, moderate speed
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// All codecs are stateless values and safe for concurrent use. Internal
// encoder and decoder state is pooled.
//
// Decompress takes the expected decompressed size, which key blocks record in
// their header. Codecs use it to allocate the output once and reject payloads
// that do not expand to exactly that size.
//
// # Zstandard implementations
//
// By default Zstd uses the pure Go github.com/klauspost/compress/zstd. Building
// with cgo enabled and the gozstd tag switches to the cgo binding
// github.com/valyala/gozstd. Both produce standard zstd frames and can read
// each other's output.
package compress
