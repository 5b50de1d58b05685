// Package keyblock stores a sorted run of memcomparable keys in a compact,
// checksummed container, the way an LSM table or index page would.
//
// # Layout
//
//	+--------------------+  offset 0
//	| header (24 bytes)  |  little-endian, see Header
//	+--------------------+
//	| schema (optional)  |  CBOR shape descriptor, Header.SchemaSize bytes
//	+--------------------+
//	| payload            |  compressed with Header.Compression
//	+--------------------+
//
// The uncompressed payload holds, for each key in ascending order:
//
//	uvarint(shared prefix length with the previous key)
//	uvarint(suffix length)
//	suffix bytes
//
// Header.Checksum is the xxHash64 of everything after the header.
//
// # Building and reading
//
//	b, _ := keyblock.NewBuilder(keyblock.WithSchema(s), keyblock.WithCompression(format.CompressionZstd))
//	for _, v := range rows {
//		if err := b.AddValue(v, s); err != nil { ... }
//	}
//	data, _ := b.Finish()
//
//	blk, _ := keyblock.Open(data)
//	i := blk.Seek(lowerBound)
//
// Keys must be added in strictly ascending byte order. Because keys are
// memcomparable, that is the same as ascending order of the values they
// encode.
//
// A Block is immutable once opened and safe for concurrent readers. A Builder
// is not safe for concurrent use.
package keyblock
