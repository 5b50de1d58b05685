// Package encoding implements the primitive memcomparable codecs.
//
// Every encoder in this package appends to a caller-owned byte slice and every
// decoder reads from a Cursor. The encodings are order-preserving: for two
// values a and b of the same type, bytes.Compare(enc(a), enc(b)) has the same
// sign as the natural comparison of a and b. Each element is self-delimiting,
// either by a fixed width or by terminal markers, so encodings of consecutive
// fields can be concatenated into a composite key without separators.
//
// Most users should use the top-level memcodec package, which drives these
// codecs from a shape description. Use this package directly when building
// keys by hand:
//
//	key := encoding.AppendString(nil, "tenant-42")
//	key = encoding.AppendInt64(key, -7)
//
//	c := encoding.NewCursor(key)
//	tenant, _ := c.ReadString()
//	n, _ := c.ReadInt64()
//
// # Scalars
//
//	bool            1 byte, 0x00 or 0x01
//	uint8..uint64   big-endian, unchanged
//	int8..int64     big-endian, sign bit flipped
//	float32/64      non-negative: sign bit flipped; negative: all bits complemented
//	char            4-byte big-endian code point
//
// Floats are transformed purely on their bit pattern. Negative zero encodes
// just below positive zero and NaN payloads are carried unchanged, so the
// position of a NaN in the ordering depends on its bit pattern.
//
// # Byte strings and text
//
// Byte strings are split into 8-byte chunks, each followed by a marker byte.
// A full chunk with more data to follow carries the marker 0xFF. The final
// chunk is zero padded and its marker is the number of valid bytes (0-7). A
// string whose length is a multiple of 8, including the empty string, ends with
// an all-zero chunk and marker 0x00:
//
//	""          00 00 00 00 00 00 00 00 | 00
//	"abc"       61 62 63 00 00 00 00 00 | 03
//	"abcdefgh"  61 62 63 64 65 66 67 68 | ff  00 00 00 00 00 00 00 00 | 00
//
// # Decimals
//
// Decimals are written as a sign byte, then for finite non-zero values an
// order-preserving int32 exponent and the significant digits as a chunked
// string. Negative values store the negated exponent and complemented digit
// chunks. Building with the nodecimal tag compiles the decimal codec out.
//
// # Descending order
//
// Complementing every byte of an encoding reverses its order. Invert does this
// in place; it is the supported way to build descending keys.
package encoding
