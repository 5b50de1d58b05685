// Package memcodec encodes structured values into memcomparable byte strings.
//
// A memcomparable encoding orders exactly like the values it encodes: for two
// values a and b of the same shape, bytes.Compare(Encode(a), Encode(b)) has
// the sign of the natural comparison of a and b. This makes the encodings
// usable as keys in ordered key-value stores, LSM trees and B-trees, where
// range scans work directly on the raw bytes.
//
// # Core Features
//
//   - Order-preserving encodings for integers, floats, strings, bytes and decimals
//   - Composite keys: records, tuples, optionals, arrays, lists and enums
//   - Prefix safety: concatenated encodings never compare across field boundaries
//   - Type-driven decoding against an explicit shape
//   - Reflection-based Marshal/Unmarshal for Go structs
//   - Sorted key blocks with prefix elision and compression (keyblock package)
//
// # Basic Usage
//
// Describing and encoding a composite key:
//
//	import (
//	    "github.com/arloliu/memcodec"
//	    "github.com/arloliu/memcodec/shape"
//	)
//
//	orderKey := shape.Tuple(shape.String(), shape.Int64(), shape.Optional(shape.Uint32()))
//
//	key, _ := memcodec.Encode([]any{"tenant-7", int64(-42), memcodec.Some(uint32(3))}, orderKey)
//	v, _ := memcodec.Decode(key, orderKey)
//
// Using Go structs instead of shapes:
//
//	type OrderKey struct {
//	    Tenant string
//	    Seq    int64
//	    Line   *uint32
//	}
//
//	key, _ := memcodec.Marshal(OrderKey{Tenant: "tenant-7", Seq: -42})
//
//	var out OrderKey
//	_ = memcodec.Unmarshal(key, &out)
//
// # Values
//
// Encode, Decode, Encoder and Decoder exchange the following Go values:
//
//	unit            Unit{} (nil is accepted when encoding)
//	bool            bool
//	uint8..uint64   uint8, uint16, uint32, uint64 (uint is accepted for uint64)
//	int8..int64     int8, int16, int32, int64 (int is accepted for int64)
//	uint128         encoding.Uint128
//	int128          encoding.Int128
//	float32/64      float32, float64
//	char            rune
//	bytes           []byte
//	string          string
//	decimal         encoding.Decimal
//	optional        Option (nil is accepted as absent)
//	array, list     []any
//	record, tuple   []any, one element per field
//	enum            Variant
//
// # Descending Order
//
// Invert complements an encoding in place, which reverses its order. To sort a
// single field descending, encode it separately, invert it and append it to
// the key.
package memcodec

import (
	"github.com/arloliu/memcodec/encoding"
	"github.com/arloliu/memcodec/internal/hash"
)

// Invert complements every byte of b in place, reversing the order of the
// encoding. Applying it twice restores the original bytes.
func Invert(b []byte) {
	encoding.Invert(b)
}

// Fingerprint returns the 64-bit xxHash of an encoded key.
//
// Fingerprints are suitable for bloom filters and hash partitioning. They do
// not preserve order.
func Fingerprint(key []byte) uint64 {
	return hash.Sum(key)
}
