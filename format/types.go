package format

type (
	Kind            uint8
	CompressionType uint8
)

const (
	KindInvalid  Kind = iota // KindInvalid is the zero Kind; no valid shape uses it.
	KindUnit                 // KindUnit encodes to zero bytes.
	KindBool                 // KindBool is a single 0/1 byte.
	KindUint8                // KindUint8 is a 1-byte unsigned integer.
	KindUint16               // KindUint16 is a 2-byte unsigned integer.
	KindUint32               // KindUint32 is a 4-byte unsigned integer.
	KindUint64               // KindUint64 is an 8-byte unsigned integer.
	KindUint128              // KindUint128 is a 16-byte unsigned integer.
	KindInt8                 // KindInt8 is a 1-byte signed integer.
	KindInt16                // KindInt16 is a 2-byte signed integer.
	KindInt32                // KindInt32 is a 4-byte signed integer.
	KindInt64                // KindInt64 is an 8-byte signed integer.
	KindInt128               // KindInt128 is a 16-byte signed integer.
	KindFloat32              // KindFloat32 is an IEEE-754 binary32.
	KindFloat64              // KindFloat64 is an IEEE-754 binary64.
	KindChar                 // KindChar is a Unicode code point.
	KindBytes                // KindBytes is a chunk-escaped byte string.
	KindString               // KindString is a chunk-escaped UTF-8 string.
	KindDecimal              // KindDecimal is an arbitrary-precision decimal.
	KindOptional             // KindOptional is a presence byte plus payload.
	KindArray                // KindArray is a sequence with a fixed element count.
	KindList                 // KindList is a sequence with per-element markers.
	KindRecord               // KindRecord is a fixed list of fields.
	KindEnum                 // KindEnum is a discriminant plus variant payload.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindUnit:     "unit",
	KindBool:     "bool",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindUint128:  "uint128",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindInt128:   "int128",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindChar:     "char",
	KindBytes:    "bytes",
	KindString:   "string",
	KindDecimal:  "decimal",
	KindOptional: "optional",
	KindArray:    "array",
	KindList:     "list",
	KindRecord:   "record",
	KindEnum:     "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "unknown"
}

// ParseKind returns the Kind whose String form is name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name && Kind(i) != KindInvalid {
			return Kind(i), true
		}
	}

	return KindInvalid, false
}

// IsScalar reports whether values of the kind have a fixed encoded width.
func (k Kind) IsScalar() bool {
	return k >= KindBool && k <= KindChar
}

// FixedWidth returns the encoded width in bytes of a scalar kind, or 0 for
// kinds whose length is determined by markers.
func (k Kind) FixedWidth() int {
	switch k { //nolint: exhaustive
	case KindBool, KindUint8, KindInt8:
		return 1
	case KindUint16, KindInt16:
		return 2
	case KindUint32, KindInt32, KindFloat32, KindChar:
		return 4
	case KindUint64, KindInt64, KindFloat64:
		return 8
	case KindUint128, KindInt128:
		return 16
	default:
		return 0
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is one of the defined compression types.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}
