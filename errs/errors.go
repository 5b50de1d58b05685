// Package errs defines the sentinel errors returned by memcodec packages.
//
// Errors are wrapped with additional context using fmt.Errorf and the %w verb,
// so callers should match them with errors.Is:
//
//	if errors.Is(err, errs.ErrUnexpectedEnd) {
//	    // input was truncated
//	}
package errs

import "errors"

// Decoding errors. Any of them means the input does not represent a valid
// value of the requested shape; partial results must not be used.
var (
	// ErrUnexpectedEnd is returned when the input ends before a complete element could be read.
	ErrUnexpectedEnd = errors.New("unexpected end of input")
	// ErrInvalidEncoding is returned when a marker, discriminant or digit byte is outside its legal range.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrInvalidUTF8 is returned when a text payload is not well-formed UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 in text payload")
	// ErrTrailingBytes is returned by strict decoding when bytes remain after the root value.
	ErrTrailingBytes = errors.New("trailing bytes after value")
	// ErrOverflow is returned when a decimal exponent falls outside the representable range.
	ErrOverflow = errors.New("decimal exponent overflow")
)

// Shape errors.
var (
	ErrShapeMismatch    = errors.New("value does not match shape")
	ErrInvalidShape     = errors.New("invalid shape")
	ErrUnsupportedShape = errors.New("unsupported shape")
)

// Key block errors.
var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	ErrUnsupportedVersion = errors.New("unsupported block version")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
	ErrKeyOrder           = errors.New("keys must be added in strictly ascending order")
	ErrNoKeysAdded        = errors.New("no keys added")
	ErrKeyIndexOutOfRange = errors.New("key index out of range")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrSchemaNotAvailable = errors.New("block has no schema")
)
