package keyblock

import (
	"fmt"

	"github.com/arloliu/memcodec/endian"
	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/format"
)

const (
	HeaderSize         = 24     // fixed header size in bytes
	MagicNumber uint16 = 0x4B4D // "MK" read as little-endian bytes
	Version     uint8  = 1      // current container version
)

// Header is the fixed-size header at the start of a key block.
type Header struct {
	Magic       uint16                 // byte offset 0-1
	Version     uint8                  // byte offset 2
	Compression format.CompressionType // byte offset 3
	// KeyCount is the number of keys in the block.
	KeyCount uint32 // byte offset 4-7
	// RawSize is the size of the payload before compression.
	RawSize uint32 // byte offset 8-11
	// SchemaSize is the size of the CBOR schema section, 0 when absent.
	SchemaSize uint32 // byte offset 12-15
	// Checksum is the xxHash64 of the schema section and the compressed payload.
	Checksum uint64 // byte offset 16-23
}

// NewHeader creates a header for the current version.
func NewHeader(compression format.CompressionType) Header {
	return Header{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: compression,
	}
}

// Parse parses the header from exactly HeaderSize bytes and validates its
// fixed fields.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: got %d bytes, want %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	engine := endian.GetLittleEndianEngine()

	h.Magic = engine.Uint16(data[0:2])
	h.Version = data[2]
	h.Compression = format.CompressionType(data[3])
	h.KeyCount = engine.Uint32(data[4:8])
	h.RawSize = engine.Uint32(data[8:12])
	h.SchemaSize = engine.Uint32(data[12:16])
	h.Checksum = engine.Uint64(data[16:24])

	return h.Validate()
}

// Validate checks magic number, version and compression type.
func (h *Header) Validate() error {
	if h.Magic != MagicNumber {
		return fmt.Errorf("%w: 0x%04x", errs.ErrInvalidMagicNumber, h.Magic)
	}
	if h.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}
	if !h.Compression.IsValid() {
		return fmt.Errorf("%w: 0x%02x", errs.ErrInvalidCompression, uint8(h.Compression))
	}

	return nil
}

// Bytes serializes the header into a new HeaderSize byte slice.
func (h *Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h *Header) AppendTo(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	dst = engine.AppendUint16(dst, h.Magic)
	dst = append(dst, h.Version, uint8(h.Compression))
	dst = engine.AppendUint32(dst, h.KeyCount)
	dst = engine.AppendUint32(dst, h.RawSize)
	dst = engine.AppendUint32(dst, h.SchemaSize)

	return engine.AppendUint64(dst, h.Checksum)
}

// ParseHeader parses a Header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, want at least %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
