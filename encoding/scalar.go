package encoding

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

const (
	signBit8  = uint8(1) << 7
	signBit16 = uint16(1) << 15
	signBit32 = uint32(1) << 31
	signBit64 = uint64(1) << 63
)

// AppendBool appends 0x01 for true and 0x00 for false.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}

	return append(dst, 0)
}

// AppendUint8 appends v unchanged.
func AppendUint8(dst []byte, v uint8) []byte {
	return append(dst, v)
}

// AppendUint16 appends v in big-endian order.
func AppendUint16(dst []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, v)
}

// AppendUint32 appends v in big-endian order.
func AppendUint32(dst []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, v)
}

// AppendUint64 appends v in big-endian order.
func AppendUint64(dst []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(dst, v)
}

// AppendInt8 appends v with its sign bit flipped, mapping -128..127 onto 0x00..0xff.
func AppendInt8(dst []byte, v int8) []byte {
	return append(dst, uint8(v)^signBit8) //nolint:gosec
}

// AppendInt16 appends v big-endian with its sign bit flipped.
func AppendInt16(dst []byte, v int16) []byte {
	return binary.BigEndian.AppendUint16(dst, uint16(v)^signBit16) //nolint:gosec
}

// AppendInt32 appends v big-endian with its sign bit flipped.
func AppendInt32(dst []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(dst, uint32(v)^signBit32) //nolint:gosec
}

// AppendInt64 appends v big-endian with its sign bit flipped.
func AppendInt64(dst []byte, v int64) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(v)^signBit64) //nolint:gosec
}

// AppendFloat32 appends the order-preserving transform of v's IEEE bit pattern.
func AppendFloat32(dst []byte, v float32) []byte {
	u := math.Float32bits(v)
	if u&signBit32 == 0 {
		u |= signBit32
	} else {
		u = ^u
	}

	return binary.BigEndian.AppendUint32(dst, u)
}

// AppendFloat64 appends the order-preserving transform of v's IEEE bit pattern.
func AppendFloat64(dst []byte, v float64) []byte {
	u := math.Float64bits(v)
	if u&signBit64 == 0 {
		u |= signBit64
	} else {
		u = ^u
	}

	return binary.BigEndian.AppendUint64(dst, u)
}

// AppendChar appends the code point of r as a big-endian uint32.
func AppendChar(dst []byte, r rune) []byte {
	return binary.BigEndian.AppendUint32(dst, uint32(r)) //nolint:gosec
}

// ReadBool decodes a boolean. Bytes other than 0x00 and 0x01 are rejected.
func (c *Cursor) ReadBool() (bool, error) {
	b, err := c.ReadByte()
	if err != nil {
		return false, err
	}

	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		c.pos--
		return false, c.invalid("bool byte 0x%02x", b)
	}
}

// ReadUint8 decodes an unsigned 8-bit integer.
func (c *Cursor) ReadUint8() (uint8, error) {
	return c.ReadByte()
}

// ReadUint16 decodes a big-endian unsigned 16-bit integer.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.Next(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

// ReadUint32 decodes a big-endian unsigned 32-bit integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.Next(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b), nil
}

// ReadUint64 decodes a big-endian unsigned 64-bit integer.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.Next(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}

// ReadInt8 decodes a signed 8-bit integer.
func (c *Cursor) ReadInt8() (int8, error) {
	b, err := c.ReadByte()
	if err != nil {
		return 0, err
	}

	return int8(b ^ signBit8), nil //nolint:gosec
}

// ReadInt16 decodes a signed 16-bit integer.
func (c *Cursor) ReadInt16() (int16, error) {
	u, err := c.ReadUint16()
	if err != nil {
		return 0, err
	}

	return int16(u ^ signBit16), nil //nolint:gosec
}

// ReadInt32 decodes a signed 32-bit integer.
func (c *Cursor) ReadInt32() (int32, error) {
	u, err := c.ReadUint32()
	if err != nil {
		return 0, err
	}

	return int32(u ^ signBit32), nil //nolint:gosec
}

// ReadInt64 decodes a signed 64-bit integer.
func (c *Cursor) ReadInt64() (int64, error) {
	u, err := c.ReadUint64()
	if err != nil {
		return 0, err
	}

	return int64(u ^ signBit64), nil //nolint:gosec
}

// ReadFloat32 decodes a float32, restoring the original bit pattern.
func (c *Cursor) ReadFloat32() (float32, error) {
	u, err := c.ReadUint32()
	if err != nil {
		return 0, err
	}
	if u&signBit32 != 0 {
		u &^= signBit32
	} else {
		u = ^u
	}

	return math.Float32frombits(u), nil
}

// ReadFloat64 decodes a float64, restoring the original bit pattern.
func (c *Cursor) ReadFloat64() (float64, error) {
	u, err := c.ReadUint64()
	if err != nil {
		return 0, err
	}
	if u&signBit64 != 0 {
		u &^= signBit64
	} else {
		u = ^u
	}

	return math.Float64frombits(u), nil
}

// ReadChar decodes a Unicode code point. Surrogates and values above
// utf8.MaxRune are rejected.
func (c *Cursor) ReadChar() (rune, error) {
	u, err := c.ReadUint32()
	if err != nil {
		return 0, err
	}

	r := rune(u) //nolint:gosec
	if u > utf8.MaxRune || !utf8.ValidRune(r) {
		c.pos -= 4
		return 0, c.invalid("code point 0x%x", u)
	}

	return r, nil
}
