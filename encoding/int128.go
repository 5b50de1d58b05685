package encoding

import (
	"cmp"
	"encoding/binary"
	"math/big"
)

// Uint128 is an unsigned 128-bit integer split into its high and low halves.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Int128 is a two's complement signed 128-bit integer. Hi carries the sign.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Uint128From64 widens v.
func Uint128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Int128From64 sign-extends v.
func Int128From64(v int64) Int128 {
	return Int128{Hi: v >> 63, Lo: uint64(v)} //nolint:gosec
}

// Cmp returns -1, 0 or +1 as u is less than, equal to or greater than o.
func (u Uint128) Cmp(o Uint128) int {
	if c := cmp.Compare(u.Hi, o.Hi); c != 0 {
		return c
	}

	return cmp.Compare(u.Lo, o.Lo)
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)

	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	return u.Big().String()
}

// Cmp returns -1, 0 or +1 as i is less than, equal to or greater than o.
func (i Int128) Cmp(o Int128) int {
	if c := cmp.Compare(i.Hi, o.Hi); c != 0 {
		return c
	}

	return cmp.Compare(i.Lo, o.Lo)
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	b := big.NewInt(i.Hi)
	b.Lsh(b, 64)

	return b.Add(b, new(big.Int).SetUint64(i.Lo))
}

func (i Int128) String() string {
	return i.Big().String()
}

// AppendUint128 appends v as 16 big-endian bytes.
func AppendUint128(dst []byte, v Uint128) []byte {
	dst = binary.BigEndian.AppendUint64(dst, v.Hi)
	return binary.BigEndian.AppendUint64(dst, v.Lo)
}

// AppendInt128 appends v as 16 big-endian bytes with the sign bit flipped.
func AppendInt128(dst []byte, v Int128) []byte {
	dst = binary.BigEndian.AppendUint64(dst, uint64(v.Hi)^signBit64) //nolint:gosec
	return binary.BigEndian.AppendUint64(dst, v.Lo)
}

// ReadUint128 decodes a big-endian unsigned 128-bit integer.
func (c *Cursor) ReadUint128() (Uint128, error) {
	b, err := c.Next(16)
	if err != nil {
		return Uint128{}, err
	}

	return Uint128{Hi: binary.BigEndian.Uint64(b[:8]), Lo: binary.BigEndian.Uint64(b[8:])}, nil
}

// ReadInt128 decodes a signed 128-bit integer.
func (c *Cursor) ReadInt128() (Int128, error) {
	u, err := c.ReadUint128()
	if err != nil {
		return Int128{}, err
	}

	return Int128{Hi: int64(u.Hi ^ signBit64), Lo: u.Lo}, nil //nolint:gosec
}
