//go:build !nodecimal

package encoding

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arloliu/memcodec/errs"
)

// DecimalEnabled reports whether the decimal codec is compiled in.
const DecimalEnabled = true

// Sign bytes of the decimal encoding, in ascending order.
const (
	decimalNegInf   byte = 0x01
	decimalNegative byte = 0x02
	decimalZero     byte = 0x03
	decimalPositive byte = 0x04
	decimalInf      byte = 0x05
	decimalNaN      byte = 0x06
)

// maxDecimalExponent bounds the normalized exponent so that it and its
// negation both fit in an int32.
const maxDecimalExponent = math.MaxInt32

type decimalForm uint8

const (
	formFinite decimalForm = iota
	formNegInf
	formInf
	formNaN
)

// Decimal is an arbitrary-precision decimal extended with NaN and the two
// infinities. The zero value is the finite value 0.
//
// Decimals order as: -Inf < finite values < +Inf < NaN.
type Decimal struct {
	form  decimalForm
	value decimal.Decimal
}

// NewDecimal wraps a finite decimal value.
func NewDecimal(v decimal.Decimal) Decimal {
	return Decimal{value: v}
}

// DecimalNaN returns the NaN decimal.
func DecimalNaN() Decimal { return Decimal{form: formNaN} }

// DecimalInf returns positive infinity.
func DecimalInf() Decimal { return Decimal{form: formInf} }

// DecimalNegInf returns negative infinity.
func DecimalNegInf() Decimal { return Decimal{form: formNegInf} }

// ParseDecimal parses a decimal literal. Besides numbers it accepts "NaN",
// "Inf", "+Inf" and "-Inf" (case-insensitive).
func ParseDecimal(s string) (Decimal, error) {
	switch strings.ToLower(s) {
	case "nan":
		return DecimalNaN(), nil
	case "inf", "+inf":
		return DecimalInf(), nil
	case "-inf":
		return DecimalNegInf(), nil
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}

	return NewDecimal(v), nil
}

// MustParseDecimal is like ParseDecimal but panics on malformed input.
func MustParseDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}

	return d
}

// IsNaN reports whether d is NaN.
func (d Decimal) IsNaN() bool { return d.form == formNaN }

// IsInf reports whether d is an infinity with the given sign. A sign of 0
// matches either infinity.
func (d Decimal) IsInf(sign int) bool {
	switch d.form { //nolint: exhaustive
	case formInf:
		return sign >= 0
	case formNegInf:
		return sign <= 0
	default:
		return false
	}
}

// IsFinite reports whether d is neither NaN nor infinite.
func (d Decimal) IsFinite() bool { return d.form == formFinite }

// Value returns the finite value of d, or zero for NaN and infinities.
func (d Decimal) Value() decimal.Decimal {
	if d.form != formFinite {
		return decimal.Zero
	}

	return d.value
}

func (d Decimal) rank() int {
	switch d.form {
	case formNegInf:
		return 0
	case formFinite:
		return 1
	case formInf:
		return 2
	default:
		return 3
	}
}

// Cmp returns -1, 0 or +1 comparing d to o in decimal order.
// Finite values compare numerically, so 1.0 and 1 are equal.
func (d Decimal) Cmp(o Decimal) int {
	if d.form == formFinite && o.form == formFinite {
		return d.value.Cmp(o.value)
	}

	switch dr, or := d.rank(), o.rank(); {
	case dr < or:
		return -1
	case dr > or:
		return 1
	default:
		return 0
	}
}

// Equal reports whether d and o compare equal.
func (d Decimal) Equal(o Decimal) bool {
	return d.Cmp(o) == 0
}

func (d Decimal) String() string {
	switch d.form {
	case formNaN:
		return "NaN"
	case formInf:
		return "Inf"
	case formNegInf:
		return "-Inf"
	default:
		return d.value.String()
	}
}

// AppendDecimal appends the order-preserving encoding of d.
//
// Finite non-zero values are normalized to 0.d1d2...dn x 10^E with d1 != 0
// and no trailing zero digits. The only failure is ErrOverflow when E does
// not fit in an int32.
func AppendDecimal(dst []byte, d Decimal) ([]byte, error) {
	switch d.form {
	case formNegInf:
		return append(dst, decimalNegInf), nil
	case formInf:
		return append(dst, decimalInf), nil
	case formNaN:
		return append(dst, decimalNaN), nil
	case formFinite:
	}

	if d.value.IsZero() {
		return append(dst, decimalZero), nil
	}

	digits, exp, err := normalizeDecimal(d.value)
	if err != nil {
		return dst, err
	}

	if d.value.Sign() > 0 {
		dst = append(dst, decimalPositive)
		dst = AppendInt32(dst, exp)

		return AppendString(dst, digits), nil
	}

	dst = append(dst, decimalNegative)
	dst = AppendInt32(dst, -exp)
	start := len(dst)
	dst = AppendString(dst, digits)
	Invert(dst[start:])

	return dst, nil
}

// normalizeDecimal returns the significant digits of |v| without trailing
// zeros and the exponent E such that |v| = 0.digits x 10^E.
func normalizeDecimal(v decimal.Decimal) (string, int32, error) {
	coef := v.Coefficient()
	coef.Abs(coef)
	full := coef.String()

	e := int64(len(full)) + int64(v.Exponent())
	if e > maxDecimalExponent || e < -maxDecimalExponent {
		return "", 0, fmt.Errorf("%w: exponent %d of %s", errs.ErrOverflow, e, v.String())
	}

	return strings.TrimRight(full, "0"), int32(e), nil
}

// ReadDecimal decodes a decimal written by AppendDecimal.
func (c *Cursor) ReadDecimal() (Decimal, error) {
	sign, err := c.ReadByte()
	if err != nil {
		return Decimal{}, err
	}

	switch sign {
	case decimalNegInf:
		return DecimalNegInf(), nil
	case decimalInf:
		return DecimalInf(), nil
	case decimalNaN:
		return DecimalNaN(), nil
	case decimalZero:
		return Decimal{}, nil
	case decimalNegative, decimalPositive:
	default:
		c.pos--
		return Decimal{}, c.invalid("decimal sign byte 0x%02x", sign)
	}

	neg := sign == decimalNegative
	e, err := c.ReadInt32()
	if err != nil {
		return Decimal{}, err
	}
	if e == math.MinInt32 {
		return Decimal{}, fmt.Errorf("%w: decimal exponent out of range", errs.ErrOverflow)
	}

	start := c.pos
	digits, _, err := c.scanChunks(make([]byte, 0, ChunkSize), true, neg)
	if err != nil {
		return Decimal{}, err
	}
	if err := validateDigits(digits); err != nil {
		return Decimal{}, fmt.Errorf("%w: offset %d: %s", errs.ErrInvalidEncoding, start, err.Error())
	}

	exp := int64(e)
	if neg {
		exp = -exp
	}
	coefExp := exp - int64(len(digits))
	if coefExp < math.MinInt32 {
		return Decimal{}, fmt.Errorf("%w: decimal scale %d", errs.ErrOverflow, coefExp)
	}

	coef, ok := new(big.Int).SetString(string(digits), 10)
	if !ok {
		return Decimal{}, fmt.Errorf("%w: offset %d: malformed digits", errs.ErrInvalidEncoding, start)
	}
	if neg {
		coef.Neg(coef)
	}

	return NewDecimal(decimal.NewFromBigInt(coef, int32(coefExp))), nil
}

// SkipDecimal skips one encoded decimal.
func (c *Cursor) SkipDecimal() error {
	_, err := c.ReadDecimal()
	return err
}

func validateDigits(digits []byte) error {
	if len(digits) == 0 {
		return fmt.Errorf("empty digit string for non-zero decimal")
	}
	for _, b := range digits {
		if b < '0' || b > '9' {
			return fmt.Errorf("digit byte 0x%02x", b)
		}
	}
	if digits[0] == '0' {
		return fmt.Errorf("leading zero digit")
	}
	if digits[len(digits)-1] == '0' {
		return fmt.Errorf("trailing zero digit")
	}

	return nil
}
