//go:build nodecimal

package encoding

import (
	"fmt"

	"github.com/arloliu/memcodec/errs"
)

// DecimalEnabled reports whether the decimal codec is compiled in.
const DecimalEnabled = false

// Decimal is a placeholder when built with the nodecimal tag. Values of this
// type cannot be encoded or decoded.
type Decimal struct{}

// ParseDecimal always fails when built with the nodecimal tag.
func ParseDecimal(s string) (Decimal, error) {
	return Decimal{}, fmt.Errorf("%w: decimal support disabled, cannot parse %q", errs.ErrUnsupportedShape, s)
}

// Cmp always reports equality.
func (Decimal) Cmp(Decimal) int { return 0 }

// Equal always reports true.
func (Decimal) Equal(Decimal) bool { return true }

func (Decimal) String() string { return "<decimal disabled>" }

// AppendDecimal always fails when built with the nodecimal tag.
func AppendDecimal(dst []byte, _ Decimal) ([]byte, error) {
	return dst, fmt.Errorf("%w: decimal support disabled", errs.ErrUnsupportedShape)
}

// ReadDecimal always fails when built with the nodecimal tag.
func (c *Cursor) ReadDecimal() (Decimal, error) {
	return Decimal{}, fmt.Errorf("%w: decimal support disabled", errs.ErrUnsupportedShape)
}

// SkipDecimal always fails when built with the nodecimal tag.
func (c *Cursor) SkipDecimal() error {
	_, err := c.ReadDecimal()
	return err
}
