//go:build !nodecimal

package memcodec

import (
	"bytes"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/memcodec/encoding"
	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/shape"
)

func TestDecimal_InComposite(t *testing.T) {
	price := shape.Tuple(shape.String(), shape.Decimal())
	requireAscending(t, []any{
		[]any{"eur", encoding.DecimalNegInf()},
		[]any{"eur", encoding.MustParseDecimal("-10.5")},
		[]any{"eur", encoding.MustParseDecimal("0")},
		[]any{"eur", encoding.MustParseDecimal("0.99")},
		[]any{"eur", encoding.MustParseDecimal("1")},
		[]any{"eur", encoding.DecimalInf()},
		[]any{"eur", encoding.DecimalNaN()},
		[]any{"usd", encoding.DecimalNegInf()},
	}, price)

	b := mustEncode(t, []any{"eur", encoding.MustParseDecimal("-10.50")}, price)
	v, err := Decode(b, price)
	require.NoError(t, err)

	items, ok := v.([]any)
	require.True(t, ok)
	require.Equal(t, "eur", items[0])
	d, ok := items[1].(encoding.Decimal)
	require.True(t, ok)
	require.Equal(t, "-10.5", d.String())
}

func TestDecimal_Overflow(t *testing.T) {
	_, err := Encode(encoding.NewDecimal(decimal.New(1, math.MaxInt32)), shape.Decimal())
	require.ErrorIs(t, err, errs.ErrOverflow)
}

func TestDecimal_EqualValuesEqualKeys(t *testing.T) {
	a := mustEncode(t, encoding.MustParseDecimal("2.50"), shape.Decimal())
	b := mustEncode(t, encoding.MustParseDecimal("2.5"), shape.Decimal())
	require.True(t, bytes.Equal(a, b))
}
