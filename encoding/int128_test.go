package encoding

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/memcodec/errs"
)

var (
	minInt128 = Int128{Hi: math.MinInt64}
	maxInt128 = Int128{Hi: math.MaxInt64, Lo: math.MaxUint64}
)

func TestAppendInt128_Vectors(t *testing.T) {
	tests := []struct {
		name string
		v    Int128
		want []byte
	}{
		{"min", minInt128, bytes.Repeat([]byte{0x00}, 16)},
		{"minus_one", Int128From64(-1), append([]byte{0x7F}, bytes.Repeat([]byte{0xFF}, 15)...)},
		{"zero", Int128From64(0), append([]byte{0x80}, make([]byte, 15)...)},
		{"one", Int128From64(1), append(append([]byte{0x80}, make([]byte, 14)...), 0x01)},
		{"max", maxInt128, bytes.Repeat([]byte{0xFF}, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := AppendInt128(nil, tt.v)
			require.Equal(t, tt.want, b)

			c := NewCursor(b)
			got, err := c.ReadInt128()
			require.NoError(t, err)
			require.Equal(t, tt.v, got)
			require.False(t, c.HasRemaining())
		})
	}

	// Each vector sorts after the previous one.
	for i := 1; i < len(tests); i++ {
		require.Negative(t, bytes.Compare(tests[i-1].want, tests[i].want))
	}
}

func TestAppendUint128_Vectors(t *testing.T) {
	maxU := Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}
	values := []Uint128{{}, Uint128From64(1), Uint128From64(math.MaxUint64), {Hi: 1}, maxU}

	require.Equal(t, make([]byte, 16), AppendUint128(nil, Uint128{}))
	require.Equal(t, append(make([]byte, 7), 0x01, 0, 0, 0, 0, 0, 0, 0, 0), AppendUint128(nil, Uint128{Hi: 1}))
	require.Equal(t, bytes.Repeat([]byte{0xFF}, 16), AppendUint128(nil, maxU))

	for i, v := range values {
		b := AppendUint128(nil, v)
		got, err := NewCursor(b).ReadUint128()
		require.NoError(t, err)
		require.Equal(t, v, got)

		if i > 0 {
			require.Negative(t, bytes.Compare(AppendUint128(nil, values[i-1]), b))
		}
	}
}

func TestInt128_RandomOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(128, 7))
	for range 2000 {
		a := Int128{Hi: int64(rng.Uint64()), Lo: rng.Uint64()} //nolint:gosec
		b := Int128{Hi: int64(rng.Uint64()), Lo: rng.Uint64()} //nolint:gosec
		if rng.IntN(4) == 0 {
			b.Hi = a.Hi
		}

		require.Equal(t, a.Cmp(b), bytes.Compare(AppendInt128(nil, a), AppendInt128(nil, b)), "%s vs %s", a, b)
		require.Equal(t, a.Cmp(b), a.Big().Cmp(b.Big()))

		ua, ub := Uint128{Hi: uint64(a.Hi), Lo: a.Lo}, Uint128{Hi: uint64(b.Hi), Lo: b.Lo} //nolint:gosec
		require.Equal(t, ua.Cmp(ub), bytes.Compare(AppendUint128(nil, ua), AppendUint128(nil, ub)))
	}
}

func TestInt128_String(t *testing.T) {
	require.Equal(t, "-170141183460469231731687303715884105728", minInt128.String())
	require.Equal(t, "170141183460469231731687303715884105727", maxInt128.String())
	require.Equal(t, "-1", Int128From64(-1).String())
	require.Equal(t, "-42", Int128From64(-42).String())
	require.Equal(t, "18446744073709551616", Uint128{Hi: 1}.String())
	require.Equal(t, "340282366920938463463374607431768211455", Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}.String())
}

func TestReadInt128_UnexpectedEnd(t *testing.T) {
	c := NewCursor(make([]byte, 15))
	_, err := c.ReadInt128()
	require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
	require.Equal(t, 0, c.Position())

	_, err = c.ReadUint128()
	require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
}
