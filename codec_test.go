package memcodec

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/memcodec/encoding"
	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/shape"
)

func mustEncode(t *testing.T, v any, s *shape.Shape) []byte {
	t.Helper()
	b, err := Encode(v, s)
	require.NoError(t, err)

	return b
}

func requireAscending(t *testing.T, values []any, s *shape.Shape) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		a := mustEncode(t, values[i-1], s)
		b := mustEncode(t, values[i], s)
		require.Negative(t, bytes.Compare(a, b), "%v should sort before %v", values[i-1], values[i])
	}
}

func TestEncode_ConcreteVectors(t *testing.T) {
	tests := []struct {
		name  string
		value any
		shape *shape.Shape
		want  []byte
	}{
		{"bool true", true, shape.Bool(), []byte{0x01}},
		{"int8 -1", int8(-1), shape.Int8(), []byte{0x7F}},
		{"int8 0", int8(0), shape.Int8(), []byte{0x80}},
		{"uint8 0", uint8(0), shape.Uint8(), []byte{0x00}},
		{"empty bytes", []byte{}, shape.Bytes(), []byte{0, 0, 0, 0, 0, 0, 0, 0, 0x00}},
		{"unit", Unit{}, shape.Unit(), nil},
		{"none", None(), shape.Optional(shape.Uint8()), []byte{0x00}},
		{"nil optional", nil, shape.Optional(shape.Uint8()), []byte{0x00}},
		{"some", Some(uint8(5)), shape.Optional(shape.Uint8()), []byte{0x01, 0x05}},
		{"list", []any{uint8(1), uint8(2)}, shape.List(shape.Uint8()), []byte{0x01, 0x01, 0x01, 0x02, 0x00}},
		{"empty list", []any{}, shape.List(shape.Uint8()), []byte{0x00}},
		{"array", []any{uint16(1), uint16(2)}, shape.Array(2, shape.Uint16()), []byte{0x00, 0x01, 0x00, 0x02}},
		{"int alias", 7, shape.Int64(), []byte{0x80, 0, 0, 0, 0, 0, 0, 7}},
		{"uint alias", uint(7), shape.Uint64(), []byte{0, 0, 0, 0, 0, 0, 0, 7}},
		{
			"tuple",
			[]any{"a", int16(-1)},
			shape.Tuple(shape.String(), shape.Int16()),
			[]byte{'a', 0, 0, 0, 0, 0, 0, 0, 0x01, 0x7F, 0xFF},
		},
		{
			"enum",
			Variant{Index: 1, Value: "x"},
			shape.Enum(shape.V("none", nil), shape.V("named", shape.String())),
			[]byte{0x01, 'x', 0, 0, 0, 0, 0, 0, 0, 0x01},
		},
		{
			"enum unit variant",
			Variant{Index: 0},
			shape.Enum(shape.V("none", nil), shape.V("named", shape.String())),
			[]byte{0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEncode(t, tt.value, tt.shape)
			if len(tt.want) == 0 {
				require.Empty(t, got)
			} else {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEncode_WideEnumDiscriminant(t *testing.T) {
	variants := make([]shape.Variant, 300)
	for i := range variants {
		variants[i] = shape.V(fmt.Sprintf("v%d", i), nil)
	}
	s := shape.Enum(variants...)

	require.Equal(t, []byte{0x01, 0x2B}, mustEncode(t, Variant{Index: 299}, s))
	require.Equal(t, []byte{0x00, 0x00}, mustEncode(t, Variant{Index: 0}, s))

	v, err := Decode([]byte{0x01, 0x2B}, s)
	require.NoError(t, err)
	require.Equal(t, Variant{Index: 299, Value: Unit{}}, v)

	_, err = Decode([]byte{0x01, 0x2C}, s)
	require.ErrorIs(t, err, errs.ErrInvalidEncoding)
}

func TestRoundTrip(t *testing.T) {
	event := shape.Record(
		shape.F("tenant", shape.String()),
		shape.F("seq", shape.Uint64()),
		shape.F("delta", shape.Int32()),
		shape.F("score", shape.Float64()),
		shape.F("ratio", shape.Float32()),
		shape.F("flag", shape.Bool()),
		shape.F("initial", shape.Char()),
		shape.F("payload", shape.Bytes()),
		shape.F("parent", shape.Optional(shape.Uint16())),
		shape.F("labels", shape.List(shape.String())),
		shape.F("digest", shape.Array(2, shape.Uint8())),
		shape.F("state", shape.Enum(shape.V("open", nil), shape.V("closed", shape.Int64()))),
		shape.F("marker", shape.Unit()),
		shape.F("small", shape.Tuple(shape.Int8(), shape.Int16(), shape.Uint32())),
	)

	value := []any{
		"tenant-1",
		uint64(math.MaxUint64),
		int32(-12345),
		-0.25,
		float32(3.5),
		true,
		'ß',
		[]byte{0x00, 0xFF, 0x00, 0xFF, 0x01, 0x02, 0x03, 0x04, 0x05},
		Some(uint16(9)),
		[]any{"a", "", "abcdefgh"},
		[]any{uint8(1), uint8(2)},
		Variant{Index: 1, Value: int64(-1)},
		Unit{},
		[]any{int8(-128), int16(32767), uint32(0)},
	}

	b := mustEncode(t, value, event)
	got, err := Decode(b, event)
	require.NoError(t, err)
	require.Equal(t, value, got)

	d := NewDecoder(b)
	require.NoError(t, d.Skip(event))
	require.Equal(t, len(b), d.Position())
	require.NoError(t, d.Finish())
}

func TestOrder_Integers(t *testing.T) {
	requireAscending(t, []any{
		int64(math.MinInt64), int64(math.MinInt64 + 1), int64(-1), int64(0), int64(1), int64(math.MaxInt64),
	}, shape.Int64())
	requireAscending(t, []any{uint16(0), uint16(1), uint16(255), uint16(256), uint16(math.MaxUint16)}, shape.Uint16())
}

func TestOrder_WideIntegers(t *testing.T) {
	signed := []any{
		encoding.Int128{Hi: math.MinInt64},
		encoding.Int128{Hi: math.MinInt64, Lo: 1},
		encoding.Int128From64(math.MinInt64),
		encoding.Int128From64(-1),
		encoding.Int128From64(0),
		encoding.Int128From64(1),
		encoding.Int128{Hi: 1},
		encoding.Int128{Hi: math.MaxInt64, Lo: math.MaxUint64},
	}
	requireAscending(t, signed, shape.Int128())

	unsigned := []any{
		encoding.Uint128{},
		encoding.Uint128From64(1),
		encoding.Uint128From64(math.MaxUint64),
		encoding.Uint128{Hi: 1},
		encoding.Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64},
	}
	requireAscending(t, unsigned, shape.Uint128())

	min128 := mustEncode(t, signed[0], shape.Int128())
	require.Equal(t, append([]byte{0x00}, make([]byte, 15)...), min128)
	require.Equal(t, bytes.Repeat([]byte{0xFF}, 16), mustEncode(t, signed[len(signed)-1], shape.Int128()))
	require.Equal(t, append([]byte{0x7F}, bytes.Repeat([]byte{0xFF}, 15)...), mustEncode(t, encoding.Int128From64(-1), shape.Int128()))

	key := shape.Tuple(shape.Int128(), shape.Uint128(), shape.Bool())
	for _, v := range signed {
		in := []any{v, encoding.Uint128{Hi: 3, Lo: 4}, true}
		b := mustEncode(t, in, key)
		require.Len(t, b, 33)

		out, err := Decode(b, key)
		require.NoError(t, err)
		require.Equal(t, in, out)

		d := NewDecoder(b)
		require.NoError(t, d.Skip(shape.Int128()))
		require.Equal(t, 16, d.Position())
		require.NoError(t, d.Skip(shape.Uint128()))
		require.Equal(t, 32, d.Position())
	}
}

func TestOrder_Floats(t *testing.T) {
	requireAscending(t, []any{
		math.Inf(-1), -1e300, -1.0, -1e-300, math.Copysign(0, -1), 0.0, 1e-300, 1.0, 1e300, math.Inf(1),
	}, shape.Float64())
}

func TestOrder_Bytes(t *testing.T) {
	requireAscending(t, []any{
		[]byte{},
		[]byte{0x00},
		[]byte{0x00, 0x00},
		bytes.Repeat([]byte{0x00}, 7),
		bytes.Repeat([]byte{0x00}, 8),
		bytes.Repeat([]byte{0x00}, 9),
		bytes.Repeat([]byte{0x00}, 16),
		[]byte{0x00, 0xFF},
		[]byte{0x01},
		bytes.Repeat([]byte{0xFF}, 7),
		bytes.Repeat([]byte{0xFF}, 8),
		bytes.Repeat([]byte{0xFF}, 9),
		bytes.Repeat([]byte{0xFF}, 16),
	}, shape.Bytes())
}

func TestOrder_Optional(t *testing.T) {
	requireAscending(t, []any{None(), Some(int64(math.MinInt64)), Some(int64(0)), Some(int64(math.MaxInt64))},
		shape.Optional(shape.Int64()))
}

func TestOrder_Enum(t *testing.T) {
	s := shape.Enum(shape.V("small", shape.String()), shape.V("large", shape.Uint8()))
	requireAscending(t, []any{
		Variant{Index: 0, Value: ""},
		Variant{Index: 0, Value: strings.Repeat("\xff", 20)},
		Variant{Index: 1, Value: uint8(0)},
		Variant{Index: 1, Value: uint8(1)},
	}, s)
}

func TestOrder_ListPrefix(t *testing.T) {
	requireAscending(t, []any{
		[]any{},
		[]any{int8(-1)},
		[]any{int8(1)},
		[]any{int8(1), int8(-128)},
		[]any{int8(1), int8(2)},
		[]any{int8(2)},
	}, shape.List(shape.Int8()))
}

func TestOrder_TuplePrefixSafety(t *testing.T) {
	s := shape.Tuple(shape.String(), shape.String())
	a := mustEncode(t, []any{"ab", "c"}, s)
	b := mustEncode(t, []any{"a", "bc"}, s)
	require.NotEqual(t, a, b)
	require.Positive(t, bytes.Compare(a, b))

	// the shorter first field always wins, whatever follows
	c := mustEncode(t, []any{"a", strings.Repeat("\xff", 32)}, s)
	require.Negative(t, bytes.Compare(c, a))
}

func TestOrder_RandomTuples(t *testing.T) {
	type row struct {
		id    int64
		name  string
		score float64
	}
	s := shape.Tuple(shape.Int64(), shape.String(), shape.Float64())
	rng := rand.New(rand.NewPCG(7, 42))
	alphabet := []byte{0x00, 0x01, 'a', 'b', 0xFE, 0xFF}

	randomRow := func() row {
		n := rng.IntN(20)
		name := make([]byte, n)
		for i := range name {
			name[i] = alphabet[rng.IntN(len(alphabet))]
		}

		return row{id: rng.Int64N(5) - 2, name: string(name), score: rng.NormFloat64()}
	}
	compareRows := func(a, b row) int {
		return cmp.Or(cmp.Compare(a.id, b.id), strings.Compare(a.name, b.name), cmp.Compare(a.score, b.score))
	}

	for range 2000 {
		a, b := randomRow(), randomRow()
		ea := mustEncode(t, []any{a.id, a.name, a.score}, s)
		eb := mustEncode(t, []any{b.id, b.name, b.score}, s)
		require.Equal(t, compareRows(a, b), bytes.Compare(ea, eb), "%+v vs %+v", a, b)
	}
}

func TestRoundTrip_RandomBytes(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		b := make([]byte, rng.IntN(40))
		for i := range b {
			b[i] = byte(rng.UintN(256))
		}

		got, err := Decode(mustEncode(t, b, shape.Bytes()), shape.Bytes())
		require.NoError(t, err)
		require.Equal(t, b, got)
	}
}

func TestEncode_ShapeMismatch(t *testing.T) {
	enum := shape.Enum(shape.V("a", nil))
	tests := []struct {
		name  string
		value any
		shape *shape.Shape
	}{
		{"string for uint8", "x", shape.Uint8()},
		{"int for int32", 1, shape.Int32()},
		{"string for bytes", "x", shape.Bytes()},
		{"bytes for string", []byte("x"), shape.String()},
		{"short array", []any{uint8(1)}, shape.Array(2, shape.Uint8())},
		{"record arity", []any{true}, shape.Tuple(shape.Bool(), shape.Bool())},
		{"variant out of range", Variant{Index: 1}, enum},
		{"negative variant", Variant{Index: -1}, enum},
		{"bad optional payload", Some("x"), shape.Optional(shape.Bool())},
		{"raw value for optional", true, shape.Optional(shape.Bool())},
		{"nested list element", []any{int8(1), "two"}, shape.List(shape.Int8())},
		{"value for unit", 1, shape.Unit()},
		{"unit payload", Variant{Index: 0, Value: true}, enum},
		{"int64 for int128", int64(1), shape.Int128()},
		{"signed for uint128", encoding.Int128From64(1), shape.Uint128()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.value, tt.shape)
			require.ErrorIs(t, err, errs.ErrShapeMismatch)
		})
	}
}

func TestEncode_InvalidShape(t *testing.T) {
	_, err := Encode([]any{}, shape.List(nil))
	require.ErrorIs(t, err, errs.ErrInvalidShape)

	_, err = Decode([]byte{0x00}, nil)
	require.ErrorIs(t, err, errs.ErrInvalidShape)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		shape *shape.Shape
		want  error
	}{
		{"truncated int", []byte{0x80, 0x00}, shape.Int32(), errs.ErrUnexpectedEnd},
		{"empty input", nil, shape.Bool(), errs.ErrUnexpectedEnd},
		{"bad bool", []byte{0x02}, shape.Bool(), errs.ErrInvalidEncoding},
		{"discriminant out of range", []byte{0x02}, shape.Enum(shape.V("a", nil), shape.V("b", nil)), errs.ErrInvalidEncoding},
		{"optional marker", []byte{0x02, 0x00}, shape.Optional(shape.Uint8()), errs.ErrInvalidEncoding},
		{"list marker", []byte{0x01, 0x05, 0x07}, shape.List(shape.Uint8()), errs.ErrInvalidEncoding},
		{"unterminated list", []byte{0x01, 0x05}, shape.List(shape.Uint8()), errs.ErrUnexpectedEnd},
		{"invalid utf8", encoding.AppendBytes(nil, []byte{0xC3, 0x28}), shape.String(), errs.ErrInvalidUTF8},
		{"invalid char", []byte{0x00, 0x00, 0xDF, 0xFF}, shape.Char(), errs.ErrInvalidEncoding},
		{"trailing", []byte{0x01, 0x00}, shape.Bool(), errs.ErrTrailingBytes},
		{"truncated record", []byte{0x01}, shape.Tuple(shape.Bool(), shape.Bool()), errs.ErrUnexpectedEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode(tt.data, tt.shape)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, v)
		})
	}
}

func TestDecode_OversizedArray(t *testing.T) {
	huge := shape.Array(math.MaxInt, shape.Uint8())
	require.NotPanics(t, func() {
		_, err := Decode([]byte{1, 2, 3}, huge)
		require.ErrorIs(t, err, errs.ErrInvalidShape)

		err = NewDecoder([]byte{1, 2, 3}).Skip(huge)
		require.ErrorIs(t, err, errs.ErrInvalidShape)
	})

	_, err := shape.ParseYAML([]byte("kind: array\nlen: 4611686018427387904\nelem: {kind: uint8}"))
	require.ErrorIs(t, err, errs.ErrInvalidShape)

	// The largest accepted length still fails on short input without
	// allocating for the declared length.
	limit := shape.Array(shape.MaxArrayLen, shape.Uint8())
	require.NotPanics(t, func() {
		v, err := Decode([]byte{1, 2, 3}, limit)
		require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
		require.Nil(t, v)

		d := NewDecoder([]byte{1, 2, 3})
		require.ErrorIs(t, d.Skip(limit), errs.ErrUnexpectedEnd)
		require.Equal(t, 0, d.Position())
	})
}

func TestDecode_AllowTrailing(t *testing.T) {
	v, err := Decode([]byte{0x01, 0xAA, 0xBB}, shape.Bool(), WithAllowTrailing())
	require.NoError(t, err)
	require.Equal(t, true, v)
}

func TestAppendEncode(t *testing.T) {
	prefix := []byte("idx:")
	out, err := AppendEncode(slices.Clone(prefix), uint16(0x0102), shape.Uint16())
	require.NoError(t, err)
	require.Equal(t, []byte("idx:\x01\x02"), out)

	out, err = AppendEncode(slices.Clone(prefix), []any{"ok", "bad"}, shape.Tuple(shape.String(), shape.Bool()))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
	require.Equal(t, prefix, out)
}

func TestEncoder_Streaming(t *testing.T) {
	enc := NewEncoder()
	defer enc.Release()

	require.NoError(t, enc.Encode("tenant", shape.String()))
	require.NoError(t, enc.Encode(int64(-5), shape.Int64()))
	before := enc.Len()

	err := enc.Encode([]any{int8(1), "oops"}, shape.List(shape.Int8()))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
	require.Equal(t, before, enc.Len())

	whole := mustEncode(t, []any{"tenant", int64(-5)}, shape.Tuple(shape.String(), shape.Int64()))
	require.Equal(t, whole, enc.Bytes())
	require.Equal(t, whole, enc.Clone())

	enc.Reset()
	require.Equal(t, 0, enc.Len())
}

func TestDecoder_Streaming(t *testing.T) {
	b := mustEncode(t, []any{"tenant", int64(-5), true}, shape.Tuple(shape.String(), shape.Int64(), shape.Bool()))
	d := NewDecoder(b)

	require.NoError(t, d.Skip(shape.String()))
	require.Equal(t, 9, d.Position())

	// a failed decode leaves the position untouched
	_, err := d.Decode(shape.Tuple(shape.Int64(), shape.Int64()))
	require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
	require.Equal(t, 9, d.Position())

	v, err := d.Decode(shape.Int64())
	require.NoError(t, err)
	require.Equal(t, int64(-5), v)
	require.Equal(t, 1, d.Remaining())
	require.ErrorIs(t, d.Finish(), errs.ErrTrailingBytes)

	v, err = d.Decode(shape.Bool())
	require.NoError(t, err)
	require.Equal(t, true, v)
	require.NoError(t, d.Finish())
}

func TestInvert_Descending(t *testing.T) {
	key := func(tenant string, ts int64) []byte {
		b := mustEncode(t, tenant, shape.String())
		desc := mustEncode(t, ts, shape.Int64())
		Invert(desc)

		return append(b, desc...)
	}

	// same tenant: newer timestamps first
	require.Negative(t, bytes.Compare(key("a", 200), key("a", 100)))
	require.Negative(t, bytes.Compare(key("a", 100), key("b", 200)))

	inverted := key("a", 100)[9:]
	Invert(inverted)
	v, err := Decode(inverted, shape.Int64())
	require.NoError(t, err)
	require.Equal(t, int64(100), v)
}

func TestFingerprint(t *testing.T) {
	require.Equal(t, uint64(0xef46db3751d8e999), Fingerprint(nil))

	a := mustEncode(t, "key-a", shape.String())
	b := mustEncode(t, "key-b", shape.String())
	require.NotEqual(t, Fingerprint(a), Fingerprint(b))
	require.Equal(t, Fingerprint(a), Fingerprint(slices.Clone(a)))
}
