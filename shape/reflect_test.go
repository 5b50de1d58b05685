package shape

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/memcodec/encoding"
	"github.com/arloliu/memcodec/errs"
)

type sampleEvent struct {
	Tenant   string
	Seq      uint32
	Offset   int
	Score    float64
	Payload  []byte
	Labels   []string
	Parent   *uint64
	Hash     [2]uint16
	Initial  rune `memcodec:",char"`
	Amount   encoding.Decimal
	Internal string `memcodec:"-"`
	Renamed  bool   `memcodec:"flag"`
	hidden   int
}

func TestOf_Struct(t *testing.T) {
	s, err := Of(reflect.TypeFor[sampleEvent]())
	require.NoError(t, err)

	want := Record(
		F("Tenant", String()),
		F("Seq", Uint32()),
		F("Offset", Int64()),
		F("Score", Float64()),
		F("Payload", Bytes()),
		F("Labels", List(String())),
		F("Parent", Optional(Uint64())),
		F("Hash", Array(2, Uint16())),
		F("Initial", Char()),
		F("Amount", Decimal()),
		F("flag", Bool()),
	)
	require.True(t, want.Equal(s), "got %s", s)
	require.NoError(t, s.Validate())

	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 11}, FieldIndexes(reflect.TypeFor[sampleEvent]()))
}

func TestOf_WideIntegers(t *testing.T) {
	type ledgerKey struct {
		Account encoding.Uint128
		Balance encoding.Int128
		Parts   [2]encoding.Uint128
	}

	s, err := For[ledgerKey]()
	require.NoError(t, err)

	want := Record(
		F("Account", Uint128()),
		F("Balance", Int128()),
		F("Parts", Array(2, Uint128())),
	)
	require.True(t, want.Equal(s), "got %s", s)
	require.Equal(t, "record{Account: uint128, Balance: int128, Parts: array[2]<uint128>}", s.String())
}

func TestOf_Cached(t *testing.T) {
	a, err := For[sampleEvent]()
	require.NoError(t, err)
	b, err := For[sampleEvent]()
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestOf_Unsupported(t *testing.T) {
	type recursive struct {
		Next *recursive
	}
	type badChar struct {
		C string `memcodec:",char"`
	}
	type withMap struct {
		M map[string]int
	}

	tests := []struct {
		name string
		typ  reflect.Type
	}{
		{"map", reflect.TypeFor[map[string]int]()},
		{"interface", reflect.TypeFor[any]()},
		{"chan", reflect.TypeFor[chan int]()},
		{"func", reflect.TypeFor[func()]()},
		{"uintptr", reflect.TypeFor[uintptr]()},
		{"complex", reflect.TypeFor[complex128]()},
		{"recursive", reflect.TypeFor[recursive]()},
		{"char on string", reflect.TypeFor[badChar]()},
		{"nested map", reflect.TypeFor[withMap]()},
		{"oversized array", reflect.TypeFor[[MaxArrayLen + 1]uint8]()},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Of(tt.typ)
			require.ErrorIs(t, err, errs.ErrUnsupportedShape)
		})
	}
}

func TestOf_SharedElementTypes(t *testing.T) {
	type pair struct {
		A, B *int8
	}

	s, err := For[pair]()
	require.NoError(t, err)
	require.Equal(t, "record{A: optional<int8>, B: optional<int8>}", s.String())
}

func TestOf_Concurrent(t *testing.T) {
	type concurrent struct {
		X int16
		Y []float32
	}

	var wg sync.WaitGroup
	results := make([]*Shape, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := For[concurrent]()
			if err == nil {
				results[i] = s
			}
		}(i)
	}
	wg.Wait()

	for _, s := range results {
		require.NotNil(t, s)
		require.True(t, results[0].Equal(s))
	}
}
