package shape

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/arloliu/memcodec/encoding"
	"github.com/arloliu/memcodec/errs"
)

// TagName is the struct tag consulted by Of.
//
//	memcodec:"-"          skip the field
//	memcodec:"name"       use name as the field name
//	memcodec:",char"      encode an int32 field as a Unicode code point
const TagName = "memcodec"

var (
	decimalType = reflect.TypeFor[encoding.Decimal]()
	uint128Type = reflect.TypeFor[encoding.Uint128]()
	int128Type  = reflect.TypeFor[encoding.Int128]()
	shapeCache  sync.Map // reflect.Type -> *Shape
	indexCache  sync.Map // reflect.Type -> []int
)

// Of derives the shape of values of type t.
//
// Go types map as follows: bool, the sized integer and float types, string and
// []byte map to the matching scalar kinds; int and uint map to Int64 and
// Uint64; encoding.Uint128, encoding.Int128 and encoding.Decimal map to
// Uint128, Int128 and Decimal; [N]T is an array; []T is a list; *T
// is an optional; structs are records of their exported fields. Maps,
// interfaces, channels, functions and recursive types fail with
// errs.ErrUnsupportedShape.
func Of(t reflect.Type) (*Shape, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", errs.ErrUnsupportedShape)
	}
	if cached, ok := shapeCache.Load(t); ok {
		return cached.(*Shape), nil //nolint: forcetypeassert
	}

	s, err := derive(t, make(map[reflect.Type]bool))
	if err != nil {
		return nil, err
	}
	shapeCache.Store(t, s)

	return s, nil
}

// For is the generic form of Of.
func For[T any]() (*Shape, error) {
	return Of(reflect.TypeFor[T]())
}

func derive(t reflect.Type, visiting map[reflect.Type]bool) (*Shape, error) {
	switch t {
	case decimalType:
		return Decimal(), nil
	case uint128Type:
		return Uint128(), nil
	case int128Type:
		return Int128(), nil
	}

	switch t.Kind() { //nolint: exhaustive
	case reflect.Bool:
		return Bool(), nil
	case reflect.Uint8:
		return Uint8(), nil
	case reflect.Uint16:
		return Uint16(), nil
	case reflect.Uint32:
		return Uint32(), nil
	case reflect.Uint64, reflect.Uint:
		return Uint64(), nil
	case reflect.Int8:
		return Int8(), nil
	case reflect.Int16:
		return Int16(), nil
	case reflect.Int32:
		return Int32(), nil
	case reflect.Int64, reflect.Int:
		return Int64(), nil
	case reflect.Float32:
		return Float32(), nil
	case reflect.Float64:
		return Float64(), nil
	case reflect.String:
		return String(), nil
	}

	if visiting[t] {
		return nil, fmt.Errorf("%w: recursive type %s", errs.ErrUnsupportedShape, t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	switch t.Kind() { //nolint: exhaustive
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Bytes(), nil
		}
		elem, err := derive(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}

		return List(elem), nil

	case reflect.Array:
		if t.Len() > MaxArrayLen {
			return nil, fmt.Errorf("%w: %s exceeds %d elements", errs.ErrUnsupportedShape, t, MaxArrayLen)
		}
		elem, err := derive(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}

		return Array(t.Len(), elem), nil

	case reflect.Pointer:
		elem, err := derive(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}

		return Optional(elem), nil

	case reflect.Struct:
		return deriveStruct(t, visiting)

	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedShape, t)
	}
}

func deriveStruct(t reflect.Type, visiting map[reflect.Type]bool) (*Shape, error) {
	var fields []Field
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, opts := parseTag(sf)
		if name == "-" {
			continue
		}

		var fs *Shape
		if opts.char {
			if sf.Type.Kind() != reflect.Int32 {
				return nil, fmt.Errorf("%w: %s.%s: char option on %s", errs.ErrUnsupportedShape, t, sf.Name, sf.Type)
			}
			fs = Char()
		} else {
			var err error
			fs, err = derive(sf.Type, visiting)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
			}
		}

		fields = append(fields, Field{Name: name, Shape: fs})
	}

	return Record(fields...), nil
}

// FieldIndexes returns, for struct type t, the index of the Go field behind
// each record field of Of(t), in record order.
func FieldIndexes(t reflect.Type) []int {
	if cached, ok := indexCache.Load(t); ok {
		return cached.([]int) //nolint: forcetypeassert
	}

	var idx []int
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if name, _ := parseTag(sf); name == "-" {
			continue
		}
		idx = append(idx, i)
	}
	indexCache.Store(t, idx)

	return idx
}

type tagOptions struct {
	char bool
}

func parseTag(sf reflect.StructField) (string, tagOptions) {
	tag, ok := sf.Tag.Lookup(TagName)
	if !ok {
		return sf.Name, tagOptions{}
	}
	if tag == "-" {
		return "-", tagOptions{}
	}

	name, rest, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}

	var opts tagOptions
	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")
		if opt == "char" {
			opts.char = true
		}
	}

	return name, opts
}
