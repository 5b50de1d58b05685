// Package shape describes the structure of values handled by memcodec.
//
// Encodings carry no type information, so decoding always needs the shape the
// value was encoded with. A Shape is an immutable tree built from the
// constructors in this package:
//
//	user := shape.Record(
//		shape.F("tenant", shape.String()),
//		shape.F("id", shape.Uint64()),
//		shape.F("deleted_at", shape.Optional(shape.Int64())),
//	)
//
// Field order and variant order are part of the encoding contract. Reordering
// them changes both the bytes and the sort order of existing keys.
//
// Shapes can also be derived from Go types with Of, and persisted as
// Descriptors in CBOR or YAML.
package shape

import (
	"strconv"
	"strings"

	"github.com/arloliu/memcodec/format"
)

// MaxVariants is the largest number of variants an enum may declare.
const MaxVariants = 1 << 16

// MaxArrayLen is the largest element count an array shape may declare.
const MaxArrayLen = 1 << 20

// Shape is a node of a shape tree. Shapes are immutable once built and safe
// for concurrent use.
type Shape struct {
	kind     format.Kind
	length   int
	elem     *Shape
	fields   []Field
	variants []Variant
}

// Field is a named member of a record. Tuple members have an empty name.
type Field struct {
	Name  string
	Shape *Shape
}

// Variant is a named alternative of an enum.
type Variant struct {
	Name  string
	Shape *Shape
}

// F is shorthand for a record field.
func F(name string, s *Shape) Field {
	return Field{Name: name, Shape: s}
}

// V is shorthand for an enum variant. A nil shape declares a variant
// without payload.
func V(name string, s *Shape) Variant {
	if s == nil {
		s = Unit()
	}

	return Variant{Name: name, Shape: s}
}

func scalar(k format.Kind) *Shape { return &Shape{kind: k} }

// Unit returns the shape of a value that encodes to zero bytes.
func Unit() *Shape { return scalar(format.KindUnit) }

// Bool returns the shape of a bool, one 0x00/0x01 byte.
func Bool() *Shape { return scalar(format.KindBool) }

// Uint8 returns the shape of a uint8.
func Uint8() *Shape { return scalar(format.KindUint8) }

// Uint16 returns the shape of a uint16.
func Uint16() *Shape { return scalar(format.KindUint16) }

// Uint32 returns the shape of a uint32.
func Uint32() *Shape { return scalar(format.KindUint32) }

// Uint64 returns the shape of a uint64.
func Uint64() *Shape { return scalar(format.KindUint64) }

// Uint128 returns the shape of an encoding.Uint128.
func Uint128() *Shape { return scalar(format.KindUint128) }

// Int8 returns the shape of an int8.
func Int8() *Shape { return scalar(format.KindInt8) }

// Int16 returns the shape of an int16.
func Int16() *Shape { return scalar(format.KindInt16) }

// Int32 returns the shape of an int32.
func Int32() *Shape { return scalar(format.KindInt32) }

// Int64 returns the shape of an int64.
func Int64() *Shape { return scalar(format.KindInt64) }

// Int128 returns the shape of an encoding.Int128.
func Int128() *Shape { return scalar(format.KindInt128) }

// Float32 returns the shape of a float32.
func Float32() *Shape { return scalar(format.KindFloat32) }

// Float64 returns the shape of a float64.
func Float64() *Shape { return scalar(format.KindFloat64) }

// Char returns the shape of a rune stored as a 4-byte code point.
func Char() *Shape { return scalar(format.KindChar) }

// Bytes returns the shape of a []byte.
func Bytes() *Shape { return scalar(format.KindBytes) }

// String returns the shape of a UTF-8 string.
func String() *Shape { return scalar(format.KindString) }

// Decimal returns the shape of an encoding.Decimal.
func Decimal() *Shape { return scalar(format.KindDecimal) }

// Optional returns the shape of a value that may be absent.
func Optional(elem *Shape) *Shape {
	return &Shape{kind: format.KindOptional, elem: elem}
}

// Array returns the shape of a sequence of exactly n elements. The count is
// not written to the encoding.
func Array(n int, elem *Shape) *Shape {
	return &Shape{kind: format.KindArray, length: n, elem: elem}
}

// List returns the shape of a sequence of any length.
func List(elem *Shape) *Shape {
	return &Shape{kind: format.KindList, elem: elem}
}

// Record returns the shape of a fixed sequence of fields, encoded in the order
// given.
func Record(fields ...Field) *Shape {
	return &Shape{kind: format.KindRecord, fields: cloneSlice(fields)}
}

// Tuple returns a record whose fields are unnamed.
func Tuple(elems ...*Shape) *Shape {
	var fields []Field
	for _, e := range elems {
		fields = append(fields, Field{Shape: e})
	}

	return &Shape{kind: format.KindRecord, fields: fields}
}

// Enum returns the shape of a tagged union. The variant index is the
// discriminant, so variants sort in declaration order.
func Enum(variants ...Variant) *Shape {
	return &Shape{kind: format.KindEnum, variants: cloneSlice(variants)}
}

func cloneSlice[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}

	return append([]T(nil), s...)
}

// Kind returns the kind of s.
func (s *Shape) Kind() format.Kind {
	if s == nil {
		return format.KindInvalid
	}

	return s.kind
}

// Elem returns the element shape of an optional, array or list.
func (s *Shape) Elem() *Shape { return s.elem }

// Len returns the element count of an array.
func (s *Shape) Len() int { return s.length }

// NumFields returns the number of record fields.
func (s *Shape) NumFields() int { return len(s.fields) }

// Field returns the i-th record field.
func (s *Shape) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the record fields.
func (s *Shape) Fields() []Field { return cloneSlice(s.fields) }

// NumVariants returns the number of enum variants.
func (s *Shape) NumVariants() int { return len(s.variants) }

// Variant returns the i-th enum variant.
func (s *Shape) Variant(i int) Variant { return s.variants[i] }

// Variants returns a copy of the enum variants.
func (s *Shape) Variants() []Variant { return cloneSlice(s.variants) }

// VariantIndex returns the index of the variant called name, or -1.
func (s *Shape) VariantIndex(name string) int {
	for i, v := range s.variants {
		if v.Name == name {
			return i
		}
	}

	return -1
}

// DiscriminantWidth returns the number of bytes used for an enum
// discriminant: 1 for up to 256 variants, otherwise 2.
func (s *Shape) DiscriminantWidth() int {
	if len(s.variants) <= 1<<8 {
		return 1
	}

	return 2
}

// IsTuple reports whether s is a record whose fields are all unnamed.
func (s *Shape) IsTuple() bool {
	if s.Kind() != format.KindRecord || len(s.fields) == 0 {
		return false
	}
	for _, f := range s.fields {
		if f.Name != "" {
			return false
		}
	}

	return true
}

// Equal reports whether s and o describe the same encoding, names included.
func (s *Shape) Equal(o *Shape) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.kind != o.kind || s.length != o.length {
		return false
	}
	if (s.elem != nil || o.elem != nil) && !s.elem.Equal(o.elem) {
		return false
	}
	if len(s.fields) != len(o.fields) || len(s.variants) != len(o.variants) {
		return false
	}
	for i := range s.fields {
		if s.fields[i].Name != o.fields[i].Name || !s.fields[i].Shape.Equal(o.fields[i].Shape) {
			return false
		}
	}
	for i := range s.variants {
		if s.variants[i].Name != o.variants[i].Name || !s.variants[i].Shape.Equal(o.variants[i].Shape) {
			return false
		}
	}

	return true
}

// String renders s in a compact notation, e.g.
// record{id: uint64, tags: list<string>}.
func (s *Shape) String() string {
	var sb strings.Builder
	s.writeTo(&sb)

	return sb.String()
}

func (s *Shape) writeTo(sb *strings.Builder) {
	if s == nil {
		sb.WriteString("<nil>")
		return
	}

	switch s.kind { //nolint: exhaustive
	case format.KindOptional, format.KindList:
		sb.WriteString(s.kind.String())
		sb.WriteByte('<')
		s.elem.writeTo(sb)
		sb.WriteByte('>')
	case format.KindArray:
		sb.WriteString("array[")
		sb.WriteString(strconv.Itoa(s.length))
		sb.WriteString("]<")
		s.elem.writeTo(sb)
		sb.WriteByte('>')
	case format.KindRecord:
		open, closing := "record{", "}"
		if s.IsTuple() {
			open, closing = "(", ")"
		}
		sb.WriteString(open)
		for i, f := range s.fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			if f.Name != "" {
				sb.WriteString(f.Name)
				sb.WriteString(": ")
			}
			f.Shape.writeTo(sb)
		}
		sb.WriteString(closing)
	case format.KindEnum:
		sb.WriteString("enum{")
		for i, v := range s.variants {
			if i > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(v.Name)
			if v.Shape.Kind() != format.KindUnit {
				sb.WriteByte('(')
				v.Shape.writeTo(sb)
				sb.WriteByte(')')
			}
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(s.kind.String())
	}
}
