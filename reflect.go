package memcodec

import (
	"fmt"
	"reflect"

	"github.com/arloliu/memcodec/encoding"
	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/format"
	"github.com/arloliu/memcodec/internal/pool"
	"github.com/arloliu/memcodec/shape"
)

// Marshal encodes a Go value using the shape derived from its type by
// shape.Of. Struct fields are encoded in declaration order.
//
// Pointers passed directly to Marshal are dereferenced, so Marshal(&v) and
// Marshal(v) produce the same bytes and both decode with Unmarshal(b, &v).
// Pointers inside a value are optionals.
func Marshal(v any) ([]byte, error) {
	buf := pool.GetKeyBuffer()
	defer pool.PutKeyBuffer(buf)

	out, err := AppendMarshal(buf.B, v)
	if err != nil {
		return nil, err
	}
	buf.B = out

	return buf.Clone(), nil
}

// AppendMarshal appends the encoding of v to dst. On error dst is returned
// with its original length.
func AppendMarshal(dst []byte, v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() == reflect.Pointer {
		return dst, fmt.Errorf("%w: nil value", errs.ErrUnsupportedShape)
	}

	s, err := shape.Of(rv.Type())
	if err != nil {
		return dst, err
	}

	n := len(dst)
	out, err := appendReflect(dst, rv, s)
	if err != nil {
		return out[:n], err
	}

	return out, nil
}

// Unmarshal decodes b into the value ptr points to, using the shape of its
// type. When ptr points to a pointer, the pointed-to type is decoded and new
// pointers are allocated, mirroring Marshal. ptr is only written when
// decoding succeeds.
func Unmarshal(b []byte, ptr any, opts ...DecodeOption) error {
	cfg, err := newDecodeConfig(opts)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: Unmarshal needs a non-nil pointer, got %T", errs.ErrUnsupportedShape, ptr)
	}

	t := rv.Type().Elem()
	depth := 0
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		depth++
	}
	s, err := shape.Of(t)
	if err != nil {
		return err
	}

	c := encoding.NewCursor(b)
	tmp := reflect.New(t).Elem()
	if err := readReflect(c, tmp, s); err != nil {
		return err
	}
	if !cfg.allowTrailing && c.HasRemaining() {
		return fmt.Errorf("%w: %d bytes after offset %d", errs.ErrTrailingBytes, c.Remaining(), c.Position())
	}
	for range depth {
		p := reflect.New(tmp.Type())
		p.Elem().Set(tmp)
		tmp = p
	}
	rv.Elem().Set(tmp)

	return nil
}

func appendReflect(dst []byte, rv reflect.Value, s *shape.Shape) ([]byte, error) {
	switch s.Kind() { //nolint: exhaustive
	case format.KindBool:
		return encoding.AppendBool(dst, rv.Bool()), nil
	case format.KindUint8:
		return encoding.AppendUint8(dst, uint8(rv.Uint())), nil //nolint:gosec
	case format.KindUint16:
		return encoding.AppendUint16(dst, uint16(rv.Uint())), nil //nolint:gosec
	case format.KindUint32:
		return encoding.AppendUint32(dst, uint32(rv.Uint())), nil //nolint:gosec
	case format.KindUint64:
		return encoding.AppendUint64(dst, rv.Uint()), nil
	case format.KindUint128:
		n, _ := rv.Interface().(encoding.Uint128)
		return encoding.AppendUint128(dst, n), nil
	case format.KindInt8:
		return encoding.AppendInt8(dst, int8(rv.Int())), nil //nolint:gosec
	case format.KindInt16:
		return encoding.AppendInt16(dst, int16(rv.Int())), nil //nolint:gosec
	case format.KindInt32:
		return encoding.AppendInt32(dst, int32(rv.Int())), nil //nolint:gosec
	case format.KindInt64:
		return encoding.AppendInt64(dst, rv.Int()), nil
	case format.KindInt128:
		n, _ := rv.Interface().(encoding.Int128)
		return encoding.AppendInt128(dst, n), nil
	case format.KindFloat32:
		return encoding.AppendFloat32(dst, float32(rv.Float())), nil
	case format.KindFloat64:
		return encoding.AppendFloat64(dst, rv.Float()), nil
	case format.KindChar:
		return encoding.AppendChar(dst, rune(rv.Int())), nil //nolint:gosec
	case format.KindBytes:
		return encoding.AppendBytes(dst, rv.Bytes()), nil
	case format.KindString:
		return encoding.AppendString(dst, rv.String()), nil
	case format.KindDecimal:
		d, _ := rv.Interface().(encoding.Decimal)
		return encoding.AppendDecimal(dst, d)

	case format.KindOptional:
		if rv.IsNil() {
			return append(dst, optionAbsent), nil
		}

		return appendReflect(append(dst, optionPresent), rv.Elem(), s.Elem())

	case format.KindArray:
		var err error
		for i := range rv.Len() {
			if dst, err = appendReflect(dst, rv.Index(i), s.Elem()); err != nil {
				return dst, err
			}
		}

		return dst, nil

	case format.KindList:
		var err error
		for i := range rv.Len() {
			dst = append(dst, listElement)
			if dst, err = appendReflect(dst, rv.Index(i), s.Elem()); err != nil {
				return dst, err
			}
		}

		return append(dst, listEnd), nil

	case format.KindRecord:
		var err error
		for i, idx := range shape.FieldIndexes(rv.Type()) {
			if dst, err = appendReflect(dst, rv.Field(idx), s.Field(i).Shape); err != nil {
				return dst, err
			}
		}

		return dst, nil

	default:
		return dst, fmt.Errorf("%w: cannot encode %s from %s", errs.ErrUnsupportedShape, s.Kind(), rv.Type())
	}
}

func readReflect(c *encoding.Cursor, rv reflect.Value, s *shape.Shape) error {
	switch s.Kind() { //nolint: exhaustive
	case format.KindBool:
		v, err := c.ReadBool()
		if err != nil {
			return err
		}
		rv.SetBool(v)

	case format.KindUint8, format.KindUint16, format.KindUint32, format.KindUint64:
		v, err := readUnsigned(c, s.Kind())
		if err != nil {
			return err
		}
		rv.SetUint(v)

	case format.KindInt8, format.KindInt16, format.KindInt32, format.KindInt64:
		v, err := readSigned(c, s.Kind())
		if err != nil {
			return err
		}
		rv.SetInt(v)

	case format.KindUint128:
		v, err := c.ReadUint128()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))

	case format.KindInt128:
		v, err := c.ReadInt128()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))

	case format.KindFloat32:
		v, err := c.ReadFloat32()
		if err != nil {
			return err
		}
		rv.SetFloat(float64(v))

	case format.KindFloat64:
		v, err := c.ReadFloat64()
		if err != nil {
			return err
		}
		rv.SetFloat(v)

	case format.KindChar:
		v, err := c.ReadChar()
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))

	case format.KindBytes:
		v, err := c.ReadBytes()
		if err != nil {
			return err
		}
		rv.SetBytes(v)

	case format.KindString:
		v, err := c.ReadString()
		if err != nil {
			return err
		}
		rv.SetString(v)

	case format.KindDecimal:
		v, err := c.ReadDecimal()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))

	case format.KindOptional:
		present, err := readMarker(c, "optional")
		if err != nil {
			return err
		}
		if !present {
			rv.SetZero()
			return nil
		}
		elem := reflect.New(rv.Type().Elem())
		if err := readReflect(c, elem.Elem(), s.Elem()); err != nil {
			return err
		}
		rv.Set(elem)

	case format.KindArray:
		for i := range rv.Len() {
			if err := readReflect(c, rv.Index(i), s.Elem()); err != nil {
				return err
			}
		}

	case format.KindList:
		items := reflect.MakeSlice(rv.Type(), 0, 0)
		for {
			more, err := readMarker(c, "list")
			if err != nil {
				return err
			}
			if !more {
				break
			}
			elem := reflect.New(rv.Type().Elem()).Elem()
			if err := readReflect(c, elem, s.Elem()); err != nil {
				return err
			}
			items = reflect.Append(items, elem)
		}
		rv.Set(items)

	case format.KindRecord:
		for i, idx := range shape.FieldIndexes(rv.Type()) {
			if err := readReflect(c, rv.Field(idx), s.Field(i).Shape); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w: cannot decode %s into %s", errs.ErrUnsupportedShape, s.Kind(), rv.Type())
	}

	return nil
}

func readUnsigned(c *encoding.Cursor, k format.Kind) (uint64, error) {
	switch k { //nolint: exhaustive
	case format.KindUint8:
		v, err := c.ReadUint8()
		return uint64(v), err
	case format.KindUint16:
		v, err := c.ReadUint16()
		return uint64(v), err
	case format.KindUint32:
		v, err := c.ReadUint32()
		return uint64(v), err
	default:
		return c.ReadUint64()
	}
}

func readSigned(c *encoding.Cursor, k format.Kind) (int64, error) {
	switch k { //nolint: exhaustive
	case format.KindInt8:
		v, err := c.ReadInt8()
		return int64(v), err
	case format.KindInt16:
		v, err := c.ReadInt16()
		return int64(v), err
	case format.KindInt32:
		v, err := c.ReadInt32()
		return int64(v), err
	default:
		return c.ReadInt64()
	}
}
