package memcodec

import (
	"fmt"

	"github.com/arloliu/memcodec/encoding"
	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/format"
	"github.com/arloliu/memcodec/shape"
)

// Sequence markers. A list writes listElement before each element and
// listEnd after the last one, so a list that is a prefix of another sorts
// first.
const (
	listEnd     byte = 0x00
	listElement byte = 0x01

	optionAbsent  byte = 0x00
	optionPresent byte = 0x01
)

func mismatch(s *shape.Shape, v any) error {
	return fmt.Errorf("%w: %s cannot hold %T", errs.ErrShapeMismatch, s, v)
}

// appendValue appends the encoding of v to dst. On error the returned slice
// may contain a partial encoding; callers truncate it.
func appendValue(dst []byte, v any, s *shape.Shape) ([]byte, error) {
	switch s.Kind() {
	case format.KindUnit:
		if v != nil {
			if _, ok := v.(Unit); !ok {
				return dst, mismatch(s, v)
			}
		}

		return dst, nil

	case format.KindBool:
		b, ok := v.(bool)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendBool(dst, b), nil

	case format.KindUint8:
		n, ok := v.(uint8)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendUint8(dst, n), nil

	case format.KindUint16:
		n, ok := v.(uint16)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendUint16(dst, n), nil

	case format.KindUint32:
		n, ok := v.(uint32)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendUint32(dst, n), nil

	case format.KindUint64:
		switch n := v.(type) {
		case uint64:
			return encoding.AppendUint64(dst, n), nil
		case uint:
			return encoding.AppendUint64(dst, uint64(n)), nil
		default:
			return dst, mismatch(s, v)
		}

	case format.KindUint128:
		n, ok := v.(encoding.Uint128)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendUint128(dst, n), nil

	case format.KindInt8:
		n, ok := v.(int8)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendInt8(dst, n), nil

	case format.KindInt16:
		n, ok := v.(int16)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendInt16(dst, n), nil

	case format.KindInt32:
		n, ok := v.(int32)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendInt32(dst, n), nil

	case format.KindInt64:
		switch n := v.(type) {
		case int64:
			return encoding.AppendInt64(dst, n), nil
		case int:
			return encoding.AppendInt64(dst, int64(n)), nil
		default:
			return dst, mismatch(s, v)
		}

	case format.KindInt128:
		n, ok := v.(encoding.Int128)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendInt128(dst, n), nil

	case format.KindFloat32:
		f, ok := v.(float32)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendFloat32(dst, f), nil

	case format.KindFloat64:
		f, ok := v.(float64)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendFloat64(dst, f), nil

	case format.KindChar:
		r, ok := v.(rune)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendChar(dst, r), nil

	case format.KindBytes:
		b, ok := v.([]byte)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendBytes(dst, b), nil

	case format.KindString:
		str, ok := v.(string)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendString(dst, str), nil

	case format.KindDecimal:
		d, ok := v.(encoding.Decimal)
		if !ok {
			return dst, mismatch(s, v)
		}

		return encoding.AppendDecimal(dst, d)

	case format.KindOptional:
		return appendOptional(dst, v, s)

	case format.KindArray:
		items, ok := v.([]any)
		if !ok {
			return dst, mismatch(s, v)
		}
		if len(items) != s.Len() {
			return dst, fmt.Errorf("%w: %s holds %d elements, got %d", errs.ErrShapeMismatch, s, s.Len(), len(items))
		}

		return appendItems(dst, items, s.Elem())

	case format.KindList:
		items, ok := v.([]any)
		if !ok {
			return dst, mismatch(s, v)
		}

		var err error
		for _, item := range items {
			dst = append(dst, listElement)
			if dst, err = appendValue(dst, item, s.Elem()); err != nil {
				return dst, err
			}
		}

		return append(dst, listEnd), nil

	case format.KindRecord:
		items, ok := v.([]any)
		if !ok {
			return dst, mismatch(s, v)
		}
		if len(items) != s.NumFields() {
			return dst, fmt.Errorf("%w: %s has %d fields, got %d", errs.ErrShapeMismatch, s, s.NumFields(), len(items))
		}

		var err error
		for i, item := range items {
			if dst, err = appendValue(dst, item, s.Field(i).Shape); err != nil {
				return dst, err
			}
		}

		return dst, nil

	case format.KindEnum:
		vr, ok := v.(Variant)
		if !ok {
			return dst, mismatch(s, v)
		}
		if vr.Index < 0 || vr.Index >= s.NumVariants() {
			return dst, fmt.Errorf("%w: variant %d out of range for %s", errs.ErrShapeMismatch, vr.Index, s)
		}
		dst = appendDiscriminant(dst, vr.Index, s)

		return appendValue(dst, vr.Value, s.Variant(vr.Index).Shape)

	default:
		return dst, fmt.Errorf("%w: cannot encode kind %s", errs.ErrInvalidShape, s.Kind())
	}
}

func appendOptional(dst []byte, v any, s *shape.Shape) ([]byte, error) {
	if v == nil {
		return append(dst, optionAbsent), nil
	}

	o, ok := v.(Option)
	if !ok {
		return dst, mismatch(s, v)
	}
	if !o.Valid {
		return append(dst, optionAbsent), nil
	}

	return appendValue(append(dst, optionPresent), o.Value, s.Elem())
}

func appendItems(dst []byte, items []any, elem *shape.Shape) ([]byte, error) {
	var err error
	for _, item := range items {
		if dst, err = appendValue(dst, item, elem); err != nil {
			return dst, err
		}
	}

	return dst, nil
}

func appendDiscriminant(dst []byte, index int, s *shape.Shape) []byte {
	if s.DiscriminantWidth() == 1 {
		return encoding.AppendUint8(dst, uint8(index)) //nolint:gosec
	}

	return encoding.AppendUint16(dst, uint16(index)) //nolint:gosec
}

// readValue decodes one value of shape s from c.
func readValue(c *encoding.Cursor, s *shape.Shape) (any, error) {
	switch s.Kind() {
	case format.KindUnit:
		return Unit{}, nil
	case format.KindBool:
		return c.ReadBool()
	case format.KindUint8:
		return c.ReadUint8()
	case format.KindUint16:
		return c.ReadUint16()
	case format.KindUint32:
		return c.ReadUint32()
	case format.KindUint64:
		return c.ReadUint64()
	case format.KindUint128:
		return c.ReadUint128()
	case format.KindInt8:
		return c.ReadInt8()
	case format.KindInt16:
		return c.ReadInt16()
	case format.KindInt32:
		return c.ReadInt32()
	case format.KindInt64:
		return c.ReadInt64()
	case format.KindInt128:
		return c.ReadInt128()
	case format.KindFloat32:
		return c.ReadFloat32()
	case format.KindFloat64:
		return c.ReadFloat64()
	case format.KindChar:
		return c.ReadChar()
	case format.KindBytes:
		return c.ReadBytes()
	case format.KindString:
		return c.ReadString()
	case format.KindDecimal:
		return c.ReadDecimal()

	case format.KindOptional:
		present, err := readMarker(c, "optional")
		if err != nil || !present {
			return None(), err
		}
		v, err := readValue(c, s.Elem())
		if err != nil {
			return nil, err
		}

		return Some(v), nil

	case format.KindArray:
		// Capacity is bounded by the input, not the declared length.
		items := make([]any, 0, min(s.Len(), c.Remaining()))
		for range s.Len() {
			v, err := readValue(c, s.Elem())
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}

		return items, nil

	case format.KindList:
		items := []any{}
		for {
			more, err := readMarker(c, "list")
			if err != nil {
				return nil, err
			}
			if !more {
				return items, nil
			}
			v, err := readValue(c, s.Elem())
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}

	case format.KindRecord:
		items := make([]any, s.NumFields())
		for i := range items {
			v, err := readValue(c, s.Field(i).Shape)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}

		return items, nil

	case format.KindEnum:
		index, err := readDiscriminant(c, s)
		if err != nil {
			return nil, err
		}
		v, err := readValue(c, s.Variant(index).Shape)
		if err != nil {
			return nil, err
		}

		return Variant{Index: index, Value: v}, nil

	default:
		return nil, fmt.Errorf("%w: cannot decode kind %s", errs.ErrInvalidShape, s.Kind())
	}
}

// readMarker reads a 0x00/0x01 marker byte of an optional or list.
func readMarker(c *encoding.Cursor, what string) (bool, error) {
	start := c.Position()
	b, err := c.ReadByte()
	if err != nil {
		return false, err
	}

	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, fmt.Errorf("%w: offset %d: %s marker 0x%02x", errs.ErrInvalidEncoding, start, what, b)
	}
}

func readDiscriminant(c *encoding.Cursor, s *shape.Shape) (int, error) {
	start := c.Position()

	var index int
	if s.DiscriminantWidth() == 1 {
		b, err := c.ReadUint8()
		if err != nil {
			return 0, err
		}
		index = int(b)
	} else {
		n, err := c.ReadUint16()
		if err != nil {
			return 0, err
		}
		index = int(n)
	}

	if index >= s.NumVariants() {
		return 0, fmt.Errorf("%w: offset %d: discriminant %d, enum has %d variants",
			errs.ErrInvalidEncoding, start, index, s.NumVariants())
	}

	return index, nil
}

// skipValue advances c past one value of shape s without materializing it.
func skipValue(c *encoding.Cursor, s *shape.Shape) error {
	if w := s.Kind().FixedWidth(); w > 0 && s.Kind() != format.KindBool && s.Kind() != format.KindChar {
		return c.Advance(w)
	}

	switch s.Kind() { //nolint: exhaustive
	case format.KindUnit:
		return nil
	case format.KindBool:
		_, err := c.ReadBool()
		return err
	case format.KindChar:
		_, err := c.ReadChar()
		return err
	case format.KindBytes, format.KindString:
		_, err := c.SkipBytes()
		return err
	case format.KindDecimal:
		return c.SkipDecimal()

	case format.KindOptional:
		present, err := readMarker(c, "optional")
		if err != nil || !present {
			return err
		}

		return skipValue(c, s.Elem())

	case format.KindArray:
		for range s.Len() {
			if err := skipValue(c, s.Elem()); err != nil {
				return err
			}
		}

		return nil

	case format.KindList:
		for {
			more, err := readMarker(c, "list")
			if err != nil || !more {
				return err
			}
			if err := skipValue(c, s.Elem()); err != nil {
				return err
			}
		}

	case format.KindRecord:
		for i := range s.NumFields() {
			if err := skipValue(c, s.Field(i).Shape); err != nil {
				return err
			}
		}

		return nil

	case format.KindEnum:
		index, err := readDiscriminant(c, s)
		if err != nil {
			return err
		}

		return skipValue(c, s.Variant(index).Shape)

	default:
		return fmt.Errorf("%w: cannot skip kind %s", errs.ErrInvalidShape, s.Kind())
	}
}
