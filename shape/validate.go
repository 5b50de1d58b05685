package shape

import (
	"fmt"

	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/format"
)

// Validate checks that s is well formed: every node has a known kind,
// containers have an element shape, arrays have a length between 0 and
// MaxArrayLen, enums declare between 1 and MaxVariants variants, and named
// fields and variants are unique within their parent.
//
// The returned error wraps errs.ErrInvalidShape and names the offending path.
func (s *Shape) Validate() error {
	return s.validate("$")
}

func (s *Shape) validate(path string) error {
	if s == nil {
		return fmt.Errorf("%w: %s: nil shape", errs.ErrInvalidShape, path)
	}

	switch s.kind {
	case format.KindUnit, format.KindBool,
		format.KindUint8, format.KindUint16, format.KindUint32, format.KindUint64, format.KindUint128,
		format.KindInt8, format.KindInt16, format.KindInt32, format.KindInt64, format.KindInt128,
		format.KindFloat32, format.KindFloat64, format.KindChar,
		format.KindBytes, format.KindString, format.KindDecimal:
		return nil

	case format.KindOptional, format.KindList:
		return s.elem.validate(path + "." + s.kind.String())

	case format.KindArray:
		if s.length < 0 {
			return fmt.Errorf("%w: %s: negative array length %d", errs.ErrInvalidShape, path, s.length)
		}
		if s.length > MaxArrayLen {
			return fmt.Errorf("%w: %s: array length %d exceeds the limit of %d",
				errs.ErrInvalidShape, path, s.length, MaxArrayLen)
		}

		return s.elem.validate(path + "[]")

	case format.KindRecord:
		seen := make(map[string]struct{}, len(s.fields))
		for i, f := range s.fields {
			if f.Name != "" {
				if _, dup := seen[f.Name]; dup {
					return fmt.Errorf("%w: %s: duplicate field %q", errs.ErrInvalidShape, path, f.Name)
				}
				seen[f.Name] = struct{}{}
			}
			if err := f.Shape.validate(fieldPath(path, f.Name, i)); err != nil {
				return err
			}
		}

		return nil

	case format.KindEnum:
		if len(s.variants) == 0 {
			return fmt.Errorf("%w: %s: enum without variants", errs.ErrInvalidShape, path)
		}
		if len(s.variants) > MaxVariants {
			return fmt.Errorf("%w: %s: %d variants exceed the limit of %d",
				errs.ErrInvalidShape, path, len(s.variants), MaxVariants)
		}
		seen := make(map[string]struct{}, len(s.variants))
		for i, v := range s.variants {
			if _, dup := seen[v.Name]; dup {
				return fmt.Errorf("%w: %s: duplicate variant %q", errs.ErrInvalidShape, path, v.Name)
			}
			seen[v.Name] = struct{}{}
			if err := v.Shape.validate(fieldPath(path, v.Name, i)); err != nil {
				return err
			}
		}

		return nil

	default:
		return fmt.Errorf("%w: %s: unknown kind %d", errs.ErrInvalidShape, path, uint8(s.kind))
	}
}

func fieldPath(parent, name string, i int) string {
	if name == "" {
		return fmt.Sprintf("%s.%d", parent, i)
	}

	return parent + "." + name
}
