package shape

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/format"
)

// Descriptor is the serialisable form of a Shape.
//
// Kind holds the kind name ("uint64", "record", ...). Name is set on record
// fields and enum variants. Len is the array length. Elem is set for
// optional, array and list. Fields and Variants hold record members and enum
// alternatives.
type Descriptor struct {
	Kind     string        `cbor:"1,keyasint"           yaml:"kind"`
	Name     string        `cbor:"2,keyasint,omitempty" yaml:"name,omitempty"`
	Len      int           `cbor:"3,keyasint,omitempty" yaml:"len,omitempty"`
	Elem     *Descriptor   `cbor:"4,keyasint,omitempty" yaml:"elem,omitempty"`
	Fields   []*Descriptor `cbor:"5,keyasint,omitempty" yaml:"fields,omitempty"`
	Variants []*Descriptor `cbor:"6,keyasint,omitempty" yaml:"variants,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("shape: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxNestedLevels: 256,
	}.DecMode()
	if err != nil {
		panic("shape: CBOR decoder initialization failed: " + err.Error())
	}
}

// Describe converts s into a Descriptor.
func Describe(s *Shape) *Descriptor {
	if s == nil {
		return nil
	}

	d := &Descriptor{Kind: s.kind.String(), Len: s.length}
	if s.elem != nil {
		d.Elem = Describe(s.elem)
	}
	for _, f := range s.fields {
		fd := Describe(f.Shape)
		if fd == nil {
			fd = &Descriptor{}
		}
		fd.Name = f.Name
		d.Fields = append(d.Fields, fd)
	}
	for _, v := range s.variants {
		vd := Describe(v.Shape)
		if vd == nil {
			vd = &Descriptor{}
		}
		vd.Name = v.Name
		d.Variants = append(d.Variants, vd)
	}

	return d
}

// Shape builds and validates the shape described by d.
func (d *Descriptor) Shape() (*Shape, error) {
	s, err := d.build("$")
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (d *Descriptor) build(path string) (*Shape, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: %s: missing descriptor", errs.ErrInvalidShape, path)
	}

	kind, ok := format.ParseKind(d.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown kind %q", errs.ErrInvalidShape, path, d.Kind)
	}

	s := &Shape{kind: kind}
	switch kind { //nolint: exhaustive
	case format.KindOptional, format.KindList, format.KindArray:
		elem, err := d.Elem.build(path + ".elem")
		if err != nil {
			return nil, err
		}
		s.elem = elem
		if kind == format.KindArray {
			s.length = d.Len
		}

	case format.KindRecord:
		for i, fd := range d.Fields {
			fs, err := fd.build(fmt.Sprintf("%s.fields[%d]", path, i))
			if err != nil {
				return nil, err
			}
			s.fields = append(s.fields, Field{Name: fd.Name, Shape: fs})
		}

	case format.KindEnum:
		for i, vd := range d.Variants {
			vs, err := vd.build(fmt.Sprintf("%s.variants[%d]", path, i))
			if err != nil {
				return nil, err
			}
			s.variants = append(s.variants, Variant{Name: vd.Name, Shape: vs})
		}
	}

	return s, nil
}

// MarshalCBOR encodes s as a deterministic CBOR descriptor. Equal shapes
// always produce identical bytes.
func MarshalCBOR(s *Shape) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return encMode.Marshal(Describe(s))
}

// UnmarshalCBOR decodes a shape written by MarshalCBOR.
func UnmarshalCBOR(data []byte) (*Shape, error) {
	var d Descriptor
	if err := decMode.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidShape, err)
	}

	return d.Shape()
}

// MarshalYAML renders s as a YAML descriptor.
func MarshalYAML(s *Shape) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return yaml.Marshal(Describe(s))
}

// ParseYAML reads a hand-written YAML descriptor, e.g.
//
//	kind: record
//	fields:
//	  - name: tenant
//	    kind: string
//	  - name: id
//	    kind: uint64
func ParseYAML(data []byte) (*Shape, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidShape, err)
	}

	return d.Shape()
}
