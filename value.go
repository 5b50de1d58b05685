package memcodec

// Unit is the value of a unit shape. It encodes to zero bytes.
type Unit struct{}

// Option is the value of an optional shape.
//
// An absent Option sorts before every present one.
type Option struct {
	Valid bool
	Value any
}

// Some returns a present Option holding v.
func Some(v any) Option {
	return Option{Valid: true, Value: v}
}

// None returns an absent Option.
func None() Option {
	return Option{}
}

// Variant is the value of an enum shape: the index of the chosen variant in
// declaration order, and its payload. Variants with a unit payload may leave
// Value nil.
type Variant struct {
	Index int
	Value any
}
