package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents the starting point for working with an elliptic curve group.
//
// The expectation is that this interface will be implemented by a small
// struct, or even an empty one, making it cheap to pass around.
type Curve interface {
	// NewPoint returns a new point set to the identity element.
	NewPoint() Point
	// NewBasePoint returns a new point set to the generator of the group.
	NewBasePoint() Point
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// Name returns the name of this group, for domain separation.
	Name() string
	// ScalarBytes returns the length of this group's canonical scalar encoding.
	ScalarBytes() int
	// PointBytes returns the length of this group's canonical point encoding.
	PointBytes() int
	// Order returns the group order as a saferith modulus.
	Order() *saferith.Modulus
}

// Scalar represents an element of the scalar field associated with a curve.
//
// Arithmetic operations mutate the receiver, and return it for chaining.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	Invert() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	// SetNat sets the scalar to a number, reduced modulo the group order.
	SetNat(*saferith.Nat) Scalar
	// Act returns a new point, obtained by acting on a point with this scalar.
	Act(Point) Point
	// ActOnBase returns a new point, obtained by acting on the generator.
	ActOnBase() Point
}

// Point represents an element of the group associated with a curve.
//
// Add, Sub, Negate and Set mutate the receiver, and return it for chaining.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Set(Point) Point
	Equal(Point) bool
	IsIdentity() bool
}

// FromHash converts a hash digest to a Scalar.
//
// The digest is interpreted as a big-endian number and reduced modulo the
// group order. Callers are expected to pass a digest at least twice as wide
// as the order (SHA-512 for a 255-bit group), which keeps the bias of the
// reduction negligible.
func FromHash(group Curve, h []byte) Scalar {
	s := new(saferith.Nat).SetBytes(h)
	return group.NewScalar().SetNat(s)
}

// FromHashLE is FromHash with the digest interpreted as a little-endian
// number. RFC 8032 reduces the challenge and nonce digests this way.
func FromHashLE(group Curve, h []byte) Scalar {
	reversed := make([]byte, len(h))
	for i, b := range h {
		reversed[len(h)-1-i] = b
	}
	s := new(saferith.Nat).SetBytes(reversed)
	return group.NewScalar().SetNat(s)
}
