package curve

import (
	"encoding/hex"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/cronokirby/saferith"
	"github.com/trysuperdrop/multi-party-eddsa/internal/params"
)

// Edwards25519 is the group of prime order l underlying ed25519, with the
// canonical 32 byte little-endian encodings of RFC 8032.
type Edwards25519 struct{}

// edwards25519Order is l = 2²⁵² + 27742317777372353535851937790883648493.
var edwards25519Order = func() *saferith.Modulus {
	b, err := hex.DecodeString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed")
	if err != nil {
		panic(err)
	}
	return saferith.ModulusFromNat(new(saferith.Nat).SetBytes(b))
}()

func (Edwards25519) NewPoint() Point {
	out := new(Edwards25519Point)
	out.value.Set(edwards25519.NewIdentityPoint())
	return out
}

func (Edwards25519) NewBasePoint() Point {
	out := new(Edwards25519Point)
	out.value.Set(edwards25519.NewGeneratorPoint())
	return out
}

func (Edwards25519) NewScalar() Scalar {
	return new(Edwards25519Scalar)
}

func (Edwards25519) Name() string {
	return "edwards25519"
}

func (Edwards25519) ScalarBytes() int {
	return params.BytesScalar
}

func (Edwards25519) PointBytes() int {
	return params.BytesPoint
}

func (Edwards25519) Order() *saferith.Modulus {
	return edwards25519Order
}

// Edwards25519Scalar is a scalar modulo l.
//
// The zero value is a valid zero scalar.
type Edwards25519Scalar struct {
	value edwards25519.Scalar
}

func edwards25519CastScalar(generic Scalar) *Edwards25519Scalar {
	out, ok := generic.(*Edwards25519Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to Edwards25519Scalar: %v", generic))
	}
	return out
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Edwards25519Scalar) MarshalBinary() ([]byte, error) {
	return s.value.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Non-canonical encodings, i.e. numbers ⩾ l, are rejected.
func (s *Edwards25519Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesScalar {
		return fmt.Errorf("curve.Edwards25519Scalar: invalid length: %d", len(data))
	}
	if _, err := s.value.SetCanonicalBytes(data); err != nil {
		return fmt.Errorf("curve.Edwards25519Scalar: %w", err)
	}
	return nil
}

func (s *Edwards25519Scalar) Curve() Curve {
	return Edwards25519{}
}

func (s *Edwards25519Scalar) Add(that Scalar) Scalar {
	other := edwards25519CastScalar(that)
	s.value.Add(&s.value, &other.value)
	return s
}

func (s *Edwards25519Scalar) Sub(that Scalar) Scalar {
	other := edwards25519CastScalar(that)
	s.value.Subtract(&s.value, &other.value)
	return s
}

func (s *Edwards25519Scalar) Mul(that Scalar) Scalar {
	other := edwards25519CastScalar(that)
	s.value.Multiply(&s.value, &other.value)
	return s
}

func (s *Edwards25519Scalar) Negate() Scalar {
	s.value.Negate(&s.value)
	return s
}

func (s *Edwards25519Scalar) Invert() Scalar {
	s.value.Invert(&s.value)
	return s
}

func (s *Edwards25519Scalar) Equal(that Scalar) bool {
	other := edwards25519CastScalar(that)
	return s.value.Equal(&other.value) == 1
}

func (s *Edwards25519Scalar) IsZero() bool {
	var zero edwards25519.Scalar
	return s.value.Equal(&zero) == 1
}

func (s *Edwards25519Scalar) Set(that Scalar) Scalar {
	other := edwards25519CastScalar(that)
	s.value.Set(&other.value)
	return s
}

func (s *Edwards25519Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, edwards25519Order)
	buf := reduced.Bytes()
	if len(buf) > params.BytesScalar {
		buf = buf[len(buf)-params.BytesScalar:]
	}
	le := make([]byte, params.BytesScalar)
	for i, b := range buf {
		le[len(buf)-1-i] = b
	}
	if _, err := s.value.SetCanonicalBytes(le); err != nil {
		// Unreachable: the value was just reduced modulo l.
		panic(fmt.Sprintf("curve.Edwards25519Scalar.SetNat: %v", err))
	}
	return s
}

// SetBytesWithClamping applies the ed25519 clamping procedure to a 32 byte
// seed expansion, and sets s to the resulting scalar, reduced modulo l.
//
// This matches the private scalar derivation of RFC 8032, and is only
// meaningful for this particular group.
func (s *Edwards25519Scalar) SetBytesWithClamping(x []byte) (*Edwards25519Scalar, error) {
	if len(x) != params.BytesScalar {
		return nil, errors.New("curve.Edwards25519Scalar.SetBytesWithClamping: invalid length")
	}
	if _, err := s.value.SetBytesWithClamping(x); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Edwards25519Scalar) Act(that Point) Point {
	other := edwards25519CastPoint(that)
	out := new(Edwards25519Point)
	out.value.ScalarMult(&s.value, &other.value)
	return out
}

func (s *Edwards25519Scalar) ActOnBase() Point {
	out := new(Edwards25519Point)
	out.value.ScalarBaseMult(&s.value)
	return out
}

// String implements fmt.Stringer.
func (s *Edwards25519Scalar) String() string {
	return hex.EncodeToString(s.value.Bytes())
}

// Edwards25519Point is a point on the prime order subgroup.
//
// The zero value is not valid; points must be created through the
// Edwards25519 constructors, or by unmarshalling.
type Edwards25519Point struct {
	value edwards25519.Point
}

func edwards25519CastPoint(generic Point) *Edwards25519Point {
	out, ok := generic.(*Edwards25519Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to Edwards25519Point: %v", generic))
	}
	return out
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Edwards25519Point) MarshalBinary() ([]byte, error) {
	return p.value.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Encodings which do not represent a point on the curve, including
// non-canonical ones, are rejected.
func (p *Edwards25519Point) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesPoint {
		return fmt.Errorf("curve.Edwards25519Point: invalid length: %d", len(data))
	}
	if _, err := p.value.SetBytes(data); err != nil {
		return fmt.Errorf("curve.Edwards25519Point: %w", err)
	}
	return nil
}

func (p *Edwards25519Point) Curve() Curve {
	return Edwards25519{}
}

func (p *Edwards25519Point) Add(that Point) Point {
	other := edwards25519CastPoint(that)
	p.value.Add(&p.value, &other.value)
	return p
}

func (p *Edwards25519Point) Sub(that Point) Point {
	other := edwards25519CastPoint(that)
	p.value.Subtract(&p.value, &other.value)
	return p
}

func (p *Edwards25519Point) Negate() Point {
	p.value.Negate(&p.value)
	return p
}

func (p *Edwards25519Point) Set(that Point) Point {
	other := edwards25519CastPoint(that)
	p.value.Set(&other.value)
	return p
}

func (p *Edwards25519Point) Equal(that Point) bool {
	other := edwards25519CastPoint(that)
	return p.value.Equal(&other.value) == 1
}

func (p *Edwards25519Point) IsIdentity() bool {
	return p.value.Equal(edwards25519.NewIdentityPoint()) == 1
}

// String implements fmt.Stringer.
func (p *Edwards25519Point) String() string {
	return hex.EncodeToString(p.value.Bytes())
}
