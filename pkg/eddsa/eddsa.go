// Package eddsa implements the plain single-signer Schnorr scheme over
// edwards25519, following the key expansion and challenge of RFC 8032.
//
// The multi-party protocols in this module produce signatures which verify
// under this package's Verify, against an aggregated public key.
package eddsa

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"io"

	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
)

// SeedLength is the number of bytes in a private key seed.
const SeedLength = 32

// KeyPair is an expanded ed25519 key.
//
// The 32 byte seed is hashed with SHA-512; the low half is clamped into the
// private scalar, and the high half is kept as a prefix for nonce derivation.
// Keeping the prefix separate from the scalar means nonces can be derived
// from secret material without ever touching the signing key itself.
type KeyPair struct {
	// PublicKey is A = x·G.
	PublicKey curve.Point
	// PrivateKey is the secret scalar x.
	PrivateKey curve.Scalar
	// Prefix is the nonce derivation seed, the high half of the seed expansion.
	Prefix []byte
}

// NewKeyPair generates a key pair from a fresh seed read from rand.
func NewKeyPair(rand io.Reader) (*KeyPair, error) {
	seed := make([]byte, SeedLength)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, fmt.Errorf("eddsa.NewKeyPair: %w", err)
	}
	return NewKeyPairFromSeed(seed)
}

// NewKeyPairFromSeed deterministically expands a 32 byte seed into a key pair.
func NewKeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedLength {
		return nil, errors.New("eddsa.NewKeyPairFromSeed: seed must be 32 bytes")
	}
	h := sha512.Sum512(seed)

	scalar := new(curve.Edwards25519Scalar)
	if _, err := scalar.SetBytesWithClamping(h[:32]); err != nil {
		return nil, fmt.Errorf("eddsa.NewKeyPairFromSeed: %w", err)
	}

	prefix := make([]byte, 32)
	copy(prefix, h[32:])

	return &KeyPair{
		PublicKey:  scalar.ActOnBase(),
		PrivateKey: scalar,
		Prefix:     prefix,
	}, nil
}

// Group returns the elliptic curve group associated with this key.
func (k *KeyPair) Group() curve.Curve {
	return k.PublicKey.Curve()
}

// Signature is a Schnorr signature (R, s), satisfying
//
//	s·G = R + H(R ‖ A ‖ m)·A
//
// for a public key A.
type Signature struct {
	// R is the commitment point.
	R curve.Point
	// S is the response scalar.
	S curve.Scalar
}

// Challenge computes the Fiat-Shamir challenge e = H(R ‖ A ‖ m), reduced to a
// scalar.
//
// This is the plain ed25519 challenge. The multi-party signing protocol reuses
// it unchanged, which is exactly what makes its output an ordinary signature.
func Challenge(R, publicKey curve.Point, message []byte) curve.Scalar {
	h := sha512.New()
	RBytes, _ := R.MarshalBinary()
	ABytes, _ := publicKey.MarshalBinary()
	h.Write(RBytes)
	h.Write(ABytes)
	h.Write(message)
	// RFC 8032 reads the digest little-endian.
	return curve.FromHashLE(R.Curve(), h.Sum(nil))
}

// Sign produces a signature over message with the deterministic nonce
// r = H(prefix ‖ m) of RFC 8032.
func (k *KeyPair) Sign(message []byte) *Signature {
	group := k.Group()

	h := sha512.New()
	h.Write(k.Prefix)
	h.Write(message)
	r := curve.FromHashLE(group, h.Sum(nil))
	R := r.ActOnBase()

	e := Challenge(R, k.PublicKey, message)

	// s = e·x + r
	s := group.NewScalar().Set(e).Mul(k.PrivateKey).Add(r)

	return &Signature{R: R, S: s}
}

// Verify checks that sig is a valid signature over message for publicKey.
func Verify(publicKey curve.Point, message []byte, sig *Signature) bool {
	if sig == nil || sig.R == nil || sig.S == nil {
		return false
	}
	e := Challenge(sig.R, publicKey, message)

	expected := e.Act(publicKey).Add(sig.R)
	actual := sig.S.ActOnBase()
	return actual.Equal(expected)
}

// MarshalBinary returns the canonical 64 byte encoding R ‖ s.
func (sig *Signature) MarshalBinary() ([]byte, error) {
	RBytes, err := sig.R.MarshalBinary()
	if err != nil {
		return nil, err
	}
	SBytes, err := sig.S.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(RBytes, SBytes...), nil
}

// UnmarshalBinary decodes a 64 byte signature, rejecting malformed point or
// scalar encodings.
func (sig *Signature) UnmarshalBinary(data []byte) error {
	group := curve.Edwards25519{}
	if len(data) != group.PointBytes()+group.ScalarBytes() {
		return fmt.Errorf("eddsa.Signature: invalid length: %d", len(data))
	}
	R := group.NewPoint()
	if err := R.UnmarshalBinary(data[:group.PointBytes()]); err != nil {
		return fmt.Errorf("eddsa.Signature: %w", err)
	}
	S := group.NewScalar()
	if err := S.UnmarshalBinary(data[group.PointBytes():]); err != nil {
		return fmt.Errorf("eddsa.Signature: %w", err)
	}
	sig.R, sig.S = R, S
	return nil
}
