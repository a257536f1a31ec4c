package musig2

import (
	"crypto/sha512"
	"fmt"
	"io"

	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
)

// NonceCount is the number of nonces contributed by each party, the v = 2
// variant of the scheme.
const NonceCount = 2

// PublicNonces holds the nonce commitments Rⱼ = rⱼ·G of one party.
type PublicNonces struct {
	R []curve.Point
}

// Validate checks that the commitments are well formed.
func (p *PublicNonces) Validate() error {
	if p == nil || len(p.R) != NonceCount {
		return ErrNonceCount
	}
	for _, R := range p.R {
		if R == nil || R.IsIdentity() {
			return fmt.Errorf("musig2: nonce commitment is the identity point")
		}
	}
	return nil
}

// NonceBundle holds one party's secret nonces together with their public
// commitments. A bundle can be used for at most one partial signature.
type NonceBundle struct {
	// Public contains the commitments which are shared with the other
	// parties in the first round.
	Public PublicNonces

	// r are the secret nonces. They never leave this party.
	r []curve.Scalar
	// used is set once the bundle has produced a partial signature.
	used bool
}

// consume marks the bundle as used.
func (n *NonceBundle) consume() error {
	if n.used {
		return ErrNonceReused
	}
	n.used = true
	return nil
}

// GenerateNonces derives a fresh nonce bundle for the given key.
//
// Each secret nonce is derived as H(2 ‖ prefix ‖ m ‖ ρ), where ρ is 32 bytes
// read from rand. The random element is a deviation from the deterministic
// derivation of RFC 8032: with multiple parties, nonces must be unpredictable
// even when the same message is signed twice.
//
// message may be nil when it is not yet known at nonce generation time.
func GenerateNonces(keys *eddsa.KeyPair, message []byte, rand io.Reader) (*NonceBundle, error) {
	group := keys.Group()

	bundle := &NonceBundle{
		Public: PublicNonces{R: make([]curve.Point, NonceCount)},
		r:      make([]curve.Scalar, NonceCount),
	}
	random := make([]byte, 32)
	for j := 0; j < NonceCount; j++ {
		if _, err := io.ReadFull(rand, random); err != nil {
			return nil, fmt.Errorf("musig2.GenerateNonces: %w", err)
		}
		h := sha512.New()
		h.Write([]byte{tagNonce})
		h.Write(keys.Prefix)
		h.Write(message)
		h.Write(random)
		bundle.r[j] = curve.FromHash(group, h.Sum(nil))
		bundle.Public.R[j] = bundle.r[j].ActOnBase()
	}
	return bundle, nil
}
