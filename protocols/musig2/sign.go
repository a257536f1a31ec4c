package musig2

import (
	"crypto/sha512"

	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
)

// PartialSignature is one party's additive share of the final signature.
type PartialSignature struct {
	// R is the effective group nonce. All parties derive the same value.
	R curve.Point
	// S is this party's share of the response scalar.
	S curve.Scalar
}

// sumNonces adds the commitments of all parties slot-wise.
// Addition is commutative, so the result does not depend on the order of the
// contributions.
func sumNonces(group curve.Curve, all []*PublicNonces) []curve.Point {
	sum := make([]curve.Point, NonceCount)
	for j := range sum {
		sum[j] = group.NewPoint()
	}
	for _, nonces := range all {
		for j, R := range nonces.R {
			sum[j] = sum[j].Add(R)
		}
	}
	return sum
}

// bindingScalar derives the nonce binding scalar
// b = H(3 ‖ Ã ‖ R₁ ‖ … ‖ Rᵥ ‖ m).
// Binding the combined nonce to the aggregate key and message is what defeats
// the parallel-session attacks on the earlier two-round schemes.
func bindingScalar(group curve.Curve, aggregateKey curve.Point, groupNonces []curve.Point, message []byte) curve.Scalar {
	h := sha512.New()
	h.Write([]byte{tagBinding})
	keyBytes, _ := aggregateKey.MarshalBinary()
	h.Write(keyBytes)
	for _, R := range groupNonces {
		RBytes, _ := R.MarshalBinary()
		h.Write(RBytes)
	}
	h.Write(message)
	return curve.FromHash(group, h.Sum(nil))
}

// effectiveNonce folds the nonce slots into a single point using powers of
// the binding scalar: R = R₁ + b·R₂ + … + bᵛ⁻¹·Rᵥ.
func effectiveNonce(group curve.Curve, groupNonces []curve.Point, binding curve.Scalar) curve.Point {
	R := group.NewPoint().Set(groupNonces[0])
	power := group.NewScalar().Set(binding)
	for j := 1; j < len(groupNonces); j++ {
		R = R.Add(power.Act(groupNonces[j]))
		power.Mul(binding)
	}
	return R
}

// PartialSign produces this party's share of the signature over message.
//
// own is consumed: a second call with the same bundle returns ErrNonceReused.
// others holds the nonce commitments of every other party, in any order.
func PartialSign(own *NonceBundle, others []*PublicNonces, aggregateKey *AggregatedKey, keys *eddsa.KeyPair, message []byte) (*PartialSignature, error) {
	group := keys.Group()

	if err := own.Public.Validate(); err != nil {
		return nil, err
	}
	for _, nonces := range others {
		if err := nonces.Validate(); err != nil {
			return nil, err
		}
	}
	if err := own.consume(); err != nil {
		return nil, err
	}

	all := make([]*PublicNonces, 0, len(others)+1)
	all = append(all, &own.Public)
	all = append(all, others...)
	groupNonces := sumNonces(group, all)

	b := bindingScalar(group, aggregateKey.PublicKey, groupNonces, message)
	R := effectiveNonce(group, groupNonces, b)

	// r = r₁ + b·r₂ + … + bᵛ⁻¹·rᵥ
	r := group.NewScalar().Set(own.r[0])
	power := group.NewScalar().Set(b)
	for j := 1; j < NonceCount; j++ {
		r.Add(group.NewScalar().Set(power).Mul(own.r[j]))
		power.Mul(b)
	}

	e := eddsa.Challenge(R, aggregateKey.PublicKey, message)

	// s = e·a·x + r
	s := group.NewScalar().Set(e).Mul(aggregateKey.Coefficient).Mul(keys.PrivateKey).Add(r)

	return &PartialSignature{R: R, S: s}, nil
}

// VerifyPartial checks one party's share z against its public key and nonce
// commitments:
//
//	z·G = (R₁ + b·R₂ + … + bᵛ⁻¹·Rᵥ) + e·a·A
//
// where b and e are the binding scalar and challenge of the session.
func VerifyPartial(z curve.Scalar, nonces *PublicNonces, binding, challenge, coefficient curve.Scalar, publicKey curve.Point) bool {
	if z == nil || nonces.Validate() != nil {
		return false
	}
	group := publicKey.Curve()

	expected := effectiveNonce(group, nonces.R, binding)
	expected = expected.Add(group.NewScalar().Set(challenge).Mul(coefficient).Act(publicKey))
	return z.ActOnBase().Equal(expected)
}

// AggregateSignatures combines the partial signatures of all parties into the
// final signature. All shares must commit to the same effective nonce;
// otherwise ErrNonceMismatch is returned.
//
// The result is an ordinary signature, verifiable with eddsa.Verify under the
// aggregate public key.
func AggregateSignatures(own *PartialSignature, others []*PartialSignature) (*eddsa.Signature, error) {
	group := own.R.Curve()

	s := group.NewScalar().Set(own.S)
	for _, sig := range others {
		if !sig.R.Equal(own.R) {
			return nil, ErrNonceMismatch
		}
		s.Add(sig.S)
	}
	return &eddsa.Signature{
		R: group.NewPoint().Set(own.R),
		S: s,
	}, nil
}
