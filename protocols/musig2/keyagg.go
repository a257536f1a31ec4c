package musig2

import (
	"bytes"
	"crypto/sha512"
	"sort"

	"github.com/cronokirby/saferith"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
)

func oneNat() *saferith.Nat { return new(saferith.Nat).SetUint64(1) }

// Domain prefixes for the three hash-to-scalar derivations of the scheme.
// They keep key aggregation, nonce generation and nonce binding in disjoint
// hash domains.
const (
	tagKeyAggregation = 1
	tagNonce          = 2
	tagBinding        = 3
)

// AggregatedKey is the result of aggregating a set of public keys for one
// particular participant.
type AggregatedKey struct {
	// PublicKey is the aggregate key Ã = ∑ᵢ aᵢ·Aᵢ.
	// Signatures produced by the protocol verify under this key.
	PublicKey curve.Point
	// Coefficient is the coefficient aᵢ of the participant the aggregation
	// was computed for.
	Coefficient curve.Scalar
}

// keySet is an aggregated key set: the aggregate key, and the coefficient of
// every key indexed by its canonical encoding.
type keySet struct {
	publicKey    curve.Point
	coefficients map[string]curve.Scalar
}

// aggregateKeySet sorts the key set and derives every key coefficient in a
// single pass.
//
// The coefficient of each key is derived from the whole sorted key set, so
// every participant computes the same aggregate regardless of the order in
// which the keys were supplied. The second key in sorted order gets
// coefficient 1; this costs nothing in security and makes the scheme more
// efficient for that participant (Musig2*, appendix B of the paper).
func aggregateKeySet(publicKeys []curve.Point) (*keySet, error) {
	if len(publicKeys) == 0 {
		return nil, ErrKeyNotInSet
	}
	group := publicKeys[0].Curve()

	sorted := make([]curve.Point, len(publicKeys))
	copy(sorted, publicKeys)
	encodings := make(map[curve.Point][]byte, len(sorted))
	for _, pk := range sorted {
		enc, err := pk.MarshalBinary()
		if err != nil {
			return nil, err
		}
		encodings[pk] = enc
	}
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(encodings[sorted[i]], encodings[sorted[j]]) < 0
	})
	for i := 1; i < len(sorted); i++ {
		if bytes.Equal(encodings[sorted[i-1]], encodings[sorted[i]]) {
			return nil, ErrDuplicateKey
		}
	}

	// The key whose coefficient is fixed to 1: the second distinct key in
	// sorted order. With a single participant this degenerates to the first
	// key, and aggregation reduces to the plain single-signer key.
	secondKey := encodings[sorted[0]]
	for _, pk := range sorted[1:] {
		if bytes.Compare(encodings[pk], encodings[sorted[0]]) > 0 {
			secondKey = encodings[pk]
			break
		}
	}

	coefficients := make(map[string]curve.Scalar, len(sorted))
	sum := group.NewPoint()
	for _, pk := range sorted {
		coefficient := group.NewScalar().SetNat(oneNat())
		if !bytes.Equal(encodings[pk], secondKey) {
			h := sha512.New()
			h.Write([]byte{tagKeyAggregation})
			h.Write(encodings[pk])
			for _, other := range sorted {
				h.Write(encodings[other])
			}
			coefficient = curve.FromHash(group, h.Sum(nil))
		}

		coefficients[string(encodings[pk])] = coefficient
		sum = sum.Add(coefficient.Act(pk))
	}

	return &keySet{
		publicKey:    sum,
		coefficients: coefficients,
	}, nil
}

// AggregateKeys combines the public keys of all participants into a single
// aggregate key, together with the key coefficient of self.
//
// Returns ErrKeyNotInSet if self is not among publicKeys, and
// ErrDuplicateKey if the same key appears twice.
func AggregateKeys(publicKeys []curve.Point, self curve.Point) (*AggregatedKey, error) {
	set, err := aggregateKeySet(publicKeys)
	if err != nil {
		return nil, err
	}
	selfEncoding, err := self.MarshalBinary()
	if err != nil {
		return nil, err
	}
	coefficient, ok := set.coefficients[string(selfEncoding)]
	if !ok {
		return nil, ErrKeyNotInSet
	}
	return &AggregatedKey{
		PublicKey:   set.publicKey,
		Coefficient: coefficient,
	}, nil
}
