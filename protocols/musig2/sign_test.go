package musig2

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
)

type signer struct {
	keys      *eddsa.KeyPair
	aggregate *AggregatedKey
	nonces    *NonceBundle
}

func testSigners(t *testing.T, n int, message []byte) []*signer {
	t.Helper()
	signers := make([]*signer, n)
	publicKeys := make([]curve.Point, n)
	for i := range signers {
		kp, err := eddsa.NewKeyPair(rand.Reader)
		require.NoError(t, err)
		signers[i] = &signer{keys: kp}
		publicKeys[i] = kp.PublicKey
	}
	for _, s := range signers {
		aggregate, err := AggregateKeys(publicKeys, s.keys.PublicKey)
		require.NoError(t, err)
		s.aggregate = aggregate

		nonces, err := GenerateNonces(s.keys, message, rand.Reader)
		require.NoError(t, err)
		s.nonces = nonces
	}
	return signers
}

func TestSignRoundTrip(t *testing.T) {
	message := []byte("round trip")
	for _, n := range []int{1, 2, 3, 5} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			signers := testSigners(t, n, message)

			partials := make([]*PartialSignature, n)
			for i, s := range signers {
				others := make([]*PublicNonces, 0, n-1)
				for j, other := range signers {
					if j != i {
						others = append(others, &other.nonces.Public)
					}
				}
				partial, err := PartialSign(s.nonces, others, s.aggregate, s.keys, message)
				require.NoError(t, err)
				partials[i] = partial
			}

			// every party derives the same effective nonce
			for _, partial := range partials[1:] {
				assert.True(t, partial.R.Equal(partials[0].R))
			}

			sig, err := AggregateSignatures(partials[0], partials[1:])
			require.NoError(t, err)
			assert.True(t, eddsa.Verify(signers[0].aggregate.PublicKey, message, sig))
			assert.False(t, eddsa.Verify(signers[0].aggregate.PublicKey, []byte("other message"), sig))

			// the aggregate is an ordinary ed25519 signature
			aggBytes, err := signers[0].aggregate.PublicKey.MarshalBinary()
			require.NoError(t, err)
			sigBytes, err := sig.MarshalBinary()
			require.NoError(t, err)
			assert.True(t, ed25519.Verify(ed25519.PublicKey(aggBytes), message, sigBytes))
		})
	}
}

func TestSumNoncesCommutative(t *testing.T) {
	group := curve.Edwards25519{}
	message := []byte("sum")
	signers := testSigners(t, 4, message)

	forward := make([]*PublicNonces, len(signers))
	backward := make([]*PublicNonces, len(signers))
	for i, s := range signers {
		forward[i] = &s.nonces.Public
		backward[len(signers)-1-i] = &s.nonces.Public
	}

	sumForward := sumNonces(group, forward)
	sumBackward := sumNonces(group, backward)
	for j := range sumForward {
		assert.True(t, sumForward[j].Equal(sumBackward[j]))
	}
}

func TestBindingScalarBindsInputs(t *testing.T) {
	group := curve.Edwards25519{}
	message := []byte("binding")
	signers := testSigners(t, 2, message)

	all := []*PublicNonces{&signers[0].nonces.Public, &signers[1].nonces.Public}
	groupNonces := sumNonces(group, all)
	aggregateKey := signers[0].aggregate.PublicKey

	b := bindingScalar(group, aggregateKey, groupNonces, message)
	assert.False(t, b.IsZero())

	bOtherMessage := bindingScalar(group, aggregateKey, groupNonces, []byte("other"))
	assert.False(t, b.Equal(bOtherMessage))

	otherNonces := sumNonces(group, all[:1])
	bOtherNonces := bindingScalar(group, aggregateKey, otherNonces, message)
	assert.False(t, b.Equal(bOtherNonces))

	bOtherKey := bindingScalar(group, signers[1].keys.PublicKey, groupNonces, message)
	assert.False(t, b.Equal(bOtherKey))

	// the effective nonce actually uses the binding scalar
	R := effectiveNonce(group, groupNonces, b)
	assert.True(t, R.Equal(group.NewPoint().Set(groupNonces[0]).Add(group.NewScalar().Set(b).Act(groupNonces[1]))))
}

func TestVerifyPartial(t *testing.T) {
	group := curve.Edwards25519{}
	message := []byte("verify partial")
	signers := testSigners(t, 2, message)

	all := []*PublicNonces{&signers[0].nonces.Public, &signers[1].nonces.Public}
	groupNonces := sumNonces(group, all)
	binding := bindingScalar(group, signers[0].aggregate.PublicKey, groupNonces, message)

	partial, err := PartialSign(signers[0].nonces, all[1:], signers[0].aggregate, signers[0].keys, message)
	require.NoError(t, err)
	challenge := eddsa.Challenge(partial.R, signers[0].aggregate.PublicKey, message)

	assert.True(t, VerifyPartial(partial.S, all[0], binding, challenge, signers[0].aggregate.Coefficient, signers[0].keys.PublicKey))

	// a share does not verify against another party's commitments
	assert.False(t, VerifyPartial(partial.S, all[1], binding, challenge, signers[0].aggregate.Coefficient, signers[0].keys.PublicKey))

	wrong := group.NewScalar().Set(partial.S).Add(group.NewScalar().SetNat(oneNat()))
	assert.False(t, VerifyPartial(wrong, all[0], binding, challenge, signers[0].aggregate.Coefficient, signers[0].keys.PublicKey))
}

func TestAggregateSignaturesRejectsMismatchedNonce(t *testing.T) {
	message := []byte("mismatch")
	signers := testSigners(t, 2, message)

	all := []*PublicNonces{&signers[0].nonces.Public, &signers[1].nonces.Public}
	partial0, err := PartialSign(signers[0].nonces, all[1:], signers[0].aggregate, signers[0].keys, message)
	require.NoError(t, err)
	partial1, err := PartialSign(signers[1].nonces, all[:1], signers[1].aggregate, signers[1].keys, message)
	require.NoError(t, err)

	forged := &PartialSignature{R: signers[1].keys.PublicKey, S: partial1.S}
	_, err = AggregateSignatures(partial0, []*PartialSignature{forged})
	assert.ErrorIs(t, err, ErrNonceMismatch)

	sig, err := AggregateSignatures(partial0, []*PartialSignature{partial1})
	require.NoError(t, err)
	assert.True(t, eddsa.Verify(signers[0].aggregate.PublicKey, message, sig))
}
