package musig2

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
)

func TestGenerateNonces(t *testing.T) {
	kp, err := eddsa.NewKeyPair(rand.Reader)
	require.NoError(t, err)

	bundle, err := GenerateNonces(kp, []byte("msg"), rand.Reader)
	require.NoError(t, err)
	require.NoError(t, bundle.Public.Validate())

	// the two slots must hold distinct nonces
	assert.False(t, bundle.r[0].Equal(bundle.r[1]))
	assert.False(t, bundle.Public.R[0].Equal(bundle.Public.R[1]))
	for j := range bundle.r {
		assert.True(t, bundle.r[j].ActOnBase().Equal(bundle.Public.R[j]))
	}

	// message may be unknown at nonce generation time
	_, err = GenerateNonces(kp, nil, rand.Reader)
	require.NoError(t, err)
}

func TestNonceReuseRejected(t *testing.T) {
	message := []byte("reuse")
	kp, err := eddsa.NewKeyPair(rand.Reader)
	require.NoError(t, err)

	aggregate, err := AggregateKeys([]curve.Point{kp.PublicKey}, kp.PublicKey)
	require.NoError(t, err)

	bundle, err := GenerateNonces(kp, message, rand.Reader)
	require.NoError(t, err)

	_, err = PartialSign(bundle, nil, aggregate, kp, message)
	require.NoError(t, err)

	// a second signature with the same bundle would leak the private key
	_, err = PartialSign(bundle, nil, aggregate, kp, message)
	assert.ErrorIs(t, err, ErrNonceReused)
}

func TestPublicNoncesValidate(t *testing.T) {
	group := curve.Edwards25519{}
	kp, err := eddsa.NewKeyPair(rand.Reader)
	require.NoError(t, err)

	bundle, err := GenerateNonces(kp, nil, rand.Reader)
	require.NoError(t, err)

	tooFew := &PublicNonces{R: bundle.Public.R[:1]}
	assert.ErrorIs(t, tooFew.Validate(), ErrNonceCount)

	tooMany := &PublicNonces{R: append([]curve.Point{group.NewBasePoint()}, bundle.Public.R...)}
	assert.ErrorIs(t, tooMany.Validate(), ErrNonceCount)

	identity := &PublicNonces{R: []curve.Point{bundle.Public.R[0], group.NewPoint()}}
	assert.Error(t, identity.Validate())
}
