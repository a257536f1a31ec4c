package musig2

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
)

// iotaReader yields the byte sequence 0, 1, 2, … as test randomness.
type iotaReader struct {
	next byte
}

func (r *iotaReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

func encodeHex(t *testing.T, m interface{ MarshalBinary() ([]byte, error) }) string {
	t.Helper()
	data, err := m.MarshalBinary()
	require.NoError(t, err)
	return hex.EncodeToString(data)
}

// TestGoldenVector pins the full two-party signing flow to fixed values,
// recorded from a standalone big-integer implementation of the scheme over
// the RFC 8032 curve operations. Any change to the hash derivations or
// encodings will show up here, and crypto/ed25519 anchors the result to
// standard single-signer verification.
func TestGoldenVector(t *testing.T) {
	message := []byte("test message")

	kpA, err := eddsa.NewKeyPairFromSeed(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	kpB, err := eddsa.NewKeyPairFromSeed(bytes.Repeat([]byte{2}, 32))
	require.NoError(t, err)

	assert.Equal(t, "8a88e3dd7409f195fd52db2d3cba5d72ca6709bf1d94121bf3748801b40f6f5c", encodeHex(t, kpA.PublicKey))
	assert.Equal(t, "8139770ea87d175f56a35466c34c7ecccb8d8a91b4ee37a25df60f5b8fc9b394", encodeHex(t, kpB.PublicKey))

	publicKeys := []curve.Point{kpA.PublicKey, kpB.PublicKey}
	aggregateA, err := AggregateKeys(publicKeys, kpA.PublicKey)
	require.NoError(t, err)
	aggregateB, err := AggregateKeys(publicKeys, kpB.PublicKey)
	require.NoError(t, err)

	require.True(t, aggregateA.PublicKey.Equal(aggregateB.PublicKey))
	assert.Equal(t, "8e15ff267500808cc7958653b8cda2324ea51303466565a99cfb6e6357d1b23c", encodeHex(t, aggregateA.PublicKey))

	noncesA, err := GenerateNonces(kpA, message, &iotaReader{})
	require.NoError(t, err)
	noncesB, err := GenerateNonces(kpB, message, &iotaReader{})
	require.NoError(t, err)

	partialA, err := PartialSign(noncesA, []*PublicNonces{&noncesB.Public}, aggregateA, kpA, message)
	require.NoError(t, err)
	partialB, err := PartialSign(noncesB, []*PublicNonces{&noncesA.Public}, aggregateB, kpB, message)
	require.NoError(t, err)

	require.True(t, partialA.R.Equal(partialB.R))
	assert.Equal(t, "c259f9d8e449eebe726ac347d1ede4c19f0a63f4ba2d43de299938a17bc93805", encodeHex(t, partialA.S))
	assert.Equal(t, "b17daef2304e263d8c0c196966ac7ffb245cb22f98ebfd5f4aa0716f19db4e0a", encodeHex(t, partialB.S))

	sig, err := AggregateSignatures(partialA, []*PartialSignature{partialB})
	require.NoError(t, err)
	sigBytes, err := sig.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t,
		"e54f960ae399293f06617d90c3dbc78fa84fe3e3edf959e84061fdd2991cd1dd"+
			"73d7a7cb159814fcfe76dcb0379a64bdc46615245319413e7439aa1095a4870f",
		hex.EncodeToString(sigBytes))

	assert.True(t, eddsa.Verify(aggregateA.PublicKey, message, sig))

	aggBytes, err := aggregateA.PublicKey.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(aggBytes), message, sigBytes))
}
