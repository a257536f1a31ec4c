package musig2

import (
	"bytes"
	cryptorand "crypto/rand"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
)

func testKeys(t *testing.T, n int) []curve.Point {
	t.Helper()
	keys := make([]curve.Point, n)
	for i := range keys {
		kp, err := eddsa.NewKeyPair(cryptorand.Reader)
		require.NoError(t, err)
		keys[i] = kp.PublicKey
	}
	return keys
}

func TestAggregateKeysOrderIndependent(t *testing.T) {
	keys := testKeys(t, 5)
	self := keys[2]

	expected, err := AggregateKeys(keys, self)
	require.NoError(t, err)

	shuffled := make([]curve.Point, len(keys))
	copy(shuffled, keys)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	actual, err := AggregateKeys(shuffled, self)
	require.NoError(t, err)
	assert.True(t, expected.PublicKey.Equal(actual.PublicKey))
	assert.True(t, expected.Coefficient.Equal(actual.Coefficient))
}

func TestAggregateKeysSecondKeyCoefficient(t *testing.T) {
	group := curve.Edwards25519{}
	keys := testKeys(t, 4)

	// the second key in sorted encoding order has coefficient 1
	sorted := make([]curve.Point, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		a, _ := sorted[i].MarshalBinary()
		b, _ := sorted[j].MarshalBinary()
		return bytes.Compare(a, b) < 0
	})
	second := sorted[1]

	one := group.NewScalar().SetNat(oneNat())
	aggregate, err := AggregateKeys(keys, second)
	require.NoError(t, err)
	assert.True(t, aggregate.Coefficient.Equal(one), "second key in sorted order should have coefficient 1")

	// all other keys get a hash derived coefficient, and everyone computes
	// the same aggregate
	for _, pk := range keys {
		if pk == second {
			continue
		}
		other, err := AggregateKeys(keys, pk)
		require.NoError(t, err)
		assert.False(t, other.Coefficient.Equal(one))
		assert.True(t, other.PublicKey.Equal(aggregate.PublicKey))
	}
}

func TestAggregateKeysSingleParty(t *testing.T) {
	group := curve.Edwards25519{}
	keys := testKeys(t, 1)

	aggregate, err := AggregateKeys(keys, keys[0])
	require.NoError(t, err)

	// with a single participant the scheme degenerates to the plain key
	one := group.NewScalar().SetNat(oneNat())
	assert.True(t, aggregate.Coefficient.Equal(one))
	assert.True(t, aggregate.PublicKey.Equal(keys[0]))
}

func TestAggregateKeySetCoefficients(t *testing.T) {
	keys := testKeys(t, 4)

	set, err := aggregateKeySet(keys)
	require.NoError(t, err)
	require.Len(t, set.coefficients, len(keys))

	// the one-pass map agrees with the per-participant aggregation
	for _, pk := range keys {
		aggregate, err := AggregateKeys(keys, pk)
		require.NoError(t, err)
		assert.True(t, set.publicKey.Equal(aggregate.PublicKey))

		enc, err := pk.MarshalBinary()
		require.NoError(t, err)
		assert.True(t, set.coefficients[string(enc)].Equal(aggregate.Coefficient))
	}
}

func TestAggregateKeysRejects(t *testing.T) {
	keys := testKeys(t, 3)
	stranger := testKeys(t, 1)[0]

	_, err := AggregateKeys(keys, stranger)
	assert.ErrorIs(t, err, ErrKeyNotInSet)

	_, err = AggregateKeys(nil, stranger)
	assert.ErrorIs(t, err, ErrKeyNotInSet)

	withDuplicate := append([]curve.Point{keys[0]}, keys...)
	_, err = AggregateKeys(withDuplicate, keys[0])
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
