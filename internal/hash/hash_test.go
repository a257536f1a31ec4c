package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDomainSeparation(t *testing.T) {
	h1 := New()
	require.NoError(t, h1.WriteAny(BytesWithDomain{TheDomain: "A", Bytes: []byte("data")}))

	h2 := New()
	require.NoError(t, h2.WriteAny(BytesWithDomain{TheDomain: "B", Bytes: []byte("data")}))

	assert.NotEqual(t, h1.Sum(), h2.Sum(), "same data under different domains must digest differently")
}

func TestHashCloneDiverges(t *testing.T) {
	h := New()
	require.NoError(t, h.WriteAny([]byte("common prefix")))

	c := h.Clone()
	assert.Equal(t, h.Clone().Sum(), c.Sum())

	require.NoError(t, c.WriteAny([]byte("suffix")))
	assert.NotEqual(t, h.Clone().Sum(), c.Sum())
}

func TestHashSumLength(t *testing.T) {
	assert.Len(t, New().Sum(), DigestLengthBytes)
}
