package party

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDSliceSortsAndCopies(t *testing.T) {
	original := []ID{"c", "a", "b"}
	ids := NewIDSlice(original)
	assert.True(t, ids.Valid())
	assert.Equal(t, IDSlice{"a", "b", "c"}, ids)
	// the original slice is untouched
	assert.Equal(t, []ID{"c", "a", "b"}, original)
}

func TestIDSliceValid(t *testing.T) {
	assert.False(t, IDSlice{"a", "a", "b"}.Valid())
	assert.False(t, IDSlice{"b", "a"}.Valid())
	assert.False(t, IDSlice{"", "a"}.Valid())
	assert.True(t, IDSlice{}.Valid())
	assert.True(t, IDSlice{"a", "b", "c"}.Valid())
}

func TestIDSliceContainsRemove(t *testing.T) {
	ids := NewIDSlice([]ID{"a", "b", "c", "d"})
	assert.True(t, ids.Contains("a", "d"))
	assert.False(t, ids.Contains("e"))

	removed := ids.Remove("b")
	assert.Equal(t, IDSlice{"a", "c", "d"}, removed)
	assert.True(t, ids.Contains("b"), "Remove must not modify the receiver")
}
