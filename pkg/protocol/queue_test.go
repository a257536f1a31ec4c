package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	q := newQueue(4)

	msg2 := &Message{From: "a", RoundNumber: 2}
	msg3 := &Message{From: "a", RoundNumber: 3}
	require.NoError(t, q.Store(msg2))
	require.NoError(t, q.Store(msg3))

	// a second message from the same sender for the same round is rejected
	assert.ErrorIs(t, q.Store(&Message{From: "a", RoundNumber: 3}), ErrMessageDuplicate)

	got := q.Get(3)
	require.Len(t, got, 1)
	assert.Equal(t, msg3, got[0])

	// retrieved messages are removed, others stay queued
	assert.Empty(t, q.Get(3))
	require.Len(t, q.Get(2), 1)
}
