package protocol

import (
	"errors"
	"sync"

	"github.com/trysuperdrop/multi-party-eddsa/internal/round"
)

// ErrMessageDuplicate is returned when two messages for the same round from
// the same sender are received.
var ErrMessageDuplicate = errors.New("protocol: message was already handled")

// queue holds messages which arrived before their round became current.
type queue struct {
	messages []*Message
	size     int
	mtx      sync.Mutex
}

func newQueue(size int) *queue {
	return &queue{
		messages: make([]*Message, 0, size),
		size:     size,
	}
}

func (q *queue) Store(msg *Message) error {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	for _, existingMsg := range q.messages {
		if existingMsg.From == msg.From && existingMsg.RoundNumber == msg.RoundNumber {
			return ErrMessageDuplicate
		}
	}

	q.messages = append(q.messages, msg)
	return nil
}

func (q *queue) Get(roundNumber round.Number) []*Message {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	out := make([]*Message, 0, q.size)
	remaining := make([]*Message, 0, q.size)
	for _, msg := range q.messages {
		if msg.RoundNumber == roundNumber {
			out = append(out, msg)
		} else {
			remaining = append(remaining, msg)
		}
	}
	q.messages = remaining
	return out
}
