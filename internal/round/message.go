package round

import (
	"github.com/trysuperdrop/multi-party-eddsa/pkg/party"
)

// Content represents the message payload returned by a round during
// finalization.
type Content interface {
	RoundNumber() Number
}

// Message is the raw payload exchanged between rounds.
// An empty To field together with Broadcast set indicates the message is
// intended for all other participants.
type Message struct {
	From, To  party.ID
	Broadcast bool
	Content   Content
}
