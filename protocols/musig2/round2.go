package musig2

import (
	"github.com/trysuperdrop/multi-party-eddsa/internal/round"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/party"
)

// round2 collects the nonce commitments of all parties, and broadcasts this
// party's partial signature.
type round2 struct {
	*round1

	// nonces is the bundle generated in round 1. The secret part is consumed
	// during Finalize.
	nonces *NonceBundle
	// received holds the commitments of each party, ourselves included.
	received map[party.ID]*PublicNonces
}

type broadcast2 struct {
	// R1 and R2 are the two nonce commitments produced by the sender of this
	// message.
	R1, R2 curve.Point
}

// VerifyMessage implements round.Round.
func (round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	return (&PublicNonces{R: []curve.Point{body.R1, body.R2}}).Validate()
}

// StoreMessage implements round.Round.
func (r *round2) StoreMessage(msg round.Message) error {
	body := msg.Content.(*broadcast2)
	r.received[msg.From] = &PublicNonces{R: []curve.Point{body.R1, body.R2}}
	return nil
}

// Finalize implements round.Round.
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	others := make([]*PublicNonces, 0, r.N()-1)
	for _, id := range r.OtherPartyIDs() {
		others = append(others, r.received[id])
	}

	sig, err := PartialSign(r.nonces, others, r.aggregateKey, r.keys, r.message)
	if err != nil {
		return r, err
	}

	// Recompute the session values needed to verify the other parties'
	// shares in the next round.
	all := make([]*PublicNonces, 0, r.N())
	for _, id := range r.PartyIDs() {
		all = append(all, r.received[id])
	}
	groupNonces := sumNonces(r.Group(), all)
	binding := bindingScalar(r.Group(), r.aggregateKey.PublicKey, groupNonces, r.message)
	challenge := eddsa.Challenge(sig.R, r.aggregateKey.PublicKey, r.message)

	if err = r.BroadcastMessage(out, &broadcast3{Z: sig.S}); err != nil {
		return r, err
	}

	return &round3{
		round2:    r,
		R:         sig.R,
		binding:   binding,
		challenge: challenge,
		z:         map[party.ID]curve.Scalar{r.SelfID(): sig.S},
	}, nil
}

// MessageContent implements round.Round.
func (r *round2) MessageContent() round.Content {
	return &broadcast2{
		R1: r.Group().NewPoint(),
		R2: r.Group().NewPoint(),
	}
}

// RoundNumber implements round.Content.
func (broadcast2) RoundNumber() round.Number { return 2 }

// Number implements round.Round.
func (round2) Number() round.Number { return 2 }
