package musig2

import (
	"github.com/trysuperdrop/multi-party-eddsa/internal/round"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/party"
)

// round3 collects the partial signatures of all parties, verifies each one
// against the sender's key and nonce commitments, and aggregates them into
// the final signature.
type round3 struct {
	*round2

	// R is the effective group nonce of the session.
	R curve.Point
	// binding is the nonce binding scalar b.
	binding curve.Scalar
	// challenge is the signature challenge e.
	challenge curve.Scalar
	// z holds the partial signature of each party, ourselves included.
	z map[party.ID]curve.Scalar
}

type broadcast3 struct {
	// Z is the partial signature of the sender of this message.
	Z curve.Scalar
}

// VerifyMessage implements round.Round.
//
// Each share is checked against the sender's public key and nonce
// commitments, so a misbehaving party is identified before aggregation.
func (r *round3) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.Z == nil {
		return round.ErrNilFields
	}

	coefficient := r.coefficients[msg.From]
	if coefficient == nil {
		return ErrKeyNotInSet
	}
	if !VerifyPartial(body.Z, r.received[msg.From], r.binding, r.challenge, coefficient, r.publicKeys[msg.From]) {
		return ErrInvalidPartialSignature
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *round3) StoreMessage(msg round.Message) error {
	body := msg.Content.(*broadcast3)
	r.z[msg.From] = body.Z
	return nil
}

// Finalize implements round.Round.
func (r *round3) Finalize(chan<- *round.Message) (round.Session, error) {
	own := &PartialSignature{R: r.R, S: r.z[r.SelfID()]}
	others := make([]*PartialSignature, 0, r.N()-1)
	for _, id := range r.OtherPartyIDs() {
		others = append(others, &PartialSignature{R: r.R, S: r.z[id]})
	}

	sig, err := AggregateSignatures(own, others)
	if err != nil {
		return r.AbortRound(err), nil
	}

	if !eddsa.Verify(r.aggregateKey.PublicKey, r.message, sig) {
		return r.AbortRound(ErrInvalidPartialSignature), nil
	}

	return r.ResultRound(sig), nil
}

// MessageContent implements round.Round.
func (r *round3) MessageContent() round.Content {
	return &broadcast3{
		Z: r.Group().NewScalar(),
	}
}

// RoundNumber implements round.Content.
func (broadcast3) RoundNumber() round.Number { return 3 }

// Number implements round.Round.
func (round3) Number() round.Number { return 3 }
