package musig2

import (
	"io"

	"github.com/trysuperdrop/multi-party-eddsa/internal/round"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/party"
)

// round1 generates this party's nonces and broadcasts the commitments.
// It expects no incoming messages.
type round1 struct {
	*round.Helper

	// keys is this party's expanded signing key.
	keys *eddsa.KeyPair
	// publicKeys maps each participant to its public key.
	publicKeys map[party.ID]curve.Point
	// coefficients maps each participant to its key coefficient.
	coefficients map[party.ID]curve.Scalar
	// aggregateKey is the aggregate public key together with our coefficient.
	aggregateKey *AggregatedKey
	// message is the message to be signed.
	message []byte
	// rand is the randomness source for nonce generation.
	rand io.Reader
}

// VerifyMessage implements round.Round.
func (round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	nonces, err := GenerateNonces(r.keys, r.message, r.rand)
	if err != nil {
		return r, err
	}

	if err = r.BroadcastMessage(out, &broadcast2{
		R1: nonces.Public.R[0],
		R2: nonces.Public.R[1],
	}); err != nil {
		return r, err
	}

	return &round2{
		round1: r,
		nonces: nonces,
		received: map[party.ID]*PublicNonces{
			r.SelfID(): &nonces.Public,
		},
	}, nil
}

// MessageContent implements round.Round.
func (round1) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round1) Number() round.Number { return 1 }
