// Package musig2 implements the two-round multi-signature scheme MuSig2,
// described in https://eprint.iacr.org/2020/1261.pdf, instantiated over
// edwards25519 with the plain ed25519 challenge.
//
// We implement the v = 2 variant, meaning each party contributes two nonces,
// together with the Musig2* optimization of appendix B, which fixes the key
// coefficient of the second key to 1.
//
// The package exposes the scheme at two levels: the pure operations
// (AggregateKeys, GenerateNonces, PartialSign, AggregateSignatures) for
// callers bringing their own transport, and a round-based protocol via
// StartSign for use with a protocol.Handler.
package musig2

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/trysuperdrop/multi-party-eddsa/internal/hash"
	"github.com/trysuperdrop/multi-party-eddsa/internal/round"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/party"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/protocol"
)

const (
	protocolID = "musig2/sign"
	// The protocol has 3 concrete rounds: nonce exchange, partial signature
	// broadcast, and aggregation.
	protocolRounds round.Number = 3
)

// Config holds the long-term key material of one participant.
type Config struct {
	// ID uniquely identifies this participant.
	ID party.ID
	// KeyPair is this participant's expanded signing key.
	KeyPair *eddsa.KeyPair
	// Public maps each participant to its public key.
	Public map[party.ID]curve.Point
}

// PublicPoint returns the aggregate public key of the whole signing set.
func (c *Config) PublicPoint() (curve.Point, error) {
	publicKeys := make([]curve.Point, 0, len(c.Public))
	for _, pk := range c.Public {
		publicKeys = append(publicKeys, pk)
	}
	aggregate, err := AggregateKeys(publicKeys, c.KeyPair.PublicKey)
	if err != nil {
		return nil, err
	}
	return aggregate.PublicKey, nil
}

// StartSign initiates the protocol for signing message with all parties in
// signers.
//
// The resulting handler produces an *eddsa.Signature verifiable under the
// aggregate public key of the signing set.
func StartSign(config *Config, signers []party.ID, message []byte) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if config.KeyPair == nil {
			return nil, errors.New("musig2.StartSign: missing key pair")
		}
		group := config.KeyPair.Group()

		sortedIDs := party.NewIDSlice(signers)
		publicKeys := make(map[party.ID]curve.Point, len(sortedIDs))
		flatKeys := make([]curve.Point, 0, len(sortedIDs))
		encodings := make(map[party.ID]string, len(sortedIDs))
		keyBytes := make([]byte, 0, group.PointBytes()*len(sortedIDs))
		for _, id := range sortedIDs {
			pk, ok := config.Public[id]
			if !ok {
				return nil, fmt.Errorf("musig2.StartSign: no public key for party %s", id)
			}
			publicKeys[id] = pk
			flatKeys = append(flatKeys, pk)
			enc, err := pk.MarshalBinary()
			if err != nil {
				return nil, fmt.Errorf("musig2.StartSign: %w", err)
			}
			encodings[id] = string(enc)
			keyBytes = append(keyBytes, enc...)
		}
		if self, ok := publicKeys[config.ID]; !ok || !self.Equal(config.KeyPair.PublicKey) {
			return nil, fmt.Errorf("musig2.StartSign: config public key does not match key pair")
		}

		set, err := aggregateKeySet(flatKeys)
		if err != nil {
			return nil, fmt.Errorf("musig2.StartSign: %w", err)
		}
		// Each party's coefficient is needed again in the last round to
		// verify its partial signature, so keep the whole map.
		coefficients := make(map[party.ID]curve.Scalar, len(sortedIDs))
		for _, id := range sortedIDs {
			coefficients[id] = set.coefficients[encodings[id]]
		}
		aggregateKey := &AggregatedKey{
			PublicKey:   set.publicKey,
			Coefficient: coefficients[config.ID],
		}

		info := round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolRounds,
			SelfID:           config.ID,
			PartyIDs:         sortedIDs,
			Group:            group,
		}
		helper, err := round.NewSession(info, sessionID,
			&hash.BytesWithDomain{TheDomain: "Message", Bytes: message},
			&hash.BytesWithDomain{TheDomain: "Public Keys", Bytes: keyBytes},
		)
		if err != nil {
			return nil, fmt.Errorf("musig2.StartSign: %w", err)
		}

		return &round1{
			Helper:       helper,
			keys:         config.KeyPair,
			publicKeys:   publicKeys,
			coefficients: coefficients,
			aggregateKey: aggregateKey,
			message:      message,
			rand:         rand.Reader,
		}, nil
	}
}
