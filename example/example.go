package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/trysuperdrop/multi-party-eddsa/internal/test"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/eddsa"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/math/curve"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/party"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/protocol"
	"github.com/trysuperdrop/multi-party-eddsa/protocols/musig2"
)

func MuSig2Sign(c *musig2.Config, m []byte, signers party.IDSlice, n *test.Network) error {
	h, err := protocol.NewMultiHandler(musig2.StartSign(c, signers, m), nil)
	if err != nil {
		return err
	}
	test.HandlerLoop(c.ID, h, n)

	signResult, err := h.Result()
	if err != nil {
		return err
	}
	signature := signResult.(*eddsa.Signature)

	publicKey, err := c.PublicPoint()
	if err != nil {
		return err
	}
	if !eddsa.Verify(publicKey, m, signature) {
		return errors.New("failed to verify musig2 signature")
	}
	return nil
}

func All(c *musig2.Config, ids party.IDSlice, message []byte, n *test.Network, wg *sync.WaitGroup) error {
	defer wg.Done()
	return MuSig2Sign(c, message, ids, n)
}

func main() {
	ids := party.IDSlice{"a", "b", "c", "d", "e", "f"}
	messageToSign := []byte("hello")

	// each party generates its long-term key; in a real deployment the
	// public keys would be exchanged out of band
	public := make(map[party.ID]curve.Point, len(ids))
	configs := make(map[party.ID]*musig2.Config, len(ids))
	for _, id := range ids {
		keyPair, err := eddsa.NewKeyPair(rand.Reader)
		if err != nil {
			panic(err)
		}
		configs[id] = &musig2.Config{ID: id, KeyPair: keyPair, Public: public}
		public[id] = keyPair.PublicKey
	}

	net := test.NewNetwork(ids)

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id party.ID) {
			if err := All(configs[id], ids, messageToSign, net, &wg); err != nil {
				fmt.Println(err)
			}
		}(id)
	}
	wg.Wait()
	fmt.Println("done")
}
