package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/trysuperdrop/multi-party-eddsa/internal/round"
	"github.com/trysuperdrop/multi-party-eddsa/pkg/party"
)

// StartFunc is a function that creates the first round of a protocol.
// If the creation fails (likely due to misconfiguration), an error is
// returned.
type StartFunc func(sessionID []byte) (round.Session, error)

// Handler represents some kind of handler for a protocol.
type Handler interface {
	// Result should return the result of running the protocol, or an error.
	Result() (interface{}, error)
	// Listen returns a channel which will receive new messages to send out.
	Listen() <-chan *Message
	// Stop should abort the protocol execution.
	Stop()
	// Accept processes an incoming message.
	Accept(msg *Message)
}

// MultiHandler represents an execution of a given protocol.
// It provides a simple interface for the user to receive/deliver protocol
// messages.
type MultiHandler struct {
	queue *queue
	mtx   sync.Mutex

	Log zerolog.Logger

	done bool

	outChan  chan *Message
	r        round.Session
	result   interface{}
	err      error
	received map[party.ID]bool
}

// NewMultiHandler expects a StartFunc for the desired protocol.
// It returns a handler that the user can interact with.
func NewMultiHandler(create StartFunc, sessionID []byte) (*MultiHandler, error) {
	r, err := create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to create round: %w", err)
	}
	received := make(map[party.ID]bool, r.N())
	for _, id := range r.OtherPartyIDs() {
		received[id] = false
	}
	h := &MultiHandler{
		queue:    newQueue(r.N() * int(r.FinalRoundNumber())),
		outChan:  make(chan *Message, r.N()*int(r.FinalRoundNumber())),
		r:        r,
		received: received,
	}
	h.Log = zerolog.New(zerolog.NewConsoleWriter()).Level(zerolog.InfoLevel).With().
		Str("protocol", r.ProtocolID()).
		Str("party", string(r.SelfID())).
		Stack().
		Logger()
	h.Log.Info().Msg("start")

	h.mtx.Lock()
	defer h.mtx.Unlock()
	// The first round expects no incoming messages, so it can be finalized
	// right away, producing this party's first batch of outgoing messages.
	if err = h.finishRound(); err != nil {
		return nil, err
	}
	return h, nil
}

// Listen returns a channel with outgoing messages that must be sent to other
// parties. The message received should be _reliably_ broadcast if
// msg.Broadcast is true.
// The channel is closed when either the protocol finishes or an error occurs.
func (h *MultiHandler) Listen() <-chan *Message {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.outChan
}

// Result returns the protocol result if the protocol completed successfully.
// Otherwise an error is returned.
func (h *MultiHandler) Result() (interface{}, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, h.err
	}
	return nil, errors.New("protocol: not finished")
}

// Accept processes an incoming message, and dispatches it to the current
// round, or stores it for a later one. Invalid messages are logged and
// dropped.
//
// This function may be called concurrently from different threads but may
// block until all previous calls have finished.
func (h *MultiHandler) Accept(msg *Message) {
	if err := h.Update(msg); err != nil {
		h.Log.Warn().Err(err).Msg("failed to process message")
	}
}

// Stop aborts the protocol execution if it has not yet completed.
func (h *MultiHandler) Stop() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result == nil && h.err == nil {
		h.err = Error{
			Err: errors.New("aborted by caller"),
		}
	}
	h.stop()
}

// Update performs the following:
// - Check header information about msg and make sure we can accept it in this protocol execution.
// - If the message is for a later round, store it in a queue for later.
// - Validate the contents of the message for this round.
// - If all messages for this round have been received, proceed to the next round.
// - Retrieve from the queue any message intended for the new round.
func (h *MultiHandler) Update(msg *Message) error {
	h.mtx.Lock()
	defer func() {
		if h.err != nil {
			h.stop()
		}
		h.mtx.Unlock()
	}()

	// return early if we are already finished
	if h.result != nil || h.err != nil {
		return h.err
	}

	if msg != nil {
		h.Log.Debug().Stringer("msg", msg).Msg("got new message")
		if err := h.validate(msg); err != nil {
			return err
		}
		if err := h.handleMessage(msg); err != nil {
			return err
		}
	}

	if h.receivedAll() {
		if err := h.finishRound(); err != nil {
			return err
		}
	}

	return nil
}

var (
	ErrMessageWrongSSID          = errors.New("protocol: message has wrong SSID")
	ErrMessageWrongProtocolID    = errors.New("protocol: message has wrong protocol ID")
	ErrMessageUnknownSender      = errors.New("protocol: message from unknown sender")
	ErrMessageWrongDestination   = errors.New("protocol: message is not intended for selfID")
	ErrMessageInvalidRoundNumber = errors.New("protocol: message has invalid round number")
)

func (h *MultiHandler) validate(msg *Message) error {
	if !msg.IsFor(h.r.SelfID()) {
		return ErrMessageWrongDestination
	}

	if !bytes.Equal(h.r.SSID(), msg.SSID) {
		return ErrMessageWrongSSID
	}

	if msg.Protocol != h.r.ProtocolID() {
		return ErrMessageWrongProtocolID
	}

	if msg.RoundNumber > h.r.FinalRoundNumber() {
		return ErrMessageInvalidRoundNumber
	}

	if _, ok := h.received[msg.From]; !ok {
		return ErrMessageUnknownSender
	}

	// message for a previous round
	if msg.RoundNumber < h.roundNumber() {
		return ErrMessageDuplicate
	}

	return nil
}

func (h *MultiHandler) handleMessage(msg *Message) error {
	if msg.RoundNumber != h.roundNumber() {
		h.Log.Debug().Str("from", string(msg.From)).Int("roundNumber", int(msg.RoundNumber)).Msg("storing message")
		return h.queue.Store(msg)
	}
	if h.received[msg.From] {
		return ErrMessageDuplicate
	}

	h.received[msg.From] = true

	content := h.r.MessageContent()
	if err := cbor.Unmarshal(msg.Data, content); err != nil {
		return h.abort(err, msg.From)
	}

	m := round.Message{
		From:      msg.From,
		To:        msg.To,
		Broadcast: msg.Broadcast,
		Content:   content,
	}
	if err := h.r.VerifyMessage(m); err != nil {
		return h.abort(err, msg.From)
	}
	if err := h.r.StoreMessage(m); err != nil {
		return h.abort(err, msg.From)
	}
	return nil
}

func (h *MultiHandler) finishRound() error {
	roundOut := make(chan *round.Message, h.r.N()+1)
	nextRound, err := h.r.Finalize(roundOut)
	close(roundOut)
	if err != nil {
		return h.abort(err, "")
	}

	for m := range roundOut {
		data, err := cbor.Marshal(m.Content)
		if err != nil {
			return h.abort(err, "")
		}
		h.outChan <- &Message{
			SSID:        h.r.SSID(),
			From:        m.From,
			To:          m.To,
			Protocol:    h.r.ProtocolID(),
			RoundNumber: m.Content.RoundNumber(),
			Data:        data,
			Broadcast:   m.Broadcast,
		}
	}

	switch R := nextRound.(type) {
	case *round.Output:
		h.result = R.Result
		h.r = nil
		if h.result == nil && h.err == nil {
			h.err = Error{
				RoundNumber: 0,
				Err:         errors.New("protocol: finished without result"),
			}
		}
		h.stop()
		return h.err
	case *round.Abort:
		var culprit party.ID
		if len(R.Culprits) > 0 {
			culprit = R.Culprits[0]
		}
		h.err = Error{
			RoundNumber: R.Number(),
			Culprit:     culprit,
			Err:         R.Err,
		}
		h.stop()
		return h.err
	}

	h.r = nextRound
	h.Log.Info().Int("round", int(h.roundNumber())).Msg("round advanced")

	// reset received state
	newReceived := make(map[party.ID]bool, len(h.received))
	for id := range h.received {
		newReceived[id] = false
	}
	h.received = newReceived

	for _, msg := range h.queue.Get(h.roundNumber()) {
		if err := h.handleMessage(msg); err != nil {
			return err
		}
	}

	if h.receivedAll() {
		return h.finishRound()
	}

	return nil
}

func (h *MultiHandler) receivedAll() bool {
	for _, received := range h.received {
		if !received {
			return false
		}
	}
	return true
}

// abort wraps a round error with information about the current round and a
// possible culprit.
func (h *MultiHandler) abort(err error, culprit party.ID) error {
	roundErr := Error{
		RoundNumber: h.roundNumber(),
		Culprit:     culprit,
		Err:         err,
	}
	if h.err == nil {
		h.err = roundErr
	}

	return roundErr
}

// roundNumber is the round which incoming messages are expected to belong to.
func (h *MultiHandler) roundNumber() round.Number {
	return h.r.Number()
}

func (h *MultiHandler) stop() {
	if !h.done {
		h.done = true
		close(h.outChan)
	}
}
