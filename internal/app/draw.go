package app

import (
	"encoding/json"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/ap-arnab/DrawChain/internal/cards"
	"github.com/ap-arnab/DrawChain/internal/codec"
)

// deliverTx applies a single tx. Handlers are all-or-nothing: the round
// mutators fail before touching state, and the replay nonce is bumped only
// on success, so a nonzero code always means "state unchanged".
func (a *DrawApp) deliverTx(txBytes []byte) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return errResult(err)
	}

	a.pending = nil

	switch env.Type {
	case "draw/commit":
		if err := requireAuthorityAuth(a.st, env); err != nil {
			return errResult(err)
		}
		nonce, err := checkNonce(a.st, env)
		if err != nil {
			return errResult(err)
		}
		var msg codec.DrawCommitTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(fmt.Errorf("bad draw/commit value: %w", err))
		}
		if err := a.st.Round.Commit(msg.Digest); err != nil {
			return errResult(err)
		}
		bumpNonce(a.st, env.Signer, nonce)
		return a.okResult()

	case "draw/reveal":
		if err := requireAuthorityAuth(a.st, env); err != nil {
			return errResult(err)
		}
		nonce, err := checkNonce(a.st, env)
		if err != nil {
			return errResult(err)
		}
		var msg codec.DrawRevealTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(fmt.Errorf("bad draw/reveal value: %w", err))
		}
		if err := a.st.Round.Reveal(msg.Secret); err != nil {
			return errResult(err)
		}
		bumpNonce(a.st, env.Signer, nonce)
		return a.okResult()

	case "draw/card":
		var msg codec.DrawCardTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(fmt.Errorf("bad draw/card value: %w", err))
		}
		if msg.Caller == "" {
			return errResult(fmt.Errorf("missing caller"))
		}
		// Drawing is open to anyone; identity authentication is out of
		// scope here, but a signed envelope must at least claim the same
		// caller it signs for.
		if env.Signer != "" && env.Signer != msg.Caller {
			return errResult(fmt.Errorf("tx signer mismatch: signer=%q caller=%q", env.Signer, msg.Caller))
		}
		if _, err := a.st.Round.Draw(msg.Caller); err != nil {
			return errResult(err)
		}
		return a.okResult()

	case "draw/reset":
		if err := requireAuthorityAuth(a.st, env); err != nil {
			return errResult(err)
		}
		nonce, err := checkNonce(a.st, env)
		if err != nil {
			return errResult(err)
		}
		if err := a.st.Round.Reset(); err != nil {
			return errResult(err)
		}
		a.st.RoundSeq++
		bumpNonce(a.st, env.Signer, nonce)
		a.pending = append(a.pending, abci.Event{
			Type: "RoundReset",
			Attributes: []abci.EventAttribute{
				{Key: "roundSeq", Value: fmt.Sprintf("%d", a.st.RoundSeq), Index: true},
			},
		})
		return a.okResult()

	default:
		return errResult(fmt.Errorf("unknown tx type: %s", env.Type))
	}
}

func errResult(err error) *abci.ExecTxResult {
	return &abci.ExecTxResult{Code: 1, Log: err.Error()}
}

// okResult drains the events buffered by the observer hooks during this tx.
func (a *DrawApp) okResult() *abci.ExecTxResult {
	events := a.pending
	a.pending = nil
	return &abci.ExecTxResult{Code: 0, Events: events}
}

// ---- round.Observer ----
//
// The app is subscribed to its round; notifications become ABCI events on
// the tx that caused them, in notification order.

func (a *DrawApp) OnCommitted(digest []byte) {
	a.pending = append(a.pending, abci.Event{
		Type: "RoundCommitted",
		Attributes: []abci.EventAttribute{
			{Key: "roundSeq", Value: fmt.Sprintf("%d", a.st.RoundSeq), Index: true},
			{Key: "digest", Value: bytesToHex(digest), Index: true},
		},
	})
}

func (a *DrawApp) OnRevealed(secret []byte) {
	a.pending = append(a.pending, abci.Event{
		Type: "RoundRevealed",
		Attributes: []abci.EventAttribute{
			{Key: "roundSeq", Value: fmt.Sprintf("%d", a.st.RoundSeq), Index: true},
			{Key: "secret", Value: bytesToHex(secret), Index: true},
		},
	})
}

func (a *DrawApp) OnCardDrawn(caller string, card cards.Card) {
	a.pending = append(a.pending, abci.Event{
		Type: "CardDrawn",
		Attributes: []abci.EventAttribute{
			{Key: "roundSeq", Value: fmt.Sprintf("%d", a.st.RoundSeq), Index: true},
			{Key: "caller", Value: caller, Index: true},
			{Key: "card", Value: fmt.Sprintf("%d", card), Index: true},
			{Key: "name", Value: card.String(), Index: false},
			{Key: "pos", Value: fmt.Sprintf("%d", a.st.Round.Cursor-1), Index: false},
		},
	})
}
