package codec

import (
	"encoding/json"
	"fmt"
)

// TxEnvelope is the transaction container.
//
// CometBFT transactions are opaque bytes; DrawChain uses JSON-encoded
// envelopes routed by Type.
type TxEnvelope struct {
	// Basic routing.
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Tx auth:
	// - Nonce: included in the signed message for replay protection (must
	//   increase per signer).
	// - Signer: logical signer id (the authority account for guarded txs).
	// - Sig: Ed25519 signature over (type, nonce, signer, sha256(value)).
	//
	// Required for draw/commit, draw/reveal and draw/reset; optional for
	// draw/card.
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// ---- Draw ----

// DrawCommitTx fixes the commitment digest for the current round. The chain
// does not (and cannot) check the digest against any secret yet; it only
// records it.
type DrawCommitTx struct {
	Digest []byte `json:"digest"` // base64 (32 bytes)
}

// DrawRevealTx discloses the secret whose sha256 must equal the committed
// digest. The deck permutation is derived from it in the same tx.
type DrawRevealTx struct {
	Secret []byte `json:"secret"` // base64, arbitrary length
}

// DrawCardTx draws the next card of the revealed permutation. Open to any
// caller; Caller is recorded in the CardDrawn event.
type DrawCardTx struct {
	Caller string `json:"caller"`
}

// DrawResetTx clears an idle or exhausted round and starts a fresh one.
type DrawResetTx struct{}
