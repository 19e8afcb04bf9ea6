package app

import (
	"crypto/ed25519"
	"fmt"
	"strconv"

	"github.com/ap-arnab/DrawChain/internal/codec"
	"github.com/ap-arnab/DrawChain/internal/round"
	"github.com/ap-arnab/DrawChain/internal/state"
)

func guardedTxType(typ string) bool {
	switch typ {
	case "draw/commit", "draw/reveal", "draw/reset":
		return true
	}
	return false
}

func requireSignedEnvelope(env codec.TxEnvelope) error {
	if env.Nonce == "" {
		return fmt.Errorf("missing tx.nonce")
	}
	if env.Signer == "" {
		return fmt.Errorf("missing tx.signer")
	}
	if len(env.Sig) == 0 {
		return fmt.Errorf("missing tx.sig")
	}
	if len(env.Sig) != ed25519.SignatureSize {
		return fmt.Errorf("invalid tx.sig length: got %d want %d", len(env.Sig), ed25519.SignatureSize)
	}
	return nil
}

// requireAuthorityAuth enforces the authority-only guard on commit, reveal
// and reset: the signer must be the configured authority and the signature
// must verify against its pubkey.
func requireAuthorityAuth(st *state.State, env codec.TxEnvelope) error {
	if st == nil {
		return fmt.Errorf("state is nil")
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != st.Authority {
		return fmt.Errorf("%w: signer=%q authority=%q", round.ErrUnauthorized, env.Signer, st.Authority)
	}
	msg := codec.TxSignBytes(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(ed25519.PublicKey(st.AuthorityKey), msg, env.Sig) {
		return fmt.Errorf("%w: invalid signature", round.ErrUnauthorized)
	}
	return nil
}

// checkNonce validates replay protection without mutating state; the nonce
// is bumped only after the guarded operation succeeds.
func checkNonce(st *state.State, env codec.TxEnvelope) (uint64, error) {
	n, err := strconv.ParseUint(env.Nonce, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tx.nonce %q: %w", env.Nonce, err)
	}
	if n <= st.NonceMax[env.Signer] {
		return 0, fmt.Errorf("stale tx.nonce %d for signer %q (last %d)", n, env.Signer, st.NonceMax[env.Signer])
	}
	return n, nil
}

func bumpNonce(st *state.State, signer string, nonce uint64) {
	st.NonceMax[signer] = nonce
}
