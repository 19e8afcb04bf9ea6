// Package round implements the commit-reveal-draw state machine for a single
// provably-fair round.
//
// Lifecycle: idle -> committed -> revealed -> (draws) -> exhausted, then
// Reset starts a fresh round. The binding between commit and reveal is
// sha256: Reveal accepts a secret iff sha256(secret) equals the digest fixed
// at commit time, so the authority cannot choose a secret after seeing what
// permutation it would produce.
//
// Every operation either fully applies or fails with a sentinel error and no
// state change.
package round

import (
	"bytes"
	"crypto/sha256"

	"github.com/ap-arnab/DrawChain/internal/cards"
	"github.com/ap-arnab/DrawChain/internal/shuffle"
)

// Phase is the stored round phase. "exhausted" is never stored: it is
// revealed with the cursor at the end of the deck (see CurrentPhase).
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseCommitted Phase = "committed"
	PhaseRevealed  Phase = "revealed"

	// PhaseExhausted is a derived view-only phase.
	PhaseExhausted Phase = "exhausted"
)

// DigestSecret is the commitment function: the digest an authority must
// commit to for a given secret.
func DigestSecret(secret []byte) []byte {
	h := sha256.Sum256(secret)
	return h[:]
}

// Round holds the state of one commit-reveal-draw round. Fields are exported
// for deterministic JSON persistence; mutate only through the methods.
type Round struct {
	DeckSize        int          `json:"deckSize"`
	Phase           Phase        `json:"phase"`
	CommittedDigest []byte       `json:"committedDigest,omitempty"` // 32 bytes once committed
	DisclosedSecret []byte       `json:"disclosedSecret,omitempty"`
	Permutation     []cards.Card `json:"permutation,omitempty"`
	Cursor          int          `json:"cursor"`

	observers []Observer
}

// New returns a fresh idle round over a deck of deckSize distinct cards.
func New(deckSize int) *Round {
	return &Round{
		DeckSize: deckSize,
		Phase:    PhaseIdle,
	}
}

// Subscribe registers an observer for all subsequent events. Not safe for
// concurrent use with the mutating methods; the owner serializes calls.
func (r *Round) Subscribe(obs Observer) {
	r.observers = append(r.observers, obs)
}

// Normalize repairs zero values after JSON decoding.
func (r *Round) Normalize() {
	if r.Phase == "" {
		r.Phase = PhaseIdle
	}
}

// CurrentPhase returns the phase as seen by clients, folding the terminal
// exhausted sub-state in.
func (r *Round) CurrentPhase() Phase {
	if r.Phase == PhaseRevealed && r.Cursor == r.DeckSize {
		return PhaseExhausted
	}
	return r.Phase
}

// Commit records the authority's digest and moves the round to committed.
// The digest content is trusted as-is; only its width is checked.
func (r *Round) Commit(digest []byte) error {
	if r.Phase != PhaseIdle {
		return ErrAlreadyCommitted
	}
	if len(digest) != sha256.Size {
		return ErrBadDigestSize
	}
	r.CommittedDigest = append([]byte(nil), digest...)
	r.Phase = PhaseCommitted
	for _, obs := range r.observers {
		obs.OnCommitted(r.CommittedDigest)
	}
	return nil
}

// Reveal discloses the secret behind the committed digest. On success the
// deck permutation is derived and the round moves to revealed; on any
// failure (including a digest mismatch) nothing changes.
func (r *Round) Reveal(secret []byte) error {
	switch r.Phase {
	case PhaseIdle:
		return ErrNotCommitted
	case PhaseCommitted:
	default:
		return ErrAlreadyRevealed
	}
	if !bytes.Equal(DigestSecret(secret), r.CommittedDigest) {
		return ErrSeedMismatch
	}
	r.DisclosedSecret = append([]byte(nil), secret...)
	r.Permutation = shuffle.Derive(secret, r.DeckSize)
	r.Phase = PhaseRevealed
	for _, obs := range r.observers {
		obs.OnRevealed(r.DisclosedSecret)
	}
	return nil
}

// Draw returns the next card of the permutation and advances the cursor.
// Draw order is exactly the permutation order; no card is returned twice
// within a round. Any caller may draw.
func (r *Round) Draw(caller string) (cards.Card, error) {
	if r.Phase != PhaseRevealed {
		return 0, ErrNotRevealed
	}
	if r.Cursor >= r.DeckSize {
		return 0, ErrDeckExhausted
	}
	card := r.Permutation[r.Cursor]
	r.Cursor++
	for _, obs := range r.observers {
		obs.OnCardDrawn(caller, card)
	}
	return card, nil
}

// Remaining reports how many cards are left to draw. Callable in any phase;
// before a reveal the full deck is still outstanding.
func (r *Round) Remaining() int {
	return r.DeckSize - r.Cursor
}

// Reset discards the round and starts a fresh idle one with the same deck
// size. A round that was committed must be played to exhaustion first: the
// guard stops the authority from abandoning a revealed round mid-draw to
// dodge scrutiny.
func (r *Round) Reset() error {
	if r.Phase != PhaseIdle && r.Cursor != r.DeckSize {
		return ErrRoundInProgress
	}
	r.Phase = PhaseIdle
	r.CommittedDigest = nil
	r.DisclosedSecret = nil
	r.Permutation = nil
	r.Cursor = 0
	return nil
}
