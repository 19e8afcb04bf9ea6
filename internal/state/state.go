// Package state holds the replicated application state and its persistence.
package state

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ap-arnab/DrawChain/internal/round"
)

// State is the full chain state: the frozen construction-time configuration
// (deck size, authority identity), per-signer replay nonces, and the single
// active round.
type State struct {
	Height int64 `json:"height"`

	// Frozen at first start; immutable thereafter.
	DeckSize     int    `json:"deckSize"`
	Authority    string `json:"authority"`
	AuthorityKey []byte `json:"authorityKey"` // 32-byte ed25519 pubkey (base64 in JSON)

	// Signer -> last accepted tx.nonce, for replay protection.
	NonceMax map[string]uint64 `json:"nonceMax,omitempty"`

	// RoundSeq counts rounds started on this chain (1-based).
	RoundSeq uint64       `json:"roundSeq"`
	Round    *round.Round `json:"round"`
}

func NewState(deckSize int, authority string, authorityKey []byte) (*State, error) {
	if deckSize <= 0 {
		return nil, fmt.Errorf("deckSize must be positive, got %d", deckSize)
	}
	if authority == "" {
		return nil, fmt.Errorf("missing authority")
	}
	if len(authorityKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("authority pubkey must be %d bytes, got %d", ed25519.PublicKeySize, len(authorityKey))
	}
	return &State{
		Height:       0,
		DeckSize:     deckSize,
		Authority:    authority,
		AuthorityKey: append([]byte(nil), authorityKey...),
		NonceMax:     map[string]uint64{},
		RoundSeq:     1,
		Round:        round.New(deckSize),
	}, nil
}

// Load reads state from <home>/state.json, creating a fresh state from the
// supplied configuration when none exists. Reusing a home directory with a
// different deck size or authority is an error: both are fixed for the life
// of the chain.
func Load(home string, deckSize int, authority string, authorityKey []byte) (*State, error) {
	path := filepath.Join(home, "state.json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(deckSize, authority, authorityKey)
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if st.NonceMax == nil {
		st.NonceMax = map[string]uint64{}
	}
	if st.RoundSeq == 0 {
		st.RoundSeq = 1
	}
	if st.Round == nil {
		st.Round = round.New(st.DeckSize)
	}
	st.Round.Normalize()
	if st.DeckSize != deckSize {
		return nil, fmt.Errorf("deck size is frozen at %d for this home, config says %d", st.DeckSize, deckSize)
	}
	if st.Authority != authority || !bytes.Equal(st.AuthorityKey, authorityKey) {
		return nil, fmt.Errorf("authority is frozen for this home; refusing to start with a different identity")
	}
	return &st, nil
}

func (s *State) Save(home string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("mkdir home: %w", err)
	}
	path := filepath.Join(home, "state.json")
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (s *State) AppHash() []byte {
	// Deterministic JSON hash. NonceMax is normalized into a sorted slice so
	// the hash does not lean on map marshaling details; Round is a plain
	// struct and marshals deterministically as-is.
	type nonceKV struct {
		Signer string `json:"signer"`
		Nonce  uint64 `json:"nonce"`
	}

	nonces := make([]nonceKV, 0, len(s.NonceMax))
	for k, v := range s.NonceMax {
		nonces = append(nonces, nonceKV{Signer: k, Nonce: v})
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i].Signer < nonces[j].Signer })

	normalized := struct {
		Height       int64        `json:"height"`
		DeckSize     int          `json:"deckSize"`
		Authority    string       `json:"authority"`
		AuthorityKey []byte       `json:"authorityKey"`
		NonceMax     []nonceKV    `json:"nonceMax,omitempty"`
		RoundSeq     uint64       `json:"roundSeq"`
		Round        *round.Round `json:"round"`
	}{
		Height:       s.Height,
		DeckSize:     s.DeckSize,
		Authority:    s.Authority,
		AuthorityKey: s.AuthorityKey,
		NonceMax:     nonces,
		RoundSeq:     s.RoundSeq,
		Round:        s.Round,
	}

	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return sum[:]
}
