// Package shuffle derives deck permutations from a disclosed secret.
//
// The derivation is part of the public verification contract: anyone holding
// the revealed secret must be able to reproduce the permutation bit-for-bit,
// so every byte fed into the hash is fixed here and must never change.
package shuffle

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ap-arnab/DrawChain/internal/cards"
)

// Derive computes the deck permutation for a revealed secret.
//
// Algorithm: Fisher-Yates over the canonical ascending deck [0..deckSize-1],
// with the conventional RNG replaced by a hash chain. For i from deckSize-1
// down to 1:
//
//	digest = sha256(secret || bigEndianUint32(i))
//	r      = bigEndianUint64(digest[0:8])
//	j      = r mod (i+1)
//	swap deck[i], deck[j]
//
// Derive is pure: for a fixed secret and deckSize it always returns the
// identical sequence. deckSize <= 1 yields the trivial permutation with no
// hashing at all.
//
// The per-swap hash makes this O(deckSize) sha256 calls, which is fine for
// card decks; it is not meant for large permutations.
func Derive(secret []byte, deckSize int) []cards.Card {
	if deckSize <= 0 {
		return []cards.Card{}
	}
	deck := make([]cards.Card, deckSize)
	for i := range deck {
		deck[i] = cards.Card(i)
	}
	buf := make([]byte, len(secret)+4)
	copy(buf, secret)
	for i := deckSize - 1; i > 0; i-- {
		binary.BigEndian.PutUint32(buf[len(secret):], uint32(i))
		h := sha256.Sum256(buf)
		r := binary.BigEndian.Uint64(h[:8])
		j := int(r % uint64(i+1))
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}
