package round

import "github.com/ap-arnab/DrawChain/internal/cards"

// Observer receives round lifecycle notifications. Notifications fire after
// the corresponding state mutation has been applied, exactly once per logical
// event and in event order. Observers must not call back into the Round.
type Observer interface {
	OnCommitted(digest []byte)
	OnRevealed(secret []byte)
	OnCardDrawn(caller string, card cards.Card)
}
