// Package cards maps opaque card ids onto the standard 52-card deck for
// display. The chain itself only ever deals in Card values; suit/rank are a
// client-side concern.
package cards

// Card identifies a card by its position in the canonical ordering.
// For the standard deck: 0..12 clubs, 13..25 diamonds, 26..38 hearts,
// 39..51 spades, ranks ascending 2..A within each suit.
type Card uint8

func (c Card) Rank() uint8 { // 2..14
	return uint8(c%13) + 2
}

func (c Card) Suit() uint8 { // 0..3
	return uint8(c / 13)
}

func (c Card) String() string {
	r := c.Rank()
	var rch byte
	switch r {
	case 14:
		rch = 'A'
	case 13:
		rch = 'K'
	case 12:
		rch = 'Q'
	case 11:
		rch = 'J'
	case 10:
		rch = 'T'
	default:
		rch = byte('0' + r)
	}
	var sch byte
	switch c.Suit() {
	case 0:
		sch = 'c'
	case 1:
		sch = 'd'
	case 2:
		sch = 'h'
	case 3:
		sch = 's'
	default:
		sch = '?'
	}
	return string([]byte{rch, sch})
}
