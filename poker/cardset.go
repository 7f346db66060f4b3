package poker

import (
	"math/bits"
	"strings"
)

// CardSet is a set of cards stored as a 52-bit mask. Bit i is the card with
// value i, so iteration order is the StandardDeck order.
type CardSet uint64

// NewCardSet builds a set from cards. Repeated cards collapse.
func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s |= 1 << c
	}
	return s
}

// DistinctSet collects every card of every group into a set and fails with a
// DuplicateCardError on the first repeated card.
func DistinctSet(groups ...[]Card) (CardSet, error) {
	var s CardSet
	for _, g := range groups {
		for _, c := range g {
			if !c.Valid() {
				return 0, &ParseError{Input: c.String(), Reason: "card outside the standard deck"}
			}
			if s.Contains(c) {
				return 0, &DuplicateCardError{Card: c}
			}
			s |= 1 << c
		}
	}
	return s, nil
}

// Add adds a card to the set.
func (s *CardSet) Add(c Card) {
	*s |= 1 << c
}

// Remove removes a card from the set.
func (s *CardSet) Remove(c Card) {
	*s &^= 1 << c
}

// Contains reports whether c is in the set.
func (s CardSet) Contains(c Card) bool {
	return s&(1<<c) != 0
}

// Overlaps reports whether the two sets share a card.
func (s CardSet) Overlaps(o CardSet) bool {
	return s&o != 0
}

// Count returns the number of cards in the set.
func (s CardSet) Count() int {
	return bits.OnesCount64(uint64(s))
}

// Cards returns the members in ascending card order.
func (s CardSet) Cards() []Card {
	return s.AppendCards(make([]Card, 0, s.Count()))
}

// AppendCards appends the members in ascending card order to dst.
func (s CardSet) AppendCards(dst []Card) []Card {
	for m := uint64(s); m != 0; m &= m - 1 {
		dst = append(dst, Card(bits.TrailingZeros64(m)))
	}
	return dst
}

// RankMask returns a 13-bit mask of the ranks present in the set.
func (s CardSet) RankMask() uint16 {
	var mask uint16
	for suit := Clubs; suit <= Spades; suit++ {
		mask |= s.SuitMask(suit)
	}
	return mask
}

// SuitMask returns a 13-bit mask of the ranks held in the given suit.
func (s CardSet) SuitMask(suit Suit) uint16 {
	var mask uint16
	m := uint64(s) >> suit
	for r := 0; r < NumRanks; r++ {
		if m&(1<<(4*r)) != 0 {
			mask |= 1 << r
		}
	}
	return mask
}

func (s CardSet) String() string {
	var b strings.Builder
	for m := uint64(s); m != 0; m &= m - 1 {
		b.WriteString(Card(bits.TrailingZeros64(m)).String())
	}
	return b.String()
}
