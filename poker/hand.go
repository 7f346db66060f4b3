package poker

import (
	"fmt"
	"strings"
)

// Category enumerates hand categories ordered from weakest to strongest
// under the standard high ranking.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	HighCard:      "High card",
	OnePair:       "One pair",
	TwoPair:       "Two pair",
	ThreeOfAKind:  "Three of a kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full house",
	FourOfAKind:   "Four of a kind",
	StraightFlush: "Straight flush",
}

var categoryLabels = [...]string{
	HighCard:      "HIGH_CARD",
	OnePair:       "ONE_PAIR",
	TwoPair:       "TWO_PAIR",
	ThreeOfAKind:  "THREE_OF_A_KIND",
	Straight:      "STRAIGHT",
	Flush:         "FLUSH",
	FullHouse:     "FULL_HOUSE",
	FourOfAKind:   "FOUR_OF_A_KIND",
	StraightFlush: "STRAIGHT_FLUSH",
}

func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// Label returns the upper snake case identifier used in structured output.
func (c Category) Label() string {
	if int(c) >= len(categoryLabels) {
		return "UNKNOWN"
	}
	return categoryLabels[c]
}

// Hand is an evaluated 5-card hand.
//
// Keys holds the tie-break values, most significant first, and is only
// meaningful to the scheme that produced the hand. For the standard high
// scheme the keys are Rank values: the primary rank (pair, trips, straight
// high card), the secondary rank (second pair, full house pair) and then the
// kickers. Low schemes store ace-low ordinals (ace 0 through king 12). Unused
// trailing keys are zero.
type Hand struct {
	Category Category
	Keys     [5]uint8
	NumKeys  int
	Cards    [5]Card
	Low      bool
}

// KeyRanks returns the significant keys of a high hand as ranks.
func (h Hand) KeyRanks() []Rank {
	ranks := make([]Rank, h.NumKeys)
	for i := range ranks {
		if h.Low {
			ranks[i] = lowOrdinalRank(h.Keys[i])
		} else {
			ranks[i] = Rank(h.Keys[i])
		}
	}
	return ranks
}

// Equal reports whether two hands have the same category and keys.
func (h Hand) Equal(o Hand) bool {
	return h.Category == o.Category && h.Keys == o.Keys && h.Low == o.Low
}

// IsRoyal reports whether the hand is the ace-high straight flush.
func (h Hand) IsRoyal() bool {
	return !h.Low && h.Category == StraightFlush && Rank(h.Keys[0]) == Ace
}

// Describe renders the hand in words, e.g. "Two pair, Kings and Fives".
func (h Hand) Describe() string {
	if h.Low {
		parts := make([]string, h.NumKeys)
		for i, r := range h.KeyRanks() {
			parts[i] = r.String()
		}
		if h.Category == HighCard {
			return strings.Join(parts, "-") + " low"
		}
		return h.Category.String() + " low, " + strings.Join(parts, "-")
	}

	k := h.KeyRanks()
	switch h.Category {
	case StraightFlush:
		if h.IsRoyal() {
			return "Royal flush"
		}
		return fmt.Sprintf("Straight flush, %s high", k[0])
	case FourOfAKind:
		return fmt.Sprintf("Four of a kind, %s", k[0].Name())
	case FullHouse:
		return fmt.Sprintf("Full house, %s full of %s", k[0].Name(), k[1].Name())
	case Flush:
		return fmt.Sprintf("Flush, %s high", k[0])
	case Straight:
		return fmt.Sprintf("Straight, %s high", k[0])
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a kind, %s", k[0].Name())
	case TwoPair:
		return fmt.Sprintf("Two pair, %s and %s", k[0].Name(), k[1].Name())
	case OnePair:
		return fmt.Sprintf("One pair, %s", k[0].Name())
	default:
		return fmt.Sprintf("High card, %s", k[0])
	}
}

func (h Hand) String() string {
	return h.Describe()
}

// compareKeys orders hands by category and then keys, larger is stronger.
func compareKeys(a, b Hand) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := range a.Keys {
		if a.Keys[i] != b.Keys[i] {
			if a.Keys[i] > b.Keys[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}
