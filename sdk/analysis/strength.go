package analysis

import (
	"math"

	"github.com/k3s4/adk-poker-42/poker"
)

// PairContext describes how a one-pair hand relates to the board.
type PairContext int

const (
	PairNone PairContext = iota
	PairOther
	PairTopWeakKicker
	PairTopStrongKicker
	PairOverpair
)

func (p PairContext) String() string {
	switch p {
	case PairOther:
		return "other pair"
	case PairTopWeakKicker:
		return "top pair, weak kicker"
	case PairTopStrongKicker:
		return "top pair, strong kicker"
	case PairOverpair:
		return "overpair"
	default:
		return "none"
	}
}

type band struct{ lo, hi float64 }

var categoryBands = [...]band{
	poker.HighCard:      {0, 25},
	poker.OnePair:       {30, 80},
	poker.TwoPair:       {80, 88},
	poker.ThreeOfAKind:  {88, 90},
	poker.Straight:      {90, 92},
	poker.Flush:         {92, 94},
	poker.FullHouse:     {94, 96},
	poker.FourOfAKind:   {96, 98},
	poker.StraightFlush: {98, 100},
}

var pairBands = map[PairContext]band{
	PairOther:           {30, 45},
	PairTopWeakKicker:   {50, 60},
	PairTopStrongKicker: {60, 70},
	PairOverpair:        {70, 80},
}

// ClassifyPair places a one-pair hand relative to the board. A pocket pair
// above every board card is an overpair; a pair of the highest board rank is
// top pair, with a queen or better kicker counting as strong. Without a
// board every pair is PairOther.
func ClassifyPair(hand poker.Hand, hole, board []poker.Card) PairContext {
	if hand.Category != poker.OnePair || hand.Low {
		return PairNone
	}
	if len(board) == 0 {
		return PairOther
	}
	pair := poker.Rank(hand.Keys[0])
	top := board[0].Rank()
	for _, c := range board[1:] {
		if c.Rank() > top {
			top = c.Rank()
		}
	}

	pocket := len(hole) == 2 && hole[0].Rank() == hole[1].Rank()
	switch {
	case pocket && pair > top:
		return PairOverpair
	case pair == top:
		if poker.Rank(hand.Keys[1]) >= poker.Queen {
			return PairTopStrongKicker
		}
		return PairTopWeakKicker
	default:
		return PairOther
	}
}

// StrengthScore maps a standard high hand to a 0 to 100 score. Categories
// own disjoint bands (a royal flush scores exactly 100) and the tie-break
// keys place the hand inside its band, so a higher score never belongs to a
// weaker hand of a different category. One pair is split further by
// ClassifyPair. The result is rounded to two decimals.
func StrengthScore(hand poker.Hand, hole, board []poker.Card) float64 {
	if hand.Low || int(hand.Category) >= len(categoryBands) {
		return 0
	}
	if hand.IsRoyal() {
		return 100
	}

	b := categoryBands[hand.Category]
	if hand.Category == poker.OnePair {
		b = pairBands[ClassifyPair(hand, hole, board)]
	}
	score := b.lo + (b.hi-b.lo)*keyFraction(hand)
	return math.Round(score*100) / 100
}

// keyFraction reads the keys as base-13 digits after the radix point, which
// is in [0, 1) and increases with the lexicographic key order.
func keyFraction(hand poker.Hand) float64 {
	var f, scale float64 = 0, 1
	for _, k := range hand.Keys[:hand.NumKeys] {
		scale /= poker.NumRanks
		f += float64(k) * scale
	}
	return f
}
