package poker

// AceToFiveLow ranks hands for lowball: aces are low, straights and flushes
// are ignored, and the best hand is 5-4-3-2-A. Paired hands are valid but
// lose to any unpaired hand.
type AceToFiveLow struct{}

func (AceToFiveLow) Name() string { return "low" }

func (AceToFiveLow) Evaluate5(cards [5]Card) (Hand, bool) {
	return evaluateLow(cards), true
}

func (AceToFiveLow) Compare(a, b Hand) int {
	return -compareKeys(a, b)
}

// EightOrBetterLow is ace-to-five low restricted to five distinct ranks no
// higher than eight. Hands that do not qualify are not valid.
type EightOrBetterLow struct{}

func (EightOrBetterLow) Name() string { return "low8" }

func (EightOrBetterLow) Evaluate5(cards [5]Card) (Hand, bool) {
	h := evaluateLow(cards)
	if h.Category != HighCard || h.Keys[0] > lowOrdinal(Eight) {
		return Hand{}, false
	}
	return h, true
}

func (EightOrBetterLow) Compare(a, b Hand) int {
	return -compareKeys(a, b)
}

// lowOrdinal maps a rank to its ace-low value: ace 0, deuce 1, king 12.
func lowOrdinal(r Rank) uint8 {
	return uint8((r + 1) % NumRanks)
}

func lowOrdinalRank(o uint8) Rank {
	return Rank((o + NumRanks - 1) % NumRanks)
}

func evaluateLow(cards [5]Card) Hand {
	var counts [NumRanks]uint8
	for _, c := range cards {
		counts[lowOrdinal(c.Rank())]++
	}
	keys, shape := groupKeys(counts[:])
	h := Hand{Cards: cards, Low: true}
	h.setKeys(keys...)
	switch {
	case shape[0] == 4:
		h.Category = FourOfAKind
	case shape[0] == 3 && shape[1] == 2:
		h.Category = FullHouse
	case shape[0] == 3:
		h.Category = ThreeOfAKind
	case shape[0] == 2 && shape[1] == 2:
		h.Category = TwoPair
	case shape[0] == 2:
		h.Category = OnePair
	default:
		h.Category = HighCard
	}
	return h
}
