package poker

import (
	"math/bits"
)

// StandardHigh ranks hands by the usual high poker ordering. Aces play high
// and low in straights, and the wheel (A-2-3-4-5) is the lowest straight.
type StandardHigh struct{}

func (StandardHigh) Name() string { return "high" }

// Evaluate5 values five distinct cards. Every grouping is a valid high hand.
func (StandardHigh) Evaluate5(cards [5]Card) (Hand, bool) {
	return evaluateHigh(cards), true
}

func (StandardHigh) Compare(a, b Hand) int {
	return compareKeys(a, b)
}

func evaluateHigh(cards [5]Card) Hand {
	var counts [NumRanks]uint8
	var rankMask uint16
	flush := true
	for _, c := range cards {
		counts[c.Rank()]++
		rankMask |= 1 << c.Rank()
		if c.Suit() != cards[0].Suit() {
			flush = false
		}
	}

	h := Hand{Cards: cards}
	if bits.OnesCount16(rankMask) == 5 {
		high := straightHighMask(rankMask)
		switch {
		case high > 0 && flush:
			h.Category = StraightFlush
			h.setKeys(high)
		case flush:
			h.Category = Flush
			h.setKeys(findOrderedKickers(rankMask, nil, 5)...)
		case high > 0:
			h.Category = Straight
			h.setKeys(high)
		default:
			h.Category = HighCard
			h.setKeys(findOrderedKickers(rankMask, nil, 5)...)
		}
		return h
	}

	keys, shape := groupKeys(counts[:])
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
	default:
		h.Category = OnePair
	}
	return h
}

// groupKeys orders the indices of counts by multiplicity and then by value,
// both descending. shape holds the multiplicities in the same order.
func groupKeys(counts []uint8) (keys []uint8, shape [5]uint8) {
	keys = make([]uint8, 0, 5)
	for n := uint8(4); n >= 1; n-- {
		for v := len(counts) - 1; v >= 0; v-- {
			if counts[v] == n && len(keys) < 5 {
				shape[len(keys)] = n
				keys = append(keys, uint8(v))
			}
		}
	}
	return keys, shape
}

func (h *Hand) setKeys(keys ...uint8) {
	h.NumKeys = copy(h.Keys[:], keys)
}

// findOrderedKickers finds the top n ranks in descending order, excluding used ranks.
func findOrderedKickers(mask uint16, used []uint8, n int) []uint8 {
	available := mask &^ ranksMask(used)
	kickers := make([]uint8, 0, n)
	for len(kickers) < n && available != 0 {
		top := uint8(bits.Len16(available) - 1)
		kickers = append(kickers, top)
		available &^= 1 << top
	}
	return kickers
}

func ranksMask(ranks []uint8) uint16 {
	var mask uint16
	for _, r := range ranks {
		mask |= 1 << r
	}
	return mask
}

// straightHighMask returns the high-card rank of the best straight present in the mask (0 if none).
// The mask uses rank bits 0-12 for deuce through ace.
func straightHighMask(mask uint16) uint8 {
	const wheelMask = 0x100F // Ace + 2-3-4-5
	mask &= 0x1FFF           // Ignore any bits above rank twelve

	// Bitwise cascade identifies consecutive sequences in one pass.
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return uint8(bits.Len16(seq)-1) + 4
	}
	if mask&wheelMask == wheelMask {
		return uint8(Five)
	}
	return 0
}
