package classification

import (
	"math/bits"

	"github.com/k3s4/adk-poker-42/poker"
)

// BoardTexture represents the "wetness" of a poker board from dry to very wet
type BoardTexture int

const (
	Dry BoardTexture = iota
	SemiWet
	Wet
	VeryWet
)

func (bt BoardTexture) String() string {
	switch bt {
	case Dry:
		return "dry"
	case SemiWet:
		return "semi-wet"
	case Wet:
		return "wet"
	case VeryWet:
		return "very wet"
	default:
		return "unknown"
	}
}

// BoardInfo summarises how coordinated a board is.
type BoardInfo struct {
	Texture BoardTexture
	// MaxSuitCount is the size of the largest suit on the board.
	MaxSuitCount int
	Monotone     bool // Single suit (3+ cards)
	Rainbow      bool // All different suits
	// Connected is the longest run of consecutive ranks.
	Connected int
	Paired    bool
	// Broadway counts board cards ten or higher.
	Broadway int
}

const broadwayMask = uint16(1)<<poker.Ten | 1<<poker.Jack | 1<<poker.Queen | 1<<poker.King | 1<<poker.Ace

// AnalyzeBoard measures flush and straight potential, pairing and high card
// concentration, and grades the board from Dry to VeryWet. Boards with
// fewer than three cards are always Dry.
func AnalyzeBoard(board []poker.Card) BoardInfo {
	set := poker.NewCardSet(board...)
	n := set.Count()

	info := BoardInfo{
		Connected: longestRun(set.RankMask()),
		Paired:    bits.OnesCount16(set.RankMask()) < n,
	}
	suits := 0
	for suit := poker.Clubs; suit <= poker.Spades; suit++ {
		count := bits.OnesCount16(set.SuitMask(suit))
		if count > 0 {
			suits++
		}
		info.MaxSuitCount = max(info.MaxSuitCount, count)
	}
	info.Monotone = n >= 3 && suits == 1
	info.Rainbow = n >= 3 && suits == n
	for _, c := range set.Cards() {
		if broadwayMask&(1<<c.Rank()) != 0 {
			info.Broadway++
		}
	}

	if n < 3 {
		return info
	}

	var wetness int
	switch {
	case info.MaxSuitCount >= 4 || info.Monotone:
		wetness += 4
	case info.MaxSuitCount == 3:
		wetness += 3
	case info.MaxSuitCount == 2:
		wetness++
	}
	switch {
	case info.Connected >= 4:
		wetness += 4
	case info.Connected == 3:
		wetness += 3
	case info.Connected == 2:
		wetness++
	}
	if info.Paired {
		wetness++ // Paired board
	}
	if info.Broadway >= 3 {
		wetness++
	}

	switch {
	case wetness <= 0:
		info.Texture = Dry
	case wetness <= 3:
		info.Texture = SemiWet
	case wetness <= 5:
		info.Texture = Wet
	default:
		info.Texture = VeryWet
	}
	return info
}

// longestRun returns the longest sequence of set bits. The ace also plays
// below the deuce when at least two wheel ranks are present.
func longestRun(ranks uint16) int {
	wheel := uint32(ranks) << 1
	if ranks&(1<<poker.Ace) != 0 && bits.OnesCount16(ranks&0xF) >= 2 {
		wheel |= 1
	}
	best := 0
	for run := 0; wheel != 0; run++ {
		best = run + 1
		wheel &= wheel >> 1
	}
	return best
}
