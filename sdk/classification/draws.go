// Package classification provides lightweight poker heuristics: draw
// detection, board texture, bet threat and active player counting.
//
// Every function is pure and safe for concurrent use.
package classification

import (
	"math/bits"

	"github.com/k3s4/adk-poker-42/poker"
)

// DrawType represents the types of draws a hand can have
type DrawType int

const (
	FlushDraw DrawType = iota
	OpenEndedStraightDraw
)

func (dt DrawType) String() string {
	switch dt {
	case FlushDraw:
		return "flush draw"
	case OpenEndedStraightDraw:
		return "open-ended straight draw"
	default:
		return "unknown"
	}
}

// Label returns the identifier used in structured output.
func (dt DrawType) Label() string {
	switch dt {
	case FlushDraw:
		return "FLUSH_DRAW"
	case OpenEndedStraightDraw:
		return "OESD"
	default:
		return "UNKNOWN"
	}
}

const (
	flushDrawOuts   = 9
	outsPerOpenEnd  = 4
	minDrawCards    = 4
	maxDrawCards    = 6
	straightRunSize = 4
)

// Draw is one detected draw.
type Draw struct {
	Type DrawType
	Outs int
	// Suit is the suit of a flush draw.
	Suit poker.Suit
	// Low and High bound the four ranks of a straight draw.
	Low, High poker.Rank
}

// DrawInfo contains information about draws in a hand
type DrawInfo struct {
	Draws []Draw
	// Outs is the sum of the outs of every draw. A card that completes
	// two draws is counted once per draw.
	Outs int
}

// HasDraw reports whether any draw was found.
func (d DrawInfo) HasDraw() bool {
	return len(d.Draws) > 0
}

// Has reports whether a draw of the given type was found.
func (d DrawInfo) Has(t DrawType) bool {
	for _, draw := range d.Draws {
		if draw.Type == t {
			return true
		}
	}
	return false
}

// IsComboDraw returns true if the hand has multiple draws with many outs
func (d DrawInfo) IsComboDraw() bool {
	return len(d.Draws) >= 2 && d.Outs >= 12
}

// DetectDraws looks for flush draws and open-ended straight draws in the
// combined hole and board cards. Only four to six cards are analysed; any
// other count yields no draws.
//
// A suit holding exactly four of the cards is a flush draw worth 9 outs.
// Every run of four consecutive ranks is a straight draw worth 4 outs per
// open end: a run starting at deuce cannot be completed below and a run
// ending at ace cannot be completed above. Aces never play low here.
func DetectDraws(hole, board []poker.Card) DrawInfo {
	total := len(hole) + len(board)
	if total < minDrawCards || total > maxDrawCards {
		return DrawInfo{}
	}
	cards := poker.NewCardSet(hole...)
	for _, c := range board {
		cards.Add(c)
	}

	var info DrawInfo
	for suit := poker.Clubs; suit <= poker.Spades; suit++ {
		if bits.OnesCount16(cards.SuitMask(suit)) == 4 {
			info.Draws = append(info.Draws, Draw{Type: FlushDraw, Outs: flushDrawOuts, Suit: suit})
		}
	}

	ranks := cards.RankMask()
	const run = uint16(1)<<straightRunSize - 1
	for low := poker.Two; low+straightRunSize-1 <= poker.Ace; low++ {
		if ranks>>low&run != run {
			continue
		}
		high := low + straightRunSize - 1
		outs := 0
		if low > poker.Two {
			outs += outsPerOpenEnd
		}
		if high < poker.Ace {
			outs += outsPerOpenEnd
		}
		if outs > 0 {
			info.Draws = append(info.Draws, Draw{Type: OpenEndedStraightDraw, Outs: outs, Low: low, High: high})
		}
	}

	for _, d := range info.Draws {
		info.Outs += d.Outs
	}
	return info
}
