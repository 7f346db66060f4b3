package classification

import (
	"math"
	"strings"
)

// ThreatLevel grades the size of a bet relative to the pot.
type ThreatLevel int

const (
	ThreatNone ThreatLevel = iota
	ThreatLow
	ThreatMedium
	ThreatHigh
	ThreatExtreme
)

var threatLabels = [...]string{"NONE", "LOW", "MEDIUM", "HIGH", "EXTREME"}

func (t ThreatLevel) String() string {
	if t < 0 || int(t) >= len(threatLabels) {
		return "UNKNOWN"
	}
	return threatLabels[t]
}

// BetSituation is the outcome of AnalyzeBet.
type BetSituation struct {
	Pot           int
	ToCall        int
	PotPercentage float64
	Threat        ThreatLevel
}

// AnalyzeBet expresses the amount to call as a percentage of the pot,
// rounded to two decimals, and grades it: 100% and above is EXTREME, 75%
// HIGH, 30% MEDIUM and anything smaller LOW. Nothing to call is NONE. An
// empty pot is treated as holding the bet itself, and the adjusted pot is
// what gets reported.
func AnalyzeBet(pot, toCall int) BetSituation {
	if toCall == 0 {
		return BetSituation{Pot: pot, Threat: ThreatNone}
	}
	if pot == 0 {
		pot = toCall
	}

	pct := math.Round(float64(toCall)/float64(pot)*100*100) / 100
	var threat ThreatLevel
	switch {
	case pct >= 100:
		threat = ThreatExtreme // Overbet or all-in
	case pct >= 75:
		threat = ThreatHigh
	case pct >= 30:
		threat = ThreatMedium
	default:
		threat = ThreatLow
	}
	return BetSituation{Pot: pot, ToCall: toCall, PotPercentage: pct, Threat: threat}
}

// Folded is the status of a player who is out of the hand.
const Folded = "folded"

// CountActive counts the statuses that are not "folded", ignoring case.
// All-in players still count.
func CountActive(statuses []string) int {
	active := 0
	for _, s := range statuses {
		if !strings.EqualFold(strings.TrimSpace(s), Folded) {
			active++
		}
	}
	return active
}
