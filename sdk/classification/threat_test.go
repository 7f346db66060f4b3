package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeBet(t *testing.T) {
	tests := []struct {
		name   string
		pot    int
		toCall int
		want   BetSituation
	}{
		{"nothing to call", 100, 0, BetSituation{Pot: 100, Threat: ThreatNone}},
		{"small bet", 100, 29, BetSituation{Pot: 100, ToCall: 29, PotPercentage: 29, Threat: ThreatLow}},
		{"thirty percent is medium", 100, 30, BetSituation{Pot: 100, ToCall: 30, PotPercentage: 30, Threat: ThreatMedium}},
		{"just below high", 400, 299, BetSituation{Pot: 400, ToCall: 299, PotPercentage: 74.75, Threat: ThreatMedium}},
		{"three quarters", 400, 300, BetSituation{Pot: 400, ToCall: 300, PotPercentage: 75, Threat: ThreatHigh}},
		{"pot sized", 150, 150, BetSituation{Pot: 150, ToCall: 150, PotPercentage: 100, Threat: ThreatExtreme}},
		{"overbet", 100, 250, BetSituation{Pot: 100, ToCall: 250, PotPercentage: 250, Threat: ThreatExtreme}},
		{"empty pot", 0, 40, BetSituation{Pot: 40, ToCall: 40, PotPercentage: 100, Threat: ThreatExtreme}},
		{"rounded", 300, 100, BetSituation{Pot: 300, ToCall: 100, PotPercentage: 33.33, Threat: ThreatMedium}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeBet(tt.pot, tt.toCall))
		})
	}
}

func TestThreatLevelString(t *testing.T) {
	assert.Equal(t, "NONE", ThreatNone.String())
	assert.Equal(t, "EXTREME", ThreatExtreme.String())
	assert.Equal(t, "UNKNOWN", ThreatLevel(9).String())
}

func TestCountActive(t *testing.T) {
	tests := []struct {
		statuses []string
		want     int
	}{
		{nil, 0},
		{[]string{"active", "folded", "all_in"}, 2},
		{[]string{"FOLDED", "Folded ", "active"}, 1},
		{[]string{"folded", "folded"}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountActive(tt.statuses), "%v", tt.statuses)
	}
}
