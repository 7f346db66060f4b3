package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k3s4/adk-poker-42/poker"
)

func scoreOf(t *testing.T, hole, board string) (float64, poker.Hand) {
	t.Helper()
	h, b := poker.MustParseCards(hole), poker.MustParseCards(board)
	hand, err := poker.BestHand(poker.StandardHigh{}, h, b)
	require.NoError(t, err)
	return StrengthScore(hand, h, b), hand
}

func TestStrengthScore(t *testing.T) {
	tests := []struct {
		name  string
		hole  string
		board string
		want  float64
		pair  PairContext
	}{
		{"royal flush", "AsKs", "QsJsTs3d", 100, PairNone},
		{"high card", "AsQd", "2h4c6d8h", 24.63, PairNone},
		{"overpair", "KsKc", "Jd7h2c", 79.02, PairOverpair},
		{"top pair strong kicker", "AcKs", "Ad7h2c", 69.9, PairTopStrongKicker},
		{"top pair weak kicker", "Ac3s", "Ad7h2c", 59.53, PairTopWeakKicker},
		{"middle pair", "7s6c", "Ad7h2c", 36.86, PairOther},
		{"two pair", "AcKd", "AhKc2d3h", 87.91, PairNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hand := scoreOf(t, tt.hole, tt.board)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.pair, ClassifyPair(hand, poker.MustParseCards(tt.hole), poker.MustParseCards(tt.board)))
		})
	}
}

func TestStrengthScoreOrderedByCategory(t *testing.T) {
	chain := []struct{ hole, board string }{
		{"AsKd", "QhJc9s"}, // best high card
		{"2c2d", "3h4s6c"}, // underpair
		{"AcAd", "KhQsJc"}, // overpair
		{"3c2d", "3h2s4c"}, // lowest two pair
		{"AcKd", "AhAsQc"}, // trips
		{"Ac2d", "3h4s5c"}, // wheel
		{"2c3c", "4c5c7c"}, // lowest flush
		{"AcAh", "AsKsKc"}, // aces full
		{"2c2h", "2s2d3c"}, // quads
		{"5s4s", "3s2sAs"}, // steel wheel
		{"AsKs", "QsJsTs"}, // royal
	}
	prev := -1.0
	for _, step := range chain {
		got, hand := scoreOf(t, step.hole, step.board)
		assert.Greater(t, got, prev, "%s %s (%s)", step.hole, step.board, hand.Describe())
		prev = got
	}
}

func TestStrengthScoreBands(t *testing.T) {
	tests := []struct {
		hole, board string
		lo, hi      float64
	}{
		{"2c3d", "5h7s9c", 0, 25},
		{"2c2d", "2h9s8c", 88, 90},
		{"9c8d", "7h6s5c", 90, 92},
		{"Ac2c", "9c7c4c", 92, 94},
		{"KcKd", "Kh9s9c", 94, 96},
	}
	for _, tt := range tests {
		t.Run(tt.hole+tt.board, func(t *testing.T) {
			got, _ := scoreOf(t, tt.hole, tt.board)
			assert.GreaterOrEqual(t, got, tt.lo)
			assert.Less(t, got, tt.hi)
		})
	}
}

func TestStrengthScoreWithoutBoard(t *testing.T) {
	hole := poker.MustParseCards("AcAd")
	hand := poker.Hand{Category: poker.OnePair, NumKeys: 1, Keys: [5]uint8{uint8(poker.Ace)}}
	assert.Equal(t, PairOther, ClassifyPair(hand, hole, nil))
	got := StrengthScore(hand, hole, nil)
	assert.GreaterOrEqual(t, got, 30.0)
	assert.Less(t, got, 45.0)
}

func TestStrengthScoreLowHand(t *testing.T) {
	h := poker.MustParseCards("As2d")
	b := poker.MustParseCards("3c4h5s")
	hand, err := poker.BestHand(poker.AceToFiveLow{}, h, b)
	require.NoError(t, err)
	assert.Zero(t, StrengthScore(hand, h, b))
	assert.Equal(t, PairNone, ClassifyPair(hand, h, b))
}
