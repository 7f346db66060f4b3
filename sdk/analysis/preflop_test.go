package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k3s4/adk-poker-42/poker"
)

func TestClassifyPreflop(t *testing.T) {
	tests := []struct {
		cards    string
		notation string
		tier     PreflopTier
	}{
		{"AsAh", "AA", TierPremium},
		{"KdAd", "AKs", TierPremium},
		{"AhKc", "AKo", TierPremium},
		{"9c9d", "99", TierStrong},
		{"QhAc", "AQo", TierStrong},
		{"KsQs", "KQs", TierGood},
		{"7h7c", "77", TierGood},
		{"As2s", "A2s", TierPlayable},
		{"Th9h", "T9s", TierPlayable},
		{"2c2d", "22", TierSpeculative},
		{"9dAc", "A9o", TierSpeculative},
		{"Kh2h", "K2s", TierMarginal},
		{"6d5d", "65s", TierMarginal},
		{"7c2d", "72o", TierTrash},
		{"Js4s", "J4s", TierTrash},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			cards := poker.MustParseCards(tt.cards)
			class := ClassifyPreflop(cards[0], cards[1])
			assert.Equal(t, tt.notation, class.Notation)
			assert.Equal(t, tt.tier, class.Tier, "tier %s", class.Tier)
		})
	}
}

func TestTierRanges(t *testing.T) {
	total := 0
	for tier := TierTrash; tier <= TierPremium; tier++ {
		r := TierRange(tier)
		require.NotZero(t, r.Size(), tier.String())
		total += r.Size()
	}
	assert.Equal(t, 1326, total, "tiers partition every starting hand")
	assert.Equal(t, 6+6+6+4+12, TierRange(TierPremium).Size())
}

func TestAnalyzePosition(t *testing.T) {
	tests := []struct {
		tier     PreflopTier
		position string
		mult     float64
		score    float64
		rec      Recommendation
	}{
		{TierPremium, "BTN", 1.0, 6, RecommendRaise},
		{TierPremium, "utg", 0.7, 4.2, RecommendCallOrRaise},
		{TierStrong, "BB", 1.1, 5.5, RecommendRaise},
		{TierGood, "SB", 0.85, 3.4, RecommendCallOrRaise},
		{TierSpeculative, "CO", 0.9, 1.8, RecommendSituational},
		{TierMarginal, "MP", 0.8, 0.8, RecommendFold},
		{TierGood, "somewhere", 0.9, 3.6, RecommendCallOrRaise},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String()+"/"+tt.position, func(t *testing.T) {
			got := AnalyzePosition(PreflopClass{Tier: tt.tier}, tt.position)
			assert.Equal(t, tt.mult, got.Multiplier)
			assert.InDelta(t, tt.score, got.AdjustedScore, 1e-9)
			assert.Equal(t, tt.rec, got.Recommendation)
		})
	}
}

func TestPreflopEquity(t *testing.T) {
	ctx := context.Background()

	aces, err := PreflopEquity(ctx, "AA", 1, 3000, WithSeed(21))
	require.NoError(t, err)
	assert.InDelta(t, 0.85, aces, 0.03)

	crabs, err := PreflopEquity(ctx, "72o", 3, 1000, WithSeed(21))
	require.NoError(t, err)
	assert.Less(t, crabs, 0.25)

	_, err = PreflopEquity(ctx, "AA", 0, 100)
	assert.Error(t, err)

	_, err = PreflopEquity(ctx, "AX", 1, 100)
	assert.True(t, IsSyntaxError(err))
}
