package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/k3s4/adk-poker-42/poker"
)

// PreflopTier ranks starting hands from Trash (0) to Premium (6).
type PreflopTier int

const (
	TierTrash PreflopTier = iota
	TierMarginal
	TierSpeculative
	TierPlayable
	TierGood
	TierStrong
	TierPremium
)

var tierNames = [...]string{"trash", "marginal", "speculative", "playable", "good", "strong", "premium"}

func (t PreflopTier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "unknown"
	}
	return tierNames[t]
}

// Score is the numeric value of the tier, 0 through 6.
func (t PreflopTier) Score() int {
	return int(t)
}

// tierCharts lists the hands of every tier above Trash, strongest first.
var tierCharts = []struct {
	tier     PreflopTier
	notation string
}{
	{TierPremium, "AA,KK,QQ,AKs,AKo"},
	{TierStrong, "JJ,TT,99,AQs,AJs,ATs,AQo"},
	{TierGood, "88,77,KQs,KJs,QJs,JTs,AJo,KQo"},
	{TierPlayable, "66,55,A9s,A8s,A7s,A6s,A5s,A4s,A3s,A2s,KTs,K9s,QTs,T9s,KJo,ATo"},
	{TierSpeculative, "44,33,22,Q9s,J9s,T8s,98s,QJo,KTo,JTo,A9o"},
	{TierMarginal, "K8s,K7s,K6s,K5s,K4s,K3s,K2s,Q8s,Q7s,Q6s,J8s,J7s,97s,87s,76s,65s,QTo,K9o,Q9o,J9o,T9o,A8o,A7o"},
}

var tierRanges = func() []*Range {
	out := make([]*Range, len(tierCharts))
	for i, chart := range tierCharts {
		out[i] = MustParseRange(chart.notation)
	}
	return out
}()

// TierRange returns the hands of a tier as a range. Trash has no chart and
// yields every combination outside the other tiers.
func TierRange(tier PreflopTier) *Range {
	for i, chart := range tierCharts {
		if chart.tier == tier {
			return tierRanges[i]
		}
	}
	rest := AnyTwo()
	for _, r := range tierRanges {
		for _, c := range r.Combos() {
			delete(rest.combos, c)
		}
	}
	return rest
}

// PreflopClass is the classification of two hole cards.
type PreflopClass struct {
	Notation string
	Tier     PreflopTier
}

// ClassifyPreflop places two hole cards in their tier.
func ClassifyPreflop(card1, card2 poker.Card) PreflopClass {
	class := PreflopClass{Notation: poker.HoleNotation(card1, card2), Tier: TierTrash}
	for i, chart := range tierCharts {
		if tierRanges[i].ContainsCards(card1, card2) {
			class.Tier = chart.tier
			break
		}
	}
	return class
}

var positionMultipliers = map[string]float64{
	"UTG": 0.7,
	"MP":  0.8,
	"CO":  0.9,
	"BTN": 1.0,
	"SB":  0.85,
	"BB":  1.1,
}

const defaultPositionMultiplier = 0.9

// Recommendation is a coarse preflop action suggestion.
type Recommendation string

const (
	RecommendRaise       Recommendation = "raise"
	RecommendCallOrRaise Recommendation = "call or raise"
	RecommendSituational Recommendation = "fold or call depending on position"
	RecommendFold        Recommendation = "fold"
)

// PositionAnalysis is a tier score adjusted for table position.
type PositionAnalysis struct {
	Class          PreflopClass
	Position       string
	Multiplier     float64
	AdjustedScore  float64
	Recommendation Recommendation
}

// AnalyzePosition scales a tier score by the position multiplier (UTG 0.7
// through BB 1.1; unknown positions use 0.9) and suggests an action.
func AnalyzePosition(class PreflopClass, position string) PositionAnalysis {
	pos := strings.ToUpper(strings.TrimSpace(position))
	mult, ok := positionMultipliers[pos]
	if !ok {
		mult = defaultPositionMultiplier
	}
	score := math.Round(float64(class.Tier.Score())*mult*10) / 10

	var rec Recommendation
	switch {
	case score >= 5:
		rec = RecommendRaise
	case score >= 3:
		rec = RecommendCallOrRaise
	case score >= 1.5:
		rec = RecommendSituational
	default:
		rec = RecommendFold
	}

	return PositionAnalysis{
		Class:          class,
		Position:       pos,
		Multiplier:     mult,
		AdjustedScore:  score,
		Recommendation: rec,
	}
}

// PreflopEquity estimates the all-in equity of a starting-hand class such as
// "AKs" or "T9o" against a number of random hands.
func PreflopEquity(ctx context.Context, notation string, opponents, samples int, opts ...Option) (float64, error) {
	if opponents < 1 {
		return 0, fmt.Errorf("analysis: need at least one opponent, got %d", opponents)
	}
	hero, err := ParseRange(notation)
	if err != nil {
		return 0, err
	}
	rs := []*Range{hero}
	for i := 0; i < opponents; i++ {
		rs = append(rs, Unknown())
	}
	res, err := CalculateEquities(ctx, Request{Ranges: rs, Samples: samples}, opts...)
	if err != nil {
		return 0, err
	}
	return res.Equities[0], nil
}
