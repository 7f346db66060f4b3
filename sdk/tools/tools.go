// Package tools wraps the evaluator, the equity simulator and the
// classification heuristics for decision-making callers. Inputs are raw
// card strings taken from game snapshots and are validated before use;
// outputs are plain structs ready to be serialised.
package tools

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/rs/zerolog"

	"github.com/k3s4/adk-poker-42/poker"
	"github.com/k3s4/adk-poker-42/sdk/analysis"
	"github.com/k3s4/adk-poker-42/sdk/classification"
)

// InputError reports an invalid snapshot field.
type InputError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	msg := fmt.Sprintf("tools: invalid %s: %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InputError) Unwrap() error { return e.Err }

// HandReport describes the best hand made from hole and board cards.
type HandReport struct {
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	Rank        int      `json:"rank"`
	BestFive    []string `json:"best_five"`
	Strength    float64  `json:"strength"`
	Keys        []string `json:"keys"`
	PairContext string   `json:"pair_context,omitempty"`
}

// EquityReport is the hero's share of the pot against the opponents.
type EquityReport struct {
	Equity    float64 `json:"equity"`
	Opponents int     `json:"opponents"`
	Samples   int     `json:"samples"`
}

// DrawEntry is one detected draw.
type DrawEntry struct {
	Type string `json:"type"`
	Outs int    `json:"outs"`
}

// DrawReport lists the draws of a hand and the texture of the board.
type DrawReport struct {
	Draws        []DrawEntry `json:"draws"`
	TotalOuts    int         `json:"total_outs"`
	BoardTexture string      `json:"board_texture"`
}

// BetSituation grades the amount to call against the pot.
type BetSituation struct {
	Pot           int     `json:"pot_size"`
	ToCall        int     `json:"to_call"`
	PotPercentage float64 `json:"bet_as_pot_percentage"`
	Threat        string  `json:"threat_level"`
}

// PlayerCount is the number of players still in the hand.
type PlayerCount struct {
	Active int `json:"active_player_count"`
	Total  int `json:"total_player_count"`
}

// PreflopReport classifies a starting hand and adjusts it for position.
type PreflopReport struct {
	Notation       string  `json:"notation"`
	Tier           string  `json:"tier"`
	TierScore      int     `json:"tier_score"`
	Position       string  `json:"position,omitempty"`
	Multiplier     float64 `json:"position_multiplier"`
	AdjustedScore  float64 `json:"adjusted_score"`
	Recommendation string  `json:"recommendation"`
}

// Toolkit holds the shared settings of the tools.
type Toolkit struct {
	samples    int
	opponents  *analysis.Range
	cache      *analysis.RangeCache
	equityOpts []analysis.Option
	history    HistorySource
	logger     zerolog.Logger
}

// Option configures a Toolkit.
type Option func(*toolkitConfig)

type toolkitConfig struct {
	samples       int
	opponentRange string
	cacheSize     int
	equityOpts    []analysis.Option
	history       HistorySource
	logger        zerolog.Logger
}

// WithSamples sets the number of simulated deals per equity estimate.
func WithSamples(n int) Option {
	return func(c *toolkitConfig) { c.samples = n }
}

// WithOpponentRange sets the range every opponent is assumed to hold.
// "any" or an empty notation means a random hand.
func WithOpponentRange(notation string) Option {
	return func(c *toolkitConfig) { c.opponentRange = notation }
}

// WithRangeCacheSize bounds the cache of parsed ranges.
func WithRangeCacheSize(n int) Option {
	return func(c *toolkitConfig) { c.cacheSize = n }
}

// WithEquityOptions passes options through to analysis.CalculateEquities.
func WithEquityOptions(opts ...analysis.Option) Option {
	return func(c *toolkitConfig) { c.equityOpts = append(c.equityOpts, opts...) }
}

// WithHistory gives the toolkit access to past hands.
func WithHistory(h HistorySource) Option {
	return func(c *toolkitConfig) { c.history = h }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *toolkitConfig) { c.logger = logger }
}

// New creates a Toolkit.
func New(opts ...Option) (*Toolkit, error) {
	cfg := toolkitConfig{
		samples:   analysis.DefaultSamples,
		cacheSize: 256,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.samples <= 0 {
		return nil, fmt.Errorf("tools: samples must be positive, got %d", cfg.samples)
	}

	cache, err := analysis.NewRangeCache(cfg.cacheSize)
	if err != nil {
		return nil, err
	}
	t := &Toolkit{
		samples:    cfg.samples,
		cache:      cache,
		equityOpts: cfg.equityOpts,
		history:    cfg.history,
		logger:     cfg.logger.With().Str("component", "tools").Logger(),
	}
	switch strings.ToLower(strings.TrimSpace(cfg.opponentRange)) {
	case "", "any", "random":
		t.opponents = analysis.Unknown()
	default:
		if t.opponents, err = cache.Parse(cfg.opponentRange); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// CardGroup is a named list of untrusted card strings.
type CardGroup struct {
	Field  string
	Tokens []string
}

// ParseCards validates untrusted card strings: every token must be a legal
// card and no card may appear twice across all groups. Suit symbols and
// "10" are accepted. The result holds one slice per group, in order.
func ParseCards(groups ...CardGroup) ([][]poker.Card, error) {
	seen := mapset.NewSet()
	out := make([][]poker.Card, len(groups))
	for i, g := range groups {
		cards := make([]poker.Card, 0, len(g.Tokens))
		for _, tok := range g.Tokens {
			c, err := poker.ParseCard(strings.TrimSpace(tok))
			if err != nil {
				return nil, &InputError{Field: g.Field, Reason: fmt.Sprintf("bad card %q", tok), Err: err}
			}
			if !seen.Add(c) {
				return nil, &InputError{Field: g.Field, Reason: "repeated card", Err: &poker.DuplicateCardError{Card: c}}
			}
			cards = append(cards, c)
		}
		out[i] = cards
	}
	return out, nil
}

func (t *Toolkit) holeAndBoard(hole, board []string, boardMin, boardMax int) ([]poker.Card, []poker.Card, error) {
	if len(hole) != 2 {
		return nil, nil, &InputError{Field: "hole_cards", Reason: fmt.Sprintf("need 2 cards, got %d", len(hole))}
	}
	if len(board) < boardMin || len(board) > boardMax {
		return nil, nil, &InputError{Field: "board_cards", Reason: fmt.Sprintf("need %d to %d cards, got %d", boardMin, boardMax, len(board))}
	}
	cards, err := ParseCards(CardGroup{"hole_cards", hole}, CardGroup{"board_cards", board})
	if err != nil {
		return nil, nil, err
	}
	return cards[0], cards[1], nil
}

// EvaluateHand reports the best hand of two hole cards and three to five
// board cards.
func (t *Toolkit) EvaluateHand(hole, board []string) (HandReport, error) {
	h, b, err := t.holeAndBoard(hole, board, 3, 5)
	if err != nil {
		return HandReport{}, err
	}
	return evaluate(h, b)
}

func evaluate(hole, board []poker.Card) (HandReport, error) {
	hand, err := poker.BestHand(poker.StandardHigh{}, hole, board)
	if err != nil {
		return HandReport{}, err
	}
	r := HandReport{
		Category: hand.Category.Label(),
		Name:     hand.Describe(),
		Rank:     int(hand.Category),
		BestFive: make([]string, 0, 5),
		Strength: analysis.StrengthScore(hand, hole, board),
	}
	for _, c := range hand.Cards {
		r.BestFive = append(r.BestFive, c.String())
	}
	for _, k := range hand.KeyRanks() {
		r.Keys = append(r.Keys, k.String())
	}
	if pc := analysis.ClassifyPair(hand, hole, board); pc != analysis.PairNone {
		r.PairContext = pc.String()
	}
	return r, nil
}

// CalculateEquity estimates the hero's equity against a number of
// opponents holding the configured opponent range.
func (t *Toolkit) CalculateEquity(ctx context.Context, hole, board []string, opponents int) (EquityReport, error) {
	if opponents < 1 {
		return EquityReport{}, &InputError{Field: "opponents", Reason: fmt.Sprintf("need at least one, got %d", opponents)}
	}
	h, b, err := t.holeAndBoard(hole, board, 0, 5)
	if err != nil {
		return EquityReport{}, err
	}

	ranges := make([]*analysis.Range, 0, opponents+1)
	hero := analysis.NewRange()
	hero.Add(poker.NewCardSet(h...))
	ranges = append(ranges, hero)
	for i := 0; i < opponents; i++ {
		ranges = append(ranges, t.opponents)
	}

	res, err := analysis.CalculateEquities(ctx, analysis.Request{
		Ranges:  ranges,
		Board:   b,
		Samples: t.samples,
	}, t.equityOpts...)
	if err != nil {
		t.logger.Warn().Err(err).Strs("hole", hole).Strs("board", board).Msg("Equity calculation failed")
		return EquityReport{}, err
	}
	return EquityReport{Equity: res.Equities[0], Opponents: opponents, Samples: res.Samples}, nil
}

// RangeEquity estimates the equity of each range notation against the
// others. Parsed ranges are cached.
func (t *Toolkit) RangeEquity(ctx context.Context, notations []string, board []string) ([]float64, error) {
	ranges := make([]*analysis.Range, len(notations))
	for i, n := range notations {
		r, err := t.cache.Parse(n)
		if err != nil {
			return nil, &InputError{Field: fmt.Sprintf("ranges[%d]", i), Reason: "bad range", Err: err}
		}
		ranges[i] = r
	}
	cards, err := ParseCards(CardGroup{"board_cards", board})
	if err != nil {
		return nil, err
	}
	res, err := analysis.CalculateEquities(ctx, analysis.Request{
		Ranges:  ranges,
		Board:   cards[0],
		Samples: t.samples,
	}, t.equityOpts...)
	if err != nil {
		return nil, err
	}
	return res.Equities, nil
}

// AnalyzeDraws reports flush and straight draws and the board texture.
func (t *Toolkit) AnalyzeDraws(hole, board []string) (DrawReport, error) {
	h, b, err := t.holeAndBoard(hole, board, 0, 5)
	if err != nil {
		return DrawReport{}, err
	}
	info := classification.DetectDraws(h, b)
	r := DrawReport{
		Draws:        make([]DrawEntry, 0, len(info.Draws)),
		TotalOuts:    info.Outs,
		BoardTexture: classification.AnalyzeBoard(b).Texture.String(),
	}
	for _, d := range info.Draws {
		r.Draws = append(r.Draws, DrawEntry{Type: d.Type.Label(), Outs: d.Outs})
	}
	return r, nil
}

// AnalyzeBet grades the amount to call against the pot.
func (t *Toolkit) AnalyzeBet(pot, toCall int) (BetSituation, error) {
	if pot < 0 || toCall < 0 {
		return BetSituation{}, &InputError{Field: "pot", Reason: "amounts must not be negative"}
	}
	s := classification.AnalyzeBet(pot, toCall)
	return BetSituation{Pot: s.Pot, ToCall: s.ToCall, PotPercentage: s.PotPercentage, Threat: s.Threat.String()}, nil
}

// CountPlayers counts the players whose status is not folded.
func (t *Toolkit) CountPlayers(statuses []string) PlayerCount {
	return PlayerCount{Active: classification.CountActive(statuses), Total: len(statuses)}
}

// ClassifyPreflop places two hole cards in a preflop tier and adjusts the
// tier for position. An empty position uses the default multiplier.
func (t *Toolkit) ClassifyPreflop(hole []string, position string) (PreflopReport, error) {
	h, _, err := t.holeAndBoard(hole, nil, 0, 0)
	if err != nil {
		return PreflopReport{}, err
	}
	class := analysis.ClassifyPreflop(h[0], h[1])
	pa := analysis.AnalyzePosition(class, position)
	return PreflopReport{
		Notation:       class.Notation,
		Tier:           class.Tier.String(),
		TierScore:      class.Tier.Score(),
		Position:       pa.Position,
		Multiplier:     pa.Multiplier,
		AdjustedScore:  pa.AdjustedScore,
		Recommendation: string(pa.Recommendation),
	}, nil
}
