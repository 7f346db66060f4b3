package tools

import (
	"bytes"
	"context"
	"embed"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed schemas/snapshot.json
var schemaFiles embed.FS

const snapshotSchemaURL = "https://github.com/k3s4/adk-poker-42/schemas/snapshot.json"

var snapshotSchema = func() *jsonschema.Schema {
	data, err := schemaFiles.ReadFile("schemas/snapshot.json")
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(snapshotSchemaURL, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("failed to add snapshot schema: %v", err))
	}
	return compiler.MustCompile(snapshotSchemaURL)
}()

// Snapshot is the game state a decision is made from.
type Snapshot struct {
	YourCards        []string         `json:"your_cards"`
	CommunityCards   []string         `json:"community_cards"`
	Phase            string           `json:"phase,omitempty"`
	Pot              int              `json:"pot"`
	ToCall           int              `json:"to_call"`
	YourChips        int              `json:"your_chips"`
	Position         string           `json:"position,omitempty"`
	AvailableActions []string         `json:"available_actions,omitempty"`
	Players          []SnapshotPlayer `json:"players,omitempty"`
}

// SnapshotPlayer is another player at the table.
type SnapshotPlayer struct {
	ID     int64  `json:"id"`
	Chips  int    `json:"chips"`
	Status string `json:"status,omitempty"`
	// State is an older name for Status.
	State string `json:"state,omitempty"`
}

func (p SnapshotPlayer) status() string {
	if p.Status != "" {
		return p.Status
	}
	return p.State
}

// DecodeSnapshot validates JSON against the snapshot schema and decodes it.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &InputError{Field: "snapshot", Reason: "invalid JSON", Err: err}
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return nil, &InputError{Field: "snapshot", Reason: "schema validation failed", Err: err}
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &InputError{Field: "snapshot", Reason: "decode", Err: err}
	}
	return &s, nil
}

// SnapshotReport gathers every tool that applies to a snapshot. Preflop is
// set before the flop, Hand once the board has three cards and Draws while
// cards are still to come. Equity is omitted when nobody else is left.
type SnapshotReport struct {
	Phase   string         `json:"phase"`
	Preflop *PreflopReport `json:"preflop,omitempty"`
	Hand    *HandReport    `json:"hand,omitempty"`
	Draws   *DrawReport    `json:"draws,omitempty"`
	Equity  *EquityReport  `json:"equity,omitempty"`
	Bet     BetSituation   `json:"bet"`
	Players PlayerCount    `json:"players"`
}

var phaseByBoard = map[int]string{0: "preflop", 3: "flop", 4: "turn", 5: "river"}

// Analyze runs the applicable tools on a snapshot. Opponents are the
// listed players that have not folded.
func (t *Toolkit) Analyze(ctx context.Context, s *Snapshot) (SnapshotReport, error) {
	phase, ok := phaseByBoard[len(s.CommunityCards)]
	if !ok {
		return SnapshotReport{}, &InputError{Field: "community_cards", Reason: fmt.Sprintf("%d cards is not a betting round", len(s.CommunityCards))}
	}
	if s.Phase != "" && s.Phase != phase {
		return SnapshotReport{}, &InputError{Field: "phase", Reason: fmt.Sprintf("%s does not match a %d card board", s.Phase, len(s.CommunityCards))}
	}

	statuses := make([]string, len(s.Players))
	for i, p := range s.Players {
		statuses[i] = p.status()
	}
	bet, err := t.AnalyzeBet(s.Pot, s.ToCall)
	if err != nil {
		return SnapshotReport{}, err
	}
	r := SnapshotReport{Phase: phase, Bet: bet, Players: t.CountPlayers(statuses)}

	if phase == "preflop" {
		pre, err := t.ClassifyPreflop(s.YourCards, s.Position)
		if err != nil {
			return SnapshotReport{}, err
		}
		r.Preflop = &pre
	} else {
		hand, err := t.EvaluateHand(s.YourCards, s.CommunityCards)
		if err != nil {
			return SnapshotReport{}, err
		}
		r.Hand = &hand
	}
	if phase == "flop" || phase == "turn" {
		draws, err := t.AnalyzeDraws(s.YourCards, s.CommunityCards)
		if err != nil {
			return SnapshotReport{}, err
		}
		r.Draws = &draws
	}
	if r.Players.Active > 0 {
		eq, err := t.CalculateEquity(ctx, s.YourCards, s.CommunityCards, r.Players.Active)
		if err != nil {
			return SnapshotReport{}, err
		}
		r.Equity = &eq
	}

	t.logger.Debug().Str("phase", phase).Int("opponents", r.Players.Active).Msg("Snapshot analysed")
	return r, nil
}
