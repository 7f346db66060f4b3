package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/k3s4/adk-poker-42/internal/history"
	"github.com/k3s4/adk-poker-42/sdk/analysis"
	"github.com/k3s4/adk-poker-42/sdk/tools"
)

func testGlobals(t *testing.T, asJSON bool) (*Globals, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &Globals{
		Config: filepath.Join(t.TempDir(), "poker-odds.hcl"),
		JSON:   asJSON,
		Stdout: &out,
		Stderr: io.Discard,
	}, &out
}

func TestCardTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
		hasError bool
	}{
		{"AcKh", []string{"Ac", "Kh"}, false},
		{"A♠ 10♥", []string{"As", "Th"}, false},
		{"", nil, false},
		{"AcXy", nil, true},
		{"AcK", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := cardTokens(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEquityCmd(t *testing.T) {
	g, out := testGlobals(t, true)
	cmd := &EquityCmd{Ranges: []string{"AA", "KK"}, Samples: 2000, Seed: 5, Workers: -1}
	require.NoError(t, cmd.Run(g, context.Background()))

	var report equityReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Entrants, 2)
	assert.Equal(t, int64(5), report.Seed)
	assert.Equal(t, 2000, report.Samples)
	assert.Equal(t, 6, report.Entrants[0].Combos)
	assert.InDelta(t, 0.82, report.Entrants[0].Equity, 0.03)
	assert.InDelta(t, 1.0, report.Entrants[0].Equity+report.Entrants[1].Equity, 1e-9)

	hero := report.Entrants[0]
	assert.Greater(t, hero.StdError, 0.0)
	assert.InDelta(t, hero.Equity-1.96*hero.StdError, hero.CI95[0], 1e-12)
	assert.InDelta(t, hero.Equity+1.96*hero.StdError, hero.CI95[1], 1e-12)
}

func TestEquityCmdDeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) equityReport {
		g, out := testGlobals(t, true)
		cmd := &EquityCmd{Ranges: []string{"AKs", "QQ+", "random"}, Board: "Td7s2h", Samples: 600, Seed: 9, Workers: workers}
		require.NoError(t, cmd.Run(g, context.Background()))
		var report equityReport
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		return report
	}
	seq, pooled := run(0), run(4)
	require.Len(t, seq.Entrants, 3)
	for i := range seq.Entrants {
		assert.Equal(t, seq.Entrants[i].Equity, pooled.Entrants[i].Equity)
	}
	assert.Zero(t, seq.Entrants[2].Combos, "random hands have no combo count")
	assert.Equal(t, []string{"Td", "7s", "2h"}, seq.Board)
}

func TestEquityCmdTable(t *testing.T) {
	g, out := testGlobals(t, false)
	cmd := &EquityCmd{Ranges: []string{"AhKh", "random"}, Board: "Qh7h2c", Samples: 300, Seed: 1, Workers: -1}
	require.NoError(t, cmd.Run(g, context.Background()))

	text := out.String()
	assert.Contains(t, text, "board")
	assert.Contains(t, text, "AhKh")
	assert.Contains(t, text, "any")
	assert.Contains(t, text, "%")
	assert.Contains(t, text, "300 samples")
	assert.Contains(t, text, "seed 1")
}

func TestEquityCmdFiles(t *testing.T) {
	dir := t.TempDir()
	g, _ := testGlobals(t, false)
	cmd := &EquityCmd{
		Ranges:      []string{"QQ", "AKo"},
		Samples:     400,
		Seed:        2,
		Workers:     -1,
		HiLo:        true,
		MetricsFile: filepath.Join(dir, "equity.prom"),
		Output:      filepath.Join(dir, "equity.json"),
	}
	require.NoError(t, cmd.Run(g, context.Background()))

	prom, err := os.ReadFile(cmd.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "poker_odds_equity_samples_total 400")

	data, err := os.ReadFile(cmd.Output)
	require.NoError(t, err)
	var report equityReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Len(t, report.Entrants, 2)
}

func TestEquityCmdErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  EquityCmd
	}{
		{"bad range", EquityCmd{Ranges: []string{"AA", "ZZ"}}},
		{"bad board", EquityCmd{Ranges: []string{"AA", "KK"}, Board: "Td7"}},
		{"shared card", EquityCmd{Ranges: []string{"AhKh", "AhQd"}}},
		{"board conflict", EquityCmd{Ranges: []string{"AhKh", "QQ"}, Board: "Ah7c2d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := testGlobals(t, true)
			tt.cmd.Samples, tt.cmd.Workers = 50, -1
			assert.Error(t, tt.cmd.Run(g, context.Background()))
		})
	}

	g, _ := testGlobals(t, true)
	err := (&EquityCmd{Ranges: []string{"AA", "AX"}, Workers: -1}).Run(g, context.Background())
	assert.True(t, analysis.IsSyntaxError(err))
}

func TestLoadScenario(t *testing.T) {
	sc, err := loadScenario("testdata/aces_vs_kings.toml")
	require.NoError(t, err)
	assert.Equal(t, "Aces against kings", sc.Name)
	assert.Equal(t, []ScenarioEntrant{{"hero", "AA"}, {"villain", "KK"}}, sc.Entrants)

	sc, err = loadScenario("testdata/hilo.yaml")
	require.NoError(t, err)
	job, err := sc.job()
	require.NoError(t, err)
	assert.Len(t, job.schemes, 2)
	assert.Len(t, job.board, 3)
	require.Len(t, job.entrants, 3)
	assert.Equal(t, "P3", job.entrants[2].Name)
	assert.True(t, job.entrants[2].Random)
}

func TestLoadScenarioErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	_, err := loadScenario(write("typo.toml", "sample = 10\n"))
	assert.ErrorContains(t, err, "unknown key")

	_, err = loadScenario(write("typo.yaml", "sampels: 10\n"))
	assert.Error(t, err)

	_, err = loadScenario(write("scenario.json", "{}"))
	assert.ErrorContains(t, err, "unsupported")

	sc, err := loadScenario(write("lonely.toml", "[[entrants]]\nrange = \"AA\"\n"))
	require.NoError(t, err)
	_, err = sc.job()
	assert.Error(t, err)

	sc, err = loadScenario(write("scheme.yaml", "schemes: [razz]\nentrants: [{range: AA}, {range: KK}]\n"))
	require.NoError(t, err)
	_, err = sc.job()
	assert.ErrorContains(t, err, "unknown scheme")
}

func TestScenarioCmd(t *testing.T) {
	g, out := testGlobals(t, true)
	cmd := &ScenarioCmd{File: "testdata/aces_vs_kings.toml", Workers: 2}
	require.NoError(t, cmd.Run(g, context.Background()))

	var report equityReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Entrants, 2)
	assert.Equal(t, "hero", report.Entrants[0].Name)
	assert.Equal(t, int64(11), report.Seed)
	assert.Greater(t, report.Entrants[0].Equity, report.Entrants[1].Equity)
}

func TestEvalCmd(t *testing.T) {
	g, out := testGlobals(t, true)
	require.NoError(t, (&EvalCmd{Hole: "AsKs", Board: "QsJsTs"}).Run(g))

	var r tools.HandReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, "Royal flush", r.Name)
	assert.Equal(t, 100.0, r.Strength)

	g, out = testGlobals(t, false)
	require.NoError(t, (&EvalCmd{Hole: "AcKs", Board: "Ad7h2c"}).Run(g))
	assert.Contains(t, out.String(), "One pair, Aces")
	assert.Contains(t, out.String(), "top pair, strong kicker")

	g, _ = testGlobals(t, true)
	assert.Error(t, (&EvalCmd{Hole: "AcKs", Board: "Ac7h2c"}).Run(g))
}

func TestDrawsAndThreatCmds(t *testing.T) {
	g, out := testGlobals(t, true)
	require.NoError(t, (&DrawsCmd{Hole: "9h8h", Board: "7h6h2c"}).Run(g))
	var draws tools.DrawReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &draws))
	assert.Equal(t, 17, draws.TotalOuts)

	g, out = testGlobals(t, false)
	require.NoError(t, (&DrawsCmd{Hole: "AhKd"}).Run(g))
	assert.Contains(t, out.String(), "no draws")

	g, out = testGlobals(t, true)
	require.NoError(t, (&ThreatCmd{Pot: 100, ToCall: 120}).Run(g))
	var bet tools.BetSituation
	require.NoError(t, json.Unmarshal(out.Bytes(), &bet))
	assert.Equal(t, "EXTREME", bet.Threat)

	g, _ = testGlobals(t, true)
	assert.Error(t, (&ThreatCmd{Pot: -1, ToCall: 1}).Run(g))
}

func TestPreflopCmd(t *testing.T) {
	g, out := testGlobals(t, true)
	cmd := &PreflopCmd{Hole: "AsAh", Position: "utg", Opponents: 1, Samples: 1500, Seed: 4}
	require.NoError(t, cmd.Run(g, context.Background()))

	var r struct {
		tools.PreflopReport
		Equity *float64 `json:"equity"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, "AA", r.Notation)
	assert.Equal(t, "premium", r.Tier)
	assert.InDelta(t, 4.2, r.AdjustedScore, 1e-9)
	require.NotNil(t, r.Equity)
	assert.InDelta(t, 0.85, *r.Equity, 0.04)

	g, out = testGlobals(t, false)
	require.NoError(t, (&PreflopCmd{Hole: "7c2d"}).Run(g, context.Background()))
	assert.Contains(t, out.String(), "72o")
	assert.Contains(t, out.String(), "fold")
}

func TestAnalyzeCmd(t *testing.T) {
	g, out := testGlobals(t, false)
	g.Stdin = strings.NewReader(`{
		"your_cards": ["Ah", "Kh"],
		"community_cards": ["Qh", "7h", "2c"],
		"pot": 300,
		"to_call": 100,
		"players": [{"id": 2, "chips": 500, "status": "active"}]
	}`)
	report := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, (&AnalyzeCmd{File: "-", Output: report}).Run(g, context.Background()))

	var got analyzeOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "flop", got.Phase)
	require.NotNil(t, got.Draws)
	assert.Equal(t, 9, got.Draws.TotalOuts)
	require.NotNil(t, got.Equity)
	assert.Empty(t, got.OpponentProfiles)
	assert.FileExists(t, report)

	g, _ = testGlobals(t, false)
	g.Stdin = strings.NewReader(`{"your_cards": ["Ah"], "community_cards": [], "pot": 1}`)
	var ie *tools.InputError
	assert.ErrorAs(t, (&AnalyzeCmd{File: "-"}).Run(g, context.Background()), &ie)
}

const historySchema = `
CREATE TABLE hands (hand_id INTEGER PRIMARY KEY AUTOINCREMENT, timestamp TEXT NOT NULL, small_blind INTEGER NOT NULL,
    big_blind INTEGER NOT NULL, dealer_button INTEGER NOT NULL, player_ids TEXT NOT NULL, ended_at TEXT);
CREATE TABLE actions (action_id INTEGER PRIMARY KEY AUTOINCREMENT, hand_id INTEGER NOT NULL, phase TEXT NOT NULL,
    player_id INTEGER NOT NULL, action_type TEXT NOT NULL, amount INTEGER NOT NULL DEFAULT 0,
    pot_after INTEGER NOT NULL DEFAULT 0, timestamp TEXT NOT NULL);
CREATE TABLE community_cards (hand_id INTEGER NOT NULL, phase TEXT NOT NULL, cards TEXT NOT NULL, timestamp TEXT NOT NULL);
CREATE TABLE showdown_results (hand_id INTEGER NOT NULL, player_id INTEGER NOT NULL, hole_cards TEXT, hand_rank TEXT,
    winnings INTEGER NOT NULL DEFAULT 0, timestamp TEXT NOT NULL);

INSERT INTO hands (timestamp, small_blind, big_blind, dealer_button, player_ids) VALUES ('2025-02-01T09:00:00', 5, 10, 0, '[1, 2]');
INSERT INTO actions (hand_id, phase, player_id, action_type, amount, pot_after, timestamp) VALUES
 (1, 'preflop', 1, 'raise', 30, 40, 't'),
 (1, 'preflop', 2, 'call', 20, 60, 't'),
 (1, 'flop', 1, 'raise', 40, 100, 't'),
 (1, 'flop', 2, 'call', 40, 140, 't');
INSERT INTO community_cards (hand_id, phase, cards, timestamp) VALUES
 (1, 'flop', '["Q♥", "7♥", "2♣"]', 't'),
 (1, 'turn', '["Q♥", "7♥", "2♣", "9♦"]', 't');
INSERT INTO showdown_results (hand_id, player_id, hole_cards, hand_rank, winnings, timestamp) VALUES
 (1, 1, '["A♥", "A♦"]', 'One pair', 140, 't'),
 (1, 2, '["K♠", "Q♠"]', 'One pair', 0, 't');
`

func writeHistory(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "game_history_20250201.sqlite3")
	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(historySchema)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	return dir
}

func historyConfig(t *testing.T, g *Globals, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(g.Config, []byte("history {\n  dir = \""+filepath.ToSlash(dir)+"\"\n}\n"), 0o644))
}

func TestHistoryCmds(t *testing.T) {
	ctx := context.Background()
	dir := writeHistory(t)

	g, out := testGlobals(t, false)
	historyConfig(t, g, dir)
	require.NoError(t, (&HistoryRecentCmd{Limit: 5}).Run(g, ctx))
	assert.Contains(t, out.String(), "5/10")
	assert.Contains(t, out.String(), "1 +140")
	assert.Contains(t, out.String(), "9♦", "latest board phase is shown")

	g, out = testGlobals(t, true)
	historyConfig(t, g, dir)
	require.NoError(t, (&HistoryOpponentsCmd{IDs: []int64{1, 2}, Recent: 10}).Run(g, ctx))
	var profiles []tools.OpponentProfile
	require.NoError(t, json.Unmarshal(out.Bytes(), &profiles))
	require.Len(t, profiles, 2)
	assert.Equal(t, []string{"AA"}, profiles[0].ShownHands)
	assert.InDelta(t, 1.0, profiles[0].ShowdownWinRate, 1e-9)
	assert.Equal(t, []string{"KQs"}, profiles[1].ShownHands)

	g, out = testGlobals(t, false)
	historyConfig(t, g, dir)
	require.NoError(t, (&HistoryPlayerCmd{ID: 2, Actions: 5}).Run(g, ctx))
	assert.Contains(t, out.String(), "call")

	g, out = testGlobals(t, true)
	cmd := &HistoryHandCmd{ID: 1}
	cmd.Store.DB = filepath.Join(dir, "game_history_20250201.sqlite3")
	require.NoError(t, cmd.Run(g, ctx))
	assert.Contains(t, out.String(), `"hand_id": 1`)
	var hand history.Hand
	require.NoError(t, json.Unmarshal(out.Bytes(), &hand))
	assert.Len(t, hand.CommunityCards, 2)
	assert.Len(t, hand.CommunityCards["turn"], 4)

	g, out = testGlobals(t, true)
	historyConfig(t, g, dir)
	require.NoError(t, (&HistoryPlayerCmd{ID: 2, Actions: 5}).Run(g, ctx))
	var player struct {
		Stats   history.PlayerStats `json:"stats"`
		Actions []history.Action    `json:"recent_actions"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &player))
	assert.Equal(t, map[string]int{"call": 2}, player.Stats.ActionCounts)
	assert.Len(t, player.Actions, 2)
}

func TestHistoryCmdNoDatabase(t *testing.T) {
	g, _ := testGlobals(t, false)
	historyConfig(t, g, t.TempDir())
	err := (&HistoryRecentCmd{Limit: 5}).Run(g, context.Background())
	assert.Error(t, err)
}
