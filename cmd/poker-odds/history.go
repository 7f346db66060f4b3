package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/k3s4/adk-poker-42/internal/history"
	"github.com/k3s4/adk-poker-42/poker"
	"github.com/k3s4/adk-poker-42/sdk/tools"
)

// HistoryCmd is the root command for hand-history queries.
type HistoryCmd struct {
	Recent    HistoryRecentCmd    `cmd:"" help:"List the most recent hands"`
	Hand      HistoryHandCmd      `cmd:"" help:"Show one hand in full"`
	Player    HistoryPlayerCmd    `cmd:"" help:"Show a player's action statistics"`
	Opponents HistoryOpponentsCmd `cmd:"" help:"Profile several opponents"`
}

// HistoryDB selects the database file.
type HistoryDB struct {
	DB string `help:"History database (default: newest in the configured directory)" type:"path"`
}

type HistoryRecentCmd struct {
	Store HistoryDB `embed:""`
	Limit int       `short:"n" default:"10" help:"Number of hands"`
}

func (cmd *HistoryRecentCmd) Run(g *Globals, ctx context.Context) error {
	a, store, err := setupStore(g, cmd.Store.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	hands, err := store.RecentHands(ctx, cmd.Limit)
	if err != nil {
		return err
	}
	if a.json {
		return writeJSON(a.out, hands)
	}
	if len(hands) == 0 {
		fmt.Fprintln(a.out, dimStyle.Render("no hands recorded"))
		return nil
	}

	rows := make([][]string, len(hands))
	for i, h := range hands {
		rows[i] = []string{
			fmt.Sprint(h.ID),
			h.Timestamp,
			fmt.Sprintf("%d/%d", h.SmallBlind, h.BigBlind),
			fmt.Sprint(len(h.PlayerIDs)),
			formatCards(boardCards(h)),
			winners(h),
		}
	}
	fmt.Fprintln(a.out, renderTable([]string{"hand", "started", "blinds", "players", "board", "winners"}, rows))
	fmt.Fprintln(a.out, dimStyle.Render(store.Path()))
	return nil
}

type HistoryHandCmd struct {
	Store HistoryDB `embed:""`
	ID    int64     `arg:"" name:"hand-id" help:"Hand id"`
}

func (cmd *HistoryHandCmd) Run(g *Globals, ctx context.Context) error {
	a, store, err := setupStore(g, cmd.Store.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	h, err := store.Hand(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if a.json {
		return writeJSON(a.out, h)
	}

	fmt.Fprint(a.out, renderFields([][2]string{
		{"hand", handStyle.Render(fmt.Sprint(h.ID))},
		{"started", h.Timestamp},
		{"blinds", fmt.Sprintf("%d/%d", h.SmallBlind, h.BigBlind)},
		{"button", fmt.Sprint(h.DealerButton)},
		{"board", formatCards(boardCards(h))},
	}))
	if len(h.Actions) > 0 {
		fmt.Fprintln(a.out, renderTable([]string{"phase", "player", "action", "amount", "pot"}, actionRows(h.Actions)))
	}
	if len(h.Showdowns) > 0 {
		rows := make([][]string, len(h.Showdowns))
		for i, sd := range h.Showdowns {
			rows[i] = []string{fmt.Sprint(sd.PlayerID), strings.Join(sd.HoleCards, " "), sd.HandRank, fmt.Sprint(sd.Winnings)}
		}
		fmt.Fprintln(a.out, renderTable([]string{"player", "cards", "hand", "won"}, rows))
	}
	return nil
}

type HistoryPlayerCmd struct {
	Store   HistoryDB `embed:""`
	ID      int64     `arg:"" name:"player-id" help:"Player id"`
	Actions int       `default:"10" help:"Number of recent actions to list"`
}

func (cmd *HistoryPlayerCmd) Run(g *Globals, ctx context.Context) error {
	a, store, err := setupStore(g, cmd.Store.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.PlayerStats(ctx, cmd.ID)
	if err != nil {
		return err
	}
	var actions []history.Action
	if cmd.Actions > 0 {
		if actions, err = store.PlayerRecentActions(ctx, cmd.ID, cmd.Actions); err != nil {
			return err
		}
	}
	if a.json {
		return writeJSON(a.out, struct {
			Stats   history.PlayerStats `json:"stats"`
			Actions []history.Action    `json:"recent_actions"`
		}{stats, actions})
	}

	fields := [][2]string{
		{"player", handStyle.Render(fmt.Sprint(stats.PlayerID))},
		{"hands", fmt.Sprint(stats.HandsPlayed)},
		{"showdowns", fmt.Sprintf("%d (%d won)", stats.Showdowns, stats.ShowdownWins)},
		{"winnings", fmt.Sprint(stats.TotalWinnings)},
	}
	types := make([]string, 0, len(stats.ActionCounts))
	for t := range stats.ActionCounts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fields = append(fields, [2]string{t, fmt.Sprintf("%d (%.0f%%)", stats.ActionCounts[t], stats.Frequency(t)*100)})
	}
	fmt.Fprint(a.out, renderFields(fields))
	if len(actions) > 0 {
		fmt.Fprintln(a.out, renderTable([]string{"phase", "player", "action", "amount", "pot"}, actionRows(actions)))
	}
	return nil
}

type HistoryOpponentsCmd struct {
	Store  HistoryDB `embed:""`
	IDs    []int64   `arg:"" name:"player-id" help:"Player ids"`
	Recent int       `default:"50" help:"Hands scanned for shown cards"`
}

func (cmd *HistoryOpponentsCmd) Run(g *Globals, ctx context.Context) error {
	a, store, err := setupStore(g, cmd.Store.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	tk, err := a.toolkit(tools.WithHistory(store))
	if err != nil {
		return err
	}
	profiles, err := tk.OpponentProfiles(ctx, cmd.IDs, cmd.Recent)
	if err != nil {
		return err
	}
	if a.json {
		return writeJSON(a.out, profiles)
	}

	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		rows[i] = []string{
			fmt.Sprint(p.PlayerID),
			fmt.Sprint(p.HandsPlayed),
			fmt.Sprintf("%.2f", p.Aggression),
			formatPercent(p.FoldRate),
			formatPercent(p.ShowdownWinRate),
			fmt.Sprint(p.TotalWinnings),
			strings.Join(p.ShownHands, " "),
		}
	}
	fmt.Fprintln(a.out, renderTable([]string{"player", "hands", "aggression", "fold", "sd won", "winnings", "shown"}, rows))
	return nil
}

func setupStore(g *Globals, path string) (*app, *history.Store, error) {
	a, err := g.setup()
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(a, path)
	if err != nil {
		return nil, nil, err
	}
	return a, store, nil
}

// openStore opens the database named by the flag, the config file, or
// the newest one in the configured directory, in that order.
func openStore(a *app, path string) (*history.Store, error) {
	if path == "" {
		path = a.cfg.History.Path
	}
	if path == "" {
		latest, err := history.FindLatest(a.cfg.History.Dir)
		if err != nil {
			return nil, err
		}
		path = latest
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("path", path).Msg("Opened hand history")
	return store, nil
}

var boardPhases = []string{"river", "turn", "flop"}

// boardCards returns the board of the latest recorded phase; each phase
// records the whole board dealt so far.
func boardCards(h *history.Hand) []poker.Card {
	for _, phase := range boardPhases {
		tokens, ok := h.CommunityCards[phase]
		if !ok {
			continue
		}
		cards, err := poker.ParseCards(strings.Join(tokens, " "))
		if err != nil {
			return nil
		}
		return cards
	}
	return nil
}

func winners(h *history.Hand) string {
	var parts []string
	for _, sd := range h.Showdowns {
		if sd.Winnings > 0 {
			parts = append(parts, fmt.Sprintf("%d +%d", sd.PlayerID, sd.Winnings))
		}
	}
	if len(parts) == 0 {
		return dimStyle.Render("-")
	}
	return strings.Join(parts, ", ")
}

func actionRows(actions []history.Action) [][]string {
	rows := make([][]string, len(actions))
	for i, act := range actions {
		rows[i] = []string{act.Phase, fmt.Sprint(act.PlayerID), act.Type, fmt.Sprint(act.Amount), fmt.Sprint(act.PotAfter)}
	}
	return rows
}
