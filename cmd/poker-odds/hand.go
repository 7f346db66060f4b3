package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/k3s4/adk-poker-42/sdk/analysis"
	"github.com/k3s4/adk-poker-42/sdk/tools"
)

type EvalCmd struct {
	Hole  string `arg:"" help:"Two hole cards (e.g., 'AhKd')"`
	Board string `arg:"" help:"Three to five board cards (e.g., 'Td7s8h')"`
}

func (cmd *EvalCmd) Run(g *Globals) error {
	a, tk, err := setupToolkit(g)
	if err != nil {
		return err
	}
	hole, board, err := holeAndBoardTokens(cmd.Hole, cmd.Board)
	if err != nil {
		return err
	}
	r, err := tk.EvaluateHand(hole, board)
	if err != nil {
		return err
	}
	if a.json {
		return writeJSON(a.out, r)
	}

	fields := [][2]string{
		{"hand", handStyle.Render(r.Name)},
		{"category", r.Category},
		{"best five", strings.Join(r.BestFive, " ")},
		{"keys", strings.Join(r.Keys, " ")},
		{"strength", fmt.Sprintf("%.2f", r.Strength)},
	}
	if r.PairContext != "" {
		fields = append(fields, [2]string{"pair", r.PairContext})
	}
	fmt.Fprint(a.out, renderFields(fields))
	return nil
}

type DrawsCmd struct {
	Hole  string `arg:"" help:"Two hole cards (e.g., 'AhKd')"`
	Board string `arg:"" optional:"" help:"Board cards dealt so far"`
}

func (cmd *DrawsCmd) Run(g *Globals) error {
	a, tk, err := setupToolkit(g)
	if err != nil {
		return err
	}
	hole, board, err := holeAndBoardTokens(cmd.Hole, cmd.Board)
	if err != nil {
		return err
	}
	r, err := tk.AnalyzeDraws(hole, board)
	if err != nil {
		return err
	}
	if a.json {
		return writeJSON(a.out, r)
	}

	if len(r.Draws) == 0 {
		fmt.Fprintln(a.out, dimStyle.Render("no draws"))
	} else {
		rows := make([][]string, len(r.Draws))
		for i, d := range r.Draws {
			rows[i] = []string{d.Type, fmt.Sprint(d.Outs)}
		}
		fmt.Fprintln(a.out, renderTable([]string{"draw", "outs"}, rows))
	}
	fmt.Fprint(a.out, renderFields([][2]string{
		{"total outs", fmt.Sprint(r.TotalOuts)},
		{"board", r.BoardTexture},
	}))
	return nil
}

type ThreatCmd struct {
	Pot    int `required:"" help:"Chips in the pot"`
	ToCall int `required:"" help:"Chips needed to call"`
}

func (cmd *ThreatCmd) Run(g *Globals) error {
	a, tk, err := setupToolkit(g)
	if err != nil {
		return err
	}
	r, err := tk.AnalyzeBet(cmd.Pot, cmd.ToCall)
	if err != nil {
		return err
	}
	if a.json {
		return writeJSON(a.out, r)
	}
	fmt.Fprint(a.out, renderFields([][2]string{
		{"pot", fmt.Sprint(r.Pot)},
		{"to call", fmt.Sprint(r.ToCall)},
		{"pot share", fmt.Sprintf("%.2f%%", r.PotPercentage)},
		{"threat", handStyle.Render(r.Threat)},
	}))
	return nil
}

type PreflopCmd struct {
	Hole      string `arg:"" help:"Two hole cards (e.g., 'AhKd')"`
	Position  string `short:"p" help:"Table position: UTG, MP, CO, BTN, SB or BB"`
	Opponents int    `help:"Also estimate all-in equity of the hand class against this many random hands"`
	Samples   int    `short:"n" help:"Number of simulated deals (default from config)"`
	Seed      int64  `help:"Random seed for reproducible results (0 picks one)"`
}

func (cmd *PreflopCmd) Run(g *Globals, ctx context.Context) error {
	a, tk, err := setupToolkit(g)
	if err != nil {
		return err
	}
	hole, err := cardTokens(cmd.Hole)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	r, err := tk.ClassifyPreflop(hole, cmd.Position)
	if err != nil {
		return err
	}

	out := struct {
		tools.PreflopReport
		Equity *float64 `json:"equity,omitempty"`
	}{PreflopReport: r}
	if cmd.Opponents > 0 {
		samples := cmd.Samples
		if samples <= 0 {
			samples = a.cfg.Equity.Samples
		}
		eq, err := analysis.PreflopEquity(ctx, r.Notation, cmd.Opponents, samples,
			analysis.WithSeed(a.seed(cmd.Seed)),
			analysis.WithExecutor(a.executor(-1)),
			analysis.WithLogger(a.logger),
		)
		if err != nil {
			return err
		}
		out.Equity = &eq
	}
	if a.json {
		return writeJSON(a.out, out)
	}

	fields := [][2]string{
		{"hand", handStyle.Render(r.Notation)},
		{"tier", fmt.Sprintf("%s (%d)", r.Tier, r.TierScore)},
		{"position", positionLabel(r.Position)},
		{"adjusted", fmt.Sprintf("%.1f (x%.2f)", r.AdjustedScore, r.Multiplier)},
		{"action", r.Recommendation},
	}
	if out.Equity != nil {
		fields = append(fields, [2]string{fmt.Sprintf("equity vs %d", cmd.Opponents), formatPercent(*out.Equity)})
	}
	fmt.Fprint(a.out, renderFields(fields))
	return nil
}

func positionLabel(p string) string {
	if p == "" {
		return dimStyle.Render("unknown")
	}
	return p
}

func setupToolkit(g *Globals) (*app, *tools.Toolkit, error) {
	a, err := g.setup()
	if err != nil {
		return nil, nil, err
	}
	tk, err := a.toolkit()
	if err != nil {
		return nil, nil, err
	}
	return a, tk, nil
}

func holeAndBoardTokens(hole, board string) ([]string, []string, error) {
	h, err := cardTokens(hole)
	if err != nil {
		return nil, nil, fmt.Errorf("hole cards: %w", err)
	}
	b, err := cardTokens(board)
	if err != nil {
		return nil, nil, fmt.Errorf("board: %w", err)
	}
	return h, b, nil
}
