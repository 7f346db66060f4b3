package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/k3s4/adk-poker-42/internal/fileutil"
	"github.com/k3s4/adk-poker-42/internal/metrics"
	"github.com/k3s4/adk-poker-42/internal/statistics"
	"github.com/k3s4/adk-poker-42/poker"
	"github.com/k3s4/adk-poker-42/sdk/analysis"
)

type EquityCmd struct {
	Ranges      []string `arg:"" name:"range" help:"One range per entrant, e.g. 'AKs' 'QQ+' 'AhKd' 'random'"`
	Board       string   `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Samples     int      `short:"n" help:"Number of simulated deals (default from config)"`
	Workers     int      `short:"w" help:"Worker goroutines, 0 runs sequentially (default from config)" default:"-1"`
	Seed        int64    `help:"Random seed for reproducible results (0 picks one)"`
	HiLo        bool     `name:"hilo" help:"Split each pot between high and eight-or-better low"`
	MetricsFile string   `help:"Write prometheus metrics to this file after the run" type:"path"`
	Output      string   `short:"o" help:"Also write the result as JSON to this file" type:"path"`
}

func (cmd *EquityCmd) Run(g *Globals, ctx context.Context) error {
	a, err := g.setup()
	if err != nil {
		return err
	}

	job := equityJob{
		samples: cmd.Samples,
		workers: cmd.Workers,
		seed:    cmd.Seed,
	}
	for i, notation := range cmd.Ranges {
		r, err := parseEntrantRange(notation)
		if err != nil {
			return fmt.Errorf("range %d: %w", i+1, err)
		}
		job.entrants = append(job.entrants, newEntrant(fmt.Sprintf("P%d", i+1), notation, r))
	}
	if cmd.Board != "" {
		if job.board, err = poker.ParseCards(cmd.Board); err != nil {
			return fmt.Errorf("board: %w", err)
		}
	}
	if cmd.HiLo {
		job.schemes = []poker.Scheme{poker.StandardHigh{}, poker.EightOrBetterLow{}}
	}
	return runEquity(ctx, a, job, cmd.MetricsFile, cmd.Output)
}

type entrant struct {
	Name     string
	Notation string
	Range    *analysis.Range
	// Random marks an entrant holding any two cards.
	Random bool
}

func newEntrant(name, notation string, r *analysis.Range) entrant {
	return entrant{Name: name, Notation: notation, Range: r, Random: r.Equal(analysis.Unknown())}
}

type equityJob struct {
	entrants []entrant
	board    []poker.Card
	schemes  []poker.Scheme
	samples  int
	workers  int
	seed     int64
}

type entrantReport struct {
	Name   string  `json:"name"`
	Range  string  `json:"range"`
	Combos int     `json:"combos,omitempty"`
	Equity float64 `json:"equity"`
	// StdError is the standard error of Equity.
	StdError float64    `json:"std_error"`
	CI95     [2]float64 `json:"ci95"`
}

type equityReport struct {
	Board       []string        `json:"board"`
	Entrants    []entrantReport `json:"entrants"`
	Samples     int             `json:"samples"`
	Seed        int64           `json:"seed"`
	Assignments int             `json:"assignments"`
	ElapsedMS   float64         `json:"elapsed_ms"`
}

// parseEntrantRange accepts range notation, or "random"/"any" for an
// unknown hand.
func parseEntrantRange(notation string) (*analysis.Range, error) {
	switch notation {
	case "random", "any", "?":
		return analysis.Unknown(), nil
	}
	return analysis.ParseRange(notation)
}

func runEquity(ctx context.Context, a *app, job equityJob, metricsFile, output string) error {
	if len(job.entrants) == 0 {
		return fmt.Errorf("at least one range is required")
	}
	samples := job.samples
	if samples <= 0 {
		samples = a.cfg.Equity.Samples
	}
	seed := a.seed(job.seed)

	opts := []analysis.Option{
		analysis.WithSeed(seed),
		analysis.WithExecutor(a.executor(job.workers)),
		analysis.WithLogger(a.logger),
	}
	var reg *prometheus.Registry
	if metricsFile != "" {
		reg = prometheus.NewRegistry()
		opts = append(opts, analysis.WithObserver(metrics.NewSimulationMetrics(reg)))
	}

	req := analysis.Request{
		Board:   job.board,
		Schemes: job.schemes,
		Samples: samples,
	}
	for _, e := range job.entrants {
		req.Ranges = append(req.Ranges, e.Range)
	}

	res, err := analysis.CalculateEquities(ctx, req, opts...)
	if reg != nil {
		if werr := metrics.WriteFile(metricsFile, reg); werr != nil {
			a.logger.Error().Err(werr).Str("path", metricsFile).Msg("Failed to write metrics")
		}
	}
	if err != nil {
		return err
	}
	a.logger.Info().Int("entrants", len(res.Equities)).Int("samples", res.Samples).Int64("seed", seed).Dur("elapsed", res.Elapsed).Msg("Equity calculated")

	report := equityReport{
		Board:       make([]string, len(job.board)),
		Samples:     res.Samples,
		Seed:        seed,
		Assignments: res.Assignments,
		ElapsedMS:   float64(res.Elapsed) / float64(time.Millisecond),
	}
	for i, c := range job.board {
		report.Board[i] = c.String()
	}
	for i, e := range job.entrants {
		er := entrantReport{Name: e.Name, Range: e.Notation, Equity: res.Equities[i], StdError: res.StdErrors[i]}
		er.CI95[0], er.CI95[1] = statistics.Interval95(er.Equity, er.StdError)
		if !e.Random {
			er.Combos = e.Range.Size()
		}
		report.Entrants = append(report.Entrants, er)
	}

	if output != "" {
		if err := fileutil.WriteJSON(output, report); err != nil {
			return err
		}
	}
	if a.json {
		return writeJSON(a.out, report)
	}
	displayEquity(a, job.board, report, res.Elapsed)
	return nil
}

func displayEquity(a *app, board []poker.Card, report equityReport, elapsed time.Duration) {
	if len(board) > 0 {
		fmt.Fprintf(a.out, "%s\n%s\n\n", headerStyle.Render("board"), formatCards(board))
	}

	rows := make([][]string, 0, len(report.Entrants))
	for _, e := range report.Entrants {
		combos := "any"
		if e.Combos > 0 {
			combos = fmt.Sprint(e.Combos)
		}
		rows = append(rows, []string{e.Name, e.Range, combos, formatPercent(e.Equity), dimStyle.Render(fmt.Sprintf("±%.1f%%", 50*(e.CI95[1]-e.CI95[0])))})
	}
	fmt.Fprintln(a.out, renderTable([]string{"entrant", "range", "combos", "equity", "95% ci"}, rows))

	fmt.Fprintf(a.out, "\n%d samples in %v (seed %d)\n", report.Samples, elapsed.Truncate(time.Millisecond), report.Seed)
}
