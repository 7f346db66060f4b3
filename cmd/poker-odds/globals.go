package main

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/k3s4/adk-poker-42/internal/config"
	"github.com/k3s4/adk-poker-42/internal/randutil"
	"github.com/k3s4/adk-poker-42/sdk/analysis"
	"github.com/k3s4/adk-poker-42/sdk/tools"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config    string `help:"HCL configuration file" default:"poker-odds.hcl" type:"path" env:"POKER_ODDS_CONFIG"`
	Debug     bool   `help:"Enable debug logging" env:"POKER_ODDS_DEBUG"`
	LogFormat string `help:"Log format: console or json (overrides the config file)" env:"POKER_ODDS_LOG_FORMAT"`
	JSON      bool   `help:"Print results as JSON"`

	Stdin  io.Reader `kong:"-"`
	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

// app is the state of one command run.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	out    io.Writer
	in     io.Reader
	json   bool
}

func (g *Globals) setup() (*app, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogFormat != "" {
		cfg.Log.Format = strings.ToLower(g.LogFormat)
	}
	if g.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stderr := g.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger, err := setupLogger(stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("run_id", uuid.NewString()).Logger()

	a := &app{cfg: cfg, logger: logger, out: g.Stdout, in: g.Stdin, json: g.JSON}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.in == nil {
		a.in = os.Stdin
	}
	logger.Debug().Str("config", g.Config).Int("samples", cfg.Equity.Samples).Int("workers", cfg.Equity.Workers).Msg("Configuration loaded")
	return a, nil
}

// seed resolves the simulation seed: the flag, then the config file, then
// a fresh random seed.
func (a *app) seed(flag int64) int64 {
	switch {
	case flag != 0:
		return flag
	case a.cfg.Equity.Seed != 0:
		return a.cfg.Equity.Seed
	default:
		return randutil.Seed()
	}
}

// executor returns the sample scheduler for a worker count; a negative
// count defers to the config file and zero runs sequentially.
func (a *app) executor(workers int) analysis.Executor {
	if workers < 0 {
		workers = a.cfg.Equity.Workers
	}
	if workers == 0 {
		return analysis.Sequential
	}
	return analysis.NewPool(workers)
}

func (a *app) toolkit(opts ...tools.Option) (*tools.Toolkit, error) {
	base := []tools.Option{
		tools.WithSamples(a.cfg.Equity.Samples),
		tools.WithOpponentRange(a.cfg.Equity.OpponentRange),
		tools.WithRangeCacheSize(a.cfg.Equity.RangeCacheSize),
		tools.WithEquityOptions(
			analysis.WithSeed(a.seed(0)),
			analysis.WithExecutor(a.executor(-1)),
			analysis.WithLogger(a.logger),
		),
		tools.WithLogger(a.logger),
	}
	return tools.New(append(base, opts...)...)
}
