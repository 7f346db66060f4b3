package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Equity   EquityCmd        `cmd:"" help:"Estimate the equity of each range by Monte Carlo simulation"`
	Scenario ScenarioCmd      `cmd:"" help:"Run an equity scenario from a TOML or YAML file"`
	Eval     EvalCmd          `cmd:"" help:"Evaluate the best hand of hole and board cards"`
	Draws    DrawsCmd         `cmd:"" help:"List flush and open-ended straight draws"`
	Threat   ThreatCmd        `cmd:"" help:"Grade the amount to call against the pot"`
	Preflop  PreflopCmd       `cmd:"" help:"Classify a starting hand and adjust it for position"`
	Analyze  AnalyzeCmd       `cmd:"" help:"Run every applicable tool on a JSON game snapshot"`
	History  HistoryCmd       `cmd:"" help:"Read the hand-history database"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cli CLI
	k := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Hand evaluation, range equity and table heuristics for Texas Hold'em"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := k.Run(&cli.Globals)
	k.FatalIfErrorf(err)
}
