package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/k3s4/adk-poker-42/internal/fileutil"
	"github.com/k3s4/adk-poker-42/sdk/tools"
)

type AnalyzeCmd struct {
	File      string `arg:"" optional:"" default:"-" help:"Snapshot JSON file, '-' for stdin"`
	Opponents bool   `help:"Add opponent profiles from the hand-history database"`
	DB        string `help:"History database (default: newest in the configured directory)" type:"path"`
	Recent    int    `default:"50" help:"Hands scanned for shown cards when profiling opponents"`
	Output    string `short:"o" help:"Also write the report to this file" type:"path"`
}

type analyzeOutput struct {
	tools.SnapshotReport
	OpponentProfiles []tools.OpponentProfile `json:"opponent_profiles,omitempty"`
}

func (cmd *AnalyzeCmd) Run(g *Globals, ctx context.Context) error {
	a, err := g.setup()
	if err != nil {
		return err
	}
	data, err := cmd.read(a.in)
	if err != nil {
		return err
	}
	snap, err := tools.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	var opts []tools.Option
	if cmd.Opponents {
		store, err := openStore(a, cmd.DB)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, tools.WithHistory(store))
	}
	tk, err := a.toolkit(opts...)
	if err != nil {
		return err
	}

	report, err := tk.Analyze(ctx, snap)
	if err != nil {
		return err
	}
	out := analyzeOutput{SnapshotReport: report}
	if cmd.Opponents && len(snap.Players) > 0 {
		ids := make([]int64, len(snap.Players))
		for i, p := range snap.Players {
			ids[i] = p.ID
		}
		if out.OpponentProfiles, err = tk.OpponentProfiles(ctx, ids, cmd.Recent); err != nil {
			return err
		}
	}

	if cmd.Output != "" {
		if err := fileutil.WriteJSON(cmd.Output, out); err != nil {
			return err
		}
	}
	return writeJSON(a.out, out)
}

func (cmd *AnalyzeCmd) read(stdin io.Reader) ([]byte, error) {
	if cmd.File == "" || cmd.File == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(filepath.Clean(cmd.File))
}
