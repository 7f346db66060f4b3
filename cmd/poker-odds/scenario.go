package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/k3s4/adk-poker-42/poker"
)

type ScenarioCmd struct {
	File        string `arg:"" name:"file" help:"Scenario file (.toml, .yaml or .yml)" type:"existingfile"`
	Workers     int    `short:"w" help:"Worker goroutines, 0 runs sequentially (default from config)" default:"-1"`
	MetricsFile string `help:"Write prometheus metrics to this file after the run" type:"path"`
	Output      string `short:"o" help:"Also write the result as JSON to this file" type:"path"`
}

// Scenario is an equity question stored in a file.
type Scenario struct {
	Name     string            `toml:"name" yaml:"name"`
	Board    string            `toml:"board" yaml:"board"`
	Samples  int               `toml:"samples" yaml:"samples"`
	Seed     int64             `toml:"seed" yaml:"seed"`
	Schemes  []string          `toml:"schemes" yaml:"schemes"`
	Entrants []ScenarioEntrant `toml:"entrants" yaml:"entrants"`
}

// ScenarioEntrant is one player of a scenario.
type ScenarioEntrant struct {
	Name  string `toml:"name" yaml:"name"`
	Range string `toml:"range" yaml:"range"`
}

func (cmd *ScenarioCmd) Run(g *Globals, ctx context.Context) error {
	a, err := g.setup()
	if err != nil {
		return err
	}
	sc, err := loadScenario(cmd.File)
	if err != nil {
		return err
	}
	job, err := sc.job()
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.File, err)
	}
	job.workers = cmd.Workers

	a.logger.Debug().Str("file", cmd.File).Str("scenario", sc.Name).Int("entrants", len(job.entrants)).Msg("Scenario loaded")
	if sc.Name != "" && !a.json {
		fmt.Fprintf(a.out, "%s\n\n", headerStyle.Render(sc.Name))
	}
	return runEquity(ctx, a, job, cmd.MetricsFile, cmd.Output)
}

// loadScenario decodes a scenario by file extension. Unknown keys are
// errors so typos do not silently fall back to defaults.
func loadScenario(path string) (*Scenario, error) {
	var sc Scenario
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.DecodeFile(path, &sc)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", ext)
	}
	return &sc, nil
}

func (sc *Scenario) job() (equityJob, error) {
	if len(sc.Entrants) < 2 {
		return equityJob{}, errors.New("a scenario needs at least two entrants")
	}
	if sc.Samples < 0 {
		return equityJob{}, fmt.Errorf("samples must not be negative, got %d", sc.Samples)
	}

	job := equityJob{samples: sc.Samples, seed: sc.Seed}
	for i, e := range sc.Entrants {
		r, err := parseEntrantRange(e.Range)
		if err != nil {
			return equityJob{}, fmt.Errorf("entrant %d: %w", i+1, err)
		}
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("P%d", i+1)
		}
		job.entrants = append(job.entrants, newEntrant(name, e.Range, r))
	}
	if sc.Board != "" {
		board, err := poker.ParseCards(sc.Board)
		if err != nil {
			return equityJob{}, fmt.Errorf("board: %w", err)
		}
		job.board = board
	}
	for _, name := range sc.Schemes {
		s, err := poker.SchemeByName(name)
		if err != nil {
			return equityJob{}, err
		}
		job.schemes = append(job.schemes, s)
	}
	return job, nil
}
