package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger builds a console logger for humans or a JSON logger for
// machines. Unknown levels are rejected.
func setupLogger(w io.Writer, format, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "json":
		zerolog.TimeFieldFormat = time.RFC3339Nano
		return zerolog.New(w).
			Level(lvl).
			With().
			Timestamp().
			Logger(), nil
	case "console", "":
		return zerolog.New(zerolog.ConsoleWriter{Out: w}).
			Level(lvl).
			With().
			Timestamp().
			Logger(), nil
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", format)
	}
}
