// Package xlog wraps github.com/rs/zerolog with idealloc's defaults: a
// human-readable console writer for *os.File targets such as stderr,
// structured JSON for any other writer,
// and a level controlled by IDEALLOC_LOG_LEVEL (bound through viper by
// package cmd). It replaces the teacher's lack of a logging story —
// lvlath's algorithms package reports nothing at runtime — with the
// ambient stack a CLI driver needs: every stage of Idealloc's iterative
// refinement loop logs through here instead of printing directly.
package xlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// L is the package-wide logger. SetLevel replaces it; tests may swap it
// for a buffer-backed logger built with New to assert on emitted events.
var L = New(os.Stderr, zerolog.InfoLevel)

// New builds a logger writing to w at the given level. A *os.File target
// gets zerolog's ConsoleWriter (colored, human-friendly); anything else
// gets newline-delimited JSON, suited to log aggregation.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	var out io.Writer = w
	if f, ok := w.(*os.File); ok {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// SetLevel adjusts L's verbosity in place, e.g. from a CLI --verbose flag.
func SetLevel(level zerolog.Level) {
	L = L.Level(level)
}
