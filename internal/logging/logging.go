// Package logging configures zerolog for the CLI and the editor server.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Level selects verbosity from CLI flags.
type Level int

// Verbosity levels.
const (
	LevelNormal  Level = iota // info
	LevelQuiet                // warnings and errors only
	LevelVerbose              // debug
)

// LevelFromFlags maps --quiet and --verbose; quiet wins.
func LevelFromFlags(quiet, verbose bool) Level {
	switch {
	case quiet:
		return LevelQuiet
	case verbose:
		return LevelVerbose
	default:
		return LevelNormal
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelQuiet:
		return zerolog.WarnLevel
	case LevelVerbose:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConsoleWriter returns a human-readable writer, coloured only on a terminal.
func ConsoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w), TimeFormat: time.TimeOnly}
}

// New returns a console logger on w at the given level.
func New(w io.Writer, level Level) zerolog.Logger {
	return zerolog.New(ConsoleWriter(w)).Level(level.zerolog()).With().Timestamp().Logger()
}

// NewJSON returns a JSON logger on w, for non-interactive server runs.
func NewJSON(w io.Writer, level Level) zerolog.Logger {
	return zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
}
