// Package logging builds the slog loggers used by the cmdgrammar CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// Levels accepted by ParseLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ParseLevel maps a level name to a pterm log level.
func ParseLevel(name string) (pterm.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LevelDebug:
		return pterm.LogLevelDebug, nil
	case LevelInfo, "":
		return pterm.LogLevelInfo, nil
	case LevelWarn, "warning":
		return pterm.LogLevelWarn, nil
	case LevelError:
		return pterm.LogLevelError, nil
	default:
		return pterm.LogLevelDisabled, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", name)
	}
}

// New returns a logger writing to w through a pterm handler. A nil writer
// means stderr.
func New(level string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	logger := pterm.DefaultLogger.
		WithWriter(w).
		WithLevel(lvl).
		WithTime(false)

	return slog.New(pterm.NewSlogHandler(logger)), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
