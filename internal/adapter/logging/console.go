// Package logging builds the process-wide slog handler: a console handler,
// optionally fanned out to Fluent Bit.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// NewConsoleHandler returns a handler writing to w in the given format:
// "pretty" (coloured, for terminals), "json" or "text".
func NewConsoleHandler(w io.Writer, format string, level slog.Leveler) slog.Handler {
	switch format {
	case "pretty":
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
}
