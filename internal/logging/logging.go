// Package logging builds the structured logger handed to daemon components.
//
// There is no package-level logger: callers construct one with New and pass it
// down. The severity threshold lives in a slog.LevelVar so it can be raised or
// lowered while the daemon runs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New returns a text logger writing to w, filtered by level.
func New(w io.Writer, level *slog.LevelVar) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler).With("component", "hyprstream")
}

// ParseLevel converts a user-supplied level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
