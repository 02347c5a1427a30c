package config

import (
    "io"
    "log/slog"
    "os"
    "strings"
)

// NewLogger creates the JSON structured logger shared by the server,
// the event publisher and the event consumer. Unknown levels fall back
// to info.
func NewLogger(level string) *slog.Logger {
    return newLogger(os.Stdout, level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
    lvl := slog.LevelInfo
    switch strings.ToLower(strings.TrimSpace(level)) {
    case "debug":
        lvl = slog.LevelDebug
    case "warn", "warning":
        lvl = slog.LevelWarn
    case "error":
        lvl = slog.LevelError
    }
    log := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
    slog.SetDefault(log)
    return log
}
