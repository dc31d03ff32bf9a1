package app

import (
	"fmt"
	"io"
	"log/slog"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

var logHandlers = map[string]func(io.Writer, *slog.HandlerOptions) slog.Handler{
	"text": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) },
	"json": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) },
}

func parseLogLevel(s string) (slog.Level, error) {
	level, ok := logLevels[s]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn' or 'error'", s)
	}
	return level, nil
}

func parseLogFormat(s string) (func(io.Writer, *slog.HandlerOptions) slog.Handler, error) {
	h, ok := logHandlers[s]
	if !ok {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", s)
	}
	return h, nil
}

// newLogger builds the logger of one App over w from a validated config.
// It does not set the global logger, allowing for isolated logger
// instances.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	level, _ := parseLogLevel(cfg.LogLevel)
	newHandler, err := parseLogFormat(cfg.LogFormat)
	if err != nil {
		newHandler = logHandlers["text"]
	}
	return slog.New(newHandler(w, &slog.HandlerOptions{Level: level})).With("component", "bindgraph")
}
