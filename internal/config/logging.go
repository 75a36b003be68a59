package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OpenLogger writes JSON records to the configured log file; the TUI owns
// stdout. An empty LogFile discards everything.
func OpenLogger(cfg RuntimeConfig) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	if strings.TrimSpace(cfg.LogFile) == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
		return nil, nil, fmt.Errorf("config: create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("config: open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, opts)).With("app", AppName), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
