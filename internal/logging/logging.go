// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/trisolaris/internal/config"
)

// Init installs the default logger writing to w. It returns the handler's level
// so callers can report it.
func Init(cfg config.LogConfig, w io.Writer) slog.Level {
	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.With("component", "logging").Debug("logger initialized",
		"level", level.String(),
		"json_format", cfg.JSON,
	)
	return level
}

// InitFile logs to cfg.File so an alt-screen TUI stays clean. The caller closes
// the returned file.
func InitFile(cfg config.LogConfig) (*os.File, error) {
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	Init(cfg, f)
	return f, nil
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
