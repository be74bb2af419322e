// Package logger provides structured logging configuration using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string // "text" or "json"

	// File, when set, receives a copy of every record and is rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger creates a configured slog.Logger.
// The returned closer flushes and closes the log file; it is a no-op without one.
func NewLogger(cfg Config) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, rotator)
		closer = rotator
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		// Add a source location for debug level
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), closer
}

// DefaultConfig returns the default logger configuration.
// Parses PLAYVIDEO_LOG_LEVEL, PLAYVIDEO_LOG_FORMAT and PLAYVIDEO_LOG_FILE.
func DefaultConfig() Config {
	return Config{
		Level:      ParseLevel(os.Getenv("PLAYVIDEO_LOG_LEVEL")),
		Format:     strings.ToLower(os.Getenv("PLAYVIDEO_LOG_FORMAT")),
		File:       os.Getenv("PLAYVIDEO_LOG_FILE"),
		MaxSizeMB:  5,
		MaxBackups: 3,
		MaxAgeDays: 30,
	}
}

// ParseLevel converts DEBUG, INFO, WARN, WARNING or ERROR to a level.
// Anything else yields INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
