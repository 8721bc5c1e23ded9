// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or text
	Output string // stdout, file, both
	File   string
	// Rotation, used when Output writes to File.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New builds a logger writing to cfg.Output. The returned closer releases
// the rotating file, if any.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer
	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "file", "both":
		if cfg.File == "" {
			return nil, nil, fmt.Errorf("log output %q needs a file path", cfg.Output)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: orDefault(cfg.MaxBackups, 10),
			MaxAge:     orDefault(cfg.MaxAgeDays, 30),
			Compress:   cfg.Compress,
		}
		closer = rot
		out = rot
		if cfg.Output == "both" {
			out = io.MultiWriter(os.Stdout, rot)
		}
	default:
		return nil, nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	return slog.New(NewHandler(out, cfg.Format, level)), closer, nil
}

// NewHandler returns a JSON handler for "json" and a text handler otherwise.
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Setup builds the logger and installs it as slog's default.
func Setup(cfg Config) (*slog.Logger, io.Closer, error) {
	logger, closer, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}

// Discard is a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
