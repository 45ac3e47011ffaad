// Package logging provides structured logging using Go's slog package.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charm "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace is a custom level below slog.LevelDebug for very verbose output.
const LevelTrace = slog.LevelDebug - 4

// Config holds logging configuration.
type Config struct {
	Level   string // debug, info, warn, error
	Format  string // json, text, pretty
	Service string // service name for default attrs
	Version string // service version for default attrs

	// File enables an additional JSON sink with size-based rotation.
	File *FileConfig

	// Buffer, when set, also retains recent records for the live-log
	// endpoint. The buffer is shared: the caller keeps the reference and
	// hands it to the live-log handler.
	Buffer *Buffer
}

// FileConfig holds rolling-file sink settings.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New creates a new configured slog.Logger writing to stdout.
func New(cfg Config) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a new configured slog.Logger with a custom writer.
// The handler chain is: StoreHandler (context-store entries on every record)
// wrapping a MultiHandler fan-out over the primary sink, the optional
// rotating file and the optional live-log buffer. Secret redaction is on by
// default for the JSON/text sinks.
func NewWithWriter(cfg Config, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: NewReplaceAttr(),
	}

	var primary slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		primary = slog.NewTextHandler(w, opts)
	case "pretty":
		primary = charm.NewWithOptions(w, charm.Options{
			Level:           charmLevel(level),
			ReportTimestamp: true,
		})
	default:
		primary = slog.NewJSONHandler(w, opts)
	}

	handlers := []slog.Handler{primary}

	if cfg.File != nil {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
		handlers = append(handlers, slog.NewJSONHandler(rotator, opts))
	}

	if cfg.Buffer != nil {
		handlers = append(handlers, cfg.Buffer)
	}

	handler := handlers[0]
	if len(handlers) > 1 {
		handler = NewMultiHandler(handlers...)
	}

	logger := slog.New(NewStoreHandler(handler)).With(
		slog.String("service_name", cfg.Service),
		slog.String("service_version", cfg.Version),
	)

	return logger
}

// ParseLevel converts a string log level to slog.Level.
// Unknown values default to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// charmLevel maps an slog level onto the pretty handler's levels.
func charmLevel(level slog.Level) charm.Level {
	switch {
	case level <= slog.LevelDebug:
		return charm.DebugLevel
	case level <= slog.LevelInfo:
		return charm.InfoLevel
	case level <= slog.LevelWarn:
		return charm.WarnLevel
	default:
		return charm.ErrorLevel
	}
}
