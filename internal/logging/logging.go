// Package logging builds the structured loggers used across figurine.
//
// Console output goes through tint for colourised, human-readable lines;
// the json format is meant for log files and collectors. Components derive
// child loggers with WithComponent.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects the log line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config configures a logger.
type Config struct {
	// Level is the minimum level written.
	Level slog.Level
	// Format is text (tint) or json.
	Format Format
	// Output is where lines are written. Defaults to os.Stderr.
	Output io.Writer
	// NoColor disables ANSI colours in text output.
	NoColor bool
	// TimeFormat is the text timestamp layout.
	TimeFormat string
}

// DefaultConfig returns info-level text logging to stderr.
func DefaultConfig() Config {
	return Config{
		Level:      slog.LevelInfo,
		Format:     FormatText,
		Output:     os.Stderr,
		TimeFormat: time.Kitchen,
	}
}

// ParseLevel parses debug, info, warn or error.
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

// ParseFormat parses text or json.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// New builds a logger from cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.Level}))
	}
	tf := cfg.TimeFormat
	if tf == "" {
		tf = time.Kitchen
	}
	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:      cfg.Level,
		TimeFormat: tf,
		NoColor:    cfg.NoColor,
	}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithComponent returns a child logger tagged with a component name. A nil
// logger yields a discarding one.
func WithComponent(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With("component", name)
}

// Err is a shorthand attribute for errors.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
