// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zerolog logger shared by the CLI and the
// crawl engine.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the logger's level, format, and destination.
type Config struct {
	// Level is trace, debug, info, warn, or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	// Format is console (human readable) or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
	// Output is stderr or stdout.
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// DefaultConfig logs info and above to stderr in console format, keeping
// stdout for summaries.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", Output: "stderr"}
}

// New returns a logger for cfg.
func New(cfg Config) zerolog.Logger {
	var out io.Writer = os.Stderr
	if strings.EqualFold(cfg.Output, "stdout") {
		out = os.Stdout
	}
	return NewWithWriter(cfg, out)
}

// NewWithWriter returns a logger for cfg writing to out.
func NewWithWriter(cfg Config, out io.Writer) zerolog.Logger {
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
