// Package logger builds the zerolog instances used across the service.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config for logger construction.
type Config struct {
	// Level is one of debug, info, warn, error (default: info).
	Level string

	// Pretty switches to human-readable console output for development.
	Pretty bool

	// Service is stamped on every entry.
	Service string
}

// ParseLevel maps a level string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a configured zerolog.Logger writing to stdout. Production
// output is line-delimited JSON; Pretty enables the console writer.
func New(cfg Config) zerolog.Logger {
	if cfg.Service == "" {
		cfg.Service = "classifier"
	}

	var zlog zerolog.Logger
	if cfg.Pretty {
		zlog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		zlog = zerolog.New(os.Stdout)
	}

	return zlog.Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Logger()
}
