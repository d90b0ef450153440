// internal/log/log.go
//
// Package log provides a minimal logging abstraction for the crawler.
// It exposes four severity levels so internal packages do not depend
// directly on any one logging framework.
//
// The concrete implementation wraps github.com/rs/zerolog, giving
// operators structured, leveled output while keeping call sites in the
// rest of the codebase framework-agnostic.
package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the interface the crawler uses for logging.
//
// It is intentionally small so that it can be easily adapted to other
// logging frameworks if needed.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// With returns a child logger carrying an additional structured
	// field, so call sites can tag every subsequent line with e.g. a
	// base_id or host without reformatting every message.
	With(key string, value any) Logger
}

// Level represents the verbosity level of the logger.
type Level int

const (
	// LevelDebug enables all log messages.
	LevelDebug Level = iota
	// LevelInfo emits informational, warning and error messages.
	LevelInfo
	// LevelWarn emits only warnings and errors.
	LevelWarn
	// LevelError emits only errors.
	LevelError
)

// zlogger is a zerolog-backed implementation of Logger.
type zlogger struct {
	l zerolog.Logger
}

// New creates a new Logger instance.
//
// If debug is true, the logger emits messages at LevelDebug; otherwise
// it uses LevelInfo as a reasonable default. Output is console-formatted
// human-readable text on stderr, leaving stdout free for the plain-text
// progress lines the rest of the system writes there.
func New(debug bool) Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	base := zerolog.New(writer).Level(level).With().Timestamp().Logger()

	return &zlogger{l: base}
}

func (z *zlogger) Debugf(format string, args ...any) { z.l.Debug().Msgf(format, args...) }
func (z *zlogger) Infof(format string, args ...any)  { z.l.Info().Msgf(format, args...) }
func (z *zlogger) Warnf(format string, args ...any)  { z.l.Warn().Msgf(format, args...) }
func (z *zlogger) Errorf(format string, args ...any) { z.l.Error().Msgf(format, args...) }

func (z *zlogger) With(key string, value any) Logger {
	return &zlogger{l: z.l.With().Interface(key, value).Logger()}
}
