// Package logging provides the structured event sink used by the importer.
//
// Events carry a fixed set of context fields (component, operation, entity
// and optional identifier/detail) so that every import run can be traced
// through the log regardless of the backend in use.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Fields is the structured context attached to one event.
type Fields struct {
	Component  string
	Operation  string
	Entity     string
	Identifier string
	Detail     string
}

// Logger is the boundary the importer writes events to. Implementations
// decide where events end up.
type Logger interface {
	Log(level Level, fields Fields, msg string)
}

// ZerologLogger writes events through zerolog.
type ZerologLogger struct {
	logger zerolog.Logger
}

// New builds a zerolog-backed Logger.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "console", "json" (default: "console")
//
// A nil writer logs to stderr so that stdout stays free for command output.
func New(w io.Writer, level, format string) *ZerologLogger {
	if w == nil {
		w = os.Stderr
	}
	if strings.ToLower(strings.TrimSpace(format)) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(w).
		Level(toZerolog(ParseLevel(level))).
		With().
		Timestamp().
		Logger()
	return &ZerologLogger{logger: logger}
}

func (l *ZerologLogger) Log(level Level, fields Fields, msg string) {
	event := l.logger.WithLevel(toZerolog(level))
	if event == nil {
		return
	}

	event = event.
		Str("component", fields.Component).
		Str("operation", fields.Operation).
		Str("entity", fields.Entity)
	if fields.Identifier != "" {
		event = event.Str("identifier", fields.Identifier)
	}
	if fields.Detail != "" {
		event = event.Str("detail", fields.Detail)
	}
	event.Msg(msg)
}

// ParseLevel converts a level name to a Level. Unknown names map to info.
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func toZerolog(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopLogger struct{}

func (nopLogger) Log(Level, Fields, string) {}

// Nop returns a Logger that discards every event.
func Nop() Logger {
	return nopLogger{}
}
