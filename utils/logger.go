package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides structured, leveled logging throughout the application.
type Logger struct {
	zl zerolog.Logger
}

// LoggerOptions selects the level and output format of a Logger.
type LoggerOptions struct {
	Level  string
	Format string
	Writer io.Writer
}

// NewLogger creates a console Logger writing to stdout at debug level.
func NewLogger() *Logger {
	return NewLoggerWithOptions(LoggerOptions{Level: "debug", Format: "console"})
}

// NewLoggerWithOptions builds a Logger; Format "json" emits one JSON object per line.
func NewLoggerWithOptions(opt LoggerOptions) *Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if !strings.EqualFold(opt.Format, "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: opt.Writer != nil}
	}

	zl := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// With returns a child Logger that attaches key=value to every entry.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// Zerolog exposes the underlying logger for libraries that take one.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.DebugLevel
	}
}
