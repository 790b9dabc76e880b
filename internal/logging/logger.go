// Package logging provides the process-wide structured logger.
//
// Output is console-formatted on stderr until InitLogger points it at a
// size-rotated JSON file. Log calls take alternating key/value pairs:
//
//	logging.Info("conversion done", "file", name, "ms", elapsed)
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// InitLogger configures the logger. An empty file keeps console output
// on stderr; otherwise logs go to a size-rotated JSON file. Unknown
// levels fall back to info.
func InitLogger(file string, maxSizeMB, maxBackups, maxAgeDays int, compress bool, level string) {
	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if file != "" {
		w = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   compress,
		}
	}
	logger = zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
}

// SetLogLevel adjusts the level of the active logger.
// Unknown or empty levels fall back to info.
func SetLogLevel(level string) {
	logger = logger.Level(parseLevel(level))
}

// SetLoggerForTest replaces the active logger so tests can capture output.
func SetLoggerForTest(l zerolog.Logger) {
	logger = l
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Debug logs a debug message with alternating key/value pairs.
func Debug(msg string, kv ...interface{}) {
	logger.Debug().Fields(kv).Msg(msg)
}

// Info logs an informational message with alternating key/value pairs.
func Info(msg string, kv ...interface{}) {
	logger.Info().Fields(kv).Msg(msg)
}

// Warn logs a warning with alternating key/value pairs.
func Warn(msg string, kv ...interface{}) {
	logger.Warn().Fields(kv).Msg(msg)
}

// Error logs an error with alternating key/value pairs.
func Error(msg string, kv ...interface{}) {
	logger.Error().Fields(kv).Msg(msg)
}
