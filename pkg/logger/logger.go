package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = newLogger("development")

func newLogger(env string) zerolog.Logger {
	if env == "production" {
		return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

// Init picks the output for the environment: JSON at info level in
// production, console output at debug level everywhere else.
func Init(env string) {
	log = newLogger(env)
}

// Debug and friends take a message followed by key/value pairs.
func Debug(msg string, args ...any) {
	log.Debug().Fields(args).Msg(msg)
}

func Info(msg string, args ...any) {
	log.Info().Fields(args).Msg(msg)
}

func Warn(msg string, args ...any) {
	log.Warn().Fields(args).Msg(msg)
}

func Error(msg string, args ...any) {
	log.Error().Fields(args).Msg(msg)
}

func Fatal(msg string, args ...any) {
	log.Error().Fields(args).Msg(msg)
	os.Exit(1)
}
