package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the root logger for the process. Output is a human-readable
// console writer; the level comes from LOG_LEVEL and defaults to info.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// For returns a child logger tagged with a component name.
func For(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
