package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var logger zerolog.Logger

func init() {
	logger = logger.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
	}).With().Timestamp().Logger()
}

// Logger returns the CLI logger, writing to stderr.
func Logger() zerolog.Logger {
	return logger
}

// SetLogLevel sets the minimum level of the CLI logger.
func SetLogLevel(level zerolog.Level) {
	logger = logger.Level(level)
}
