package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases the zerolog.Logger so packages outside infra depend on the
// logging contract rather than the third-party module.
type Logger = zerolog.Logger

// NewLogger constructs a zerolog.Logger for the service. Development builds log
// at debug level through the console writer; everything else emits JSON.
func NewLogger(appEnv string) Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", "wanderai").
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}

// NopLogger returns a logger that discards everything.
func NopLogger() *Logger {
	l := zerolog.New(io.Discard)
	return &l
}
