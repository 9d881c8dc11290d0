package log

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds a console logger tagged with the originating module.
func New(module string) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Str("module", module).
		Logger()
}
