// Package logging configures zerolog and provides the HTTP request logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// New returns a logger at the given level. pretty selects the console writer
// used during development; otherwise output is JSON.
func New(level string, pretty bool) zerolog.Logger {
	return NewWithWriter(level, pretty, os.Stdout)
}

// NewWithWriter is New writing to w.
func NewWithWriter(level string, pretty bool, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level. Unknown values fall
// back to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// SetGlobal makes l the package-level logger used by zerolog/log.
func SetGlobal(l zerolog.Logger) {
	zlog.Logger = l
}
