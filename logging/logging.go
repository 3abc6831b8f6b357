package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/indieinfra/mediaprep/config"
)

const FormatConsole = "console"

// New builds a logger writing to w, or stderr when w is nil. Unknown levels
// fall back to info.
func New(cfg config.Logging, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(w).Level(level).With().Str("service", "mediaprep").Logger()
	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}

	return zl
}

// WithComponent tags a logger with the component that emits through it.
func WithComponent(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
