// Package logging builds the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/config"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// New returns a logger writing JSON lines to w, or console output when
// cfg.Pretty is set. It also replaces the global zerolog logger.
func New(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if w == nil {
		w = os.Stdout
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Str("service", "lavajato").Logger()
	zlog.Logger = logger
	return logger, nil
}
