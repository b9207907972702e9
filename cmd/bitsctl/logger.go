package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// initLogger builds the command logger. Console output carries RFC3339
// timestamps; json emits one object per event.
func initLogger(cfg settings, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}

	var w io.Writer = out
	if cfg.LogFormat != "json" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Str("app", "bitsctl").Logger()
	return logger, nil
}
