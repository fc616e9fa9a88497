package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging configures the global zerolog logger for the server.
func SetupLogging(level, format string) zerolog.Logger {
	var w io.Writer = os.Stderr
	if format == LogConsole {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return setGlobal(level, w)
}

// SetupFileLogging sends JSON logs to path, or discards them when path is
// empty. The terminal client owns the screen, so it never logs to stderr.
// The returned close func releases the file.
func SetupFileLogging(level, path string) (zerolog.Logger, func() error, error) {
	if path == "" {
		return setGlobal(level, io.Discard), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return setGlobal(level, f), f.Close, nil
}

func setGlobal(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return log.Logger
}
