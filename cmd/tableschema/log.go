package main

import (
	"io"
	"log/slog"
	"os"
)

var theLog = newLogger(os.Stderr, slog.LevelWarn)

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey {
				if a.Value.String() == "INFO" {
					return slog.Attr{}
				}
			}
			return a
		},
	}))
}

// setupLogging replaces theLog with one at the named level. An unparseable
// level keeps warn and is reported to the caller.
func setupLogging(level string) error {
	logLevel := slog.LevelWarn
	var err error
	if level != "" {
		err = logLevel.UnmarshalText([]byte(level))
		if err != nil {
			logLevel = slog.LevelWarn
		}
	}
	theLog = newLogger(os.Stderr, logLevel)
	return err
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
