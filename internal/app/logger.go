package app

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the slog.Logger for one of the rolodex binaries. The
// service name tells the API and the mail worker apart in aggregated logs.
func NewLogger(cfg *Config, service string) *slog.Logger {
	return newLoggerTo(os.Stdout, cfg, service)
}

func newLoggerTo(w io.Writer, cfg *Config, service string) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}

	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With(slog.String("service", service))
	if cfg != nil {
		logger = logger.With(slog.String("env", cfg.AppEnv))
	}
	return logger
}
