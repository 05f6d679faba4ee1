// Package logging provides the application's structured logger: console
// output for operators plus a weekly rotating JSON file for diagnostics.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type service struct {
	logger *slog.Logger
	writer *RotatingWriter
}

var defaultService *service

// Init configures the global logger to write text to stdout and JSON to a
// rotating file under logDir. A nil return means console-only fallback was
// used (logDir could not be created).
func Init(logDir, level string, retentionWeeks int, maxFileSize int64) *slog.Logger {
	lvl := parseLevel(level)

	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})

	var logger *slog.Logger
	var writer *RotatingWriter

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logger = slog.New(consoleHandler)
		logger.Error("Failed to create log directory, console only", "error", err, "dir", logDir)
	} else {
		writer = NewRotatingWriter(logDir, retentionWeeks, maxFileSize)
		fileHandler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: lvl})
		logger = slog.New(fanoutHandler{consoleHandler, fileHandler})
	}

	defaultService = &service{logger: logger, writer: writer}
	slog.SetDefault(logger)
	return logger
}

// Shutdown flushes and closes the rotating file, if any.
func Shutdown() {
	if defaultService != nil && defaultService.writer != nil {
		_ = defaultService.writer.Close()
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Package-level functions for direct access. They fall back to a stderr
// logger when Init has not run, so early startup errors are never lost.

func Info(msg string, args ...any) { get().Info(msg, args...) }

func Warn(msg string, args ...any) { get().Warn(msg, args...) }

func Error(msg string, args ...any) { get().Error(msg, args...) }

func Debug(msg string, args ...any) { get().Debug(msg, args...) }

func get() *slog.Logger {
	if defaultService == nil || defaultService.logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return defaultService.logger
}

// Logger returns the configured logger for handlers that want to attach it
// directly, falling back to the default slog logger before Init.
func Logger() *slog.Logger {
	return get()
}

// fanoutHandler duplicates records to every wrapped handler.
type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, hh := range h {
		if hh.Enabled(ctx, r.Level) {
			if err := hh.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, hh := range h {
		out[i] = hh.WithAttrs(attrs)
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, hh := range h {
		out[i] = hh.WithGroup(name)
	}
	return out
}

var _ io.Writer = (*RotatingWriter)(nil)
