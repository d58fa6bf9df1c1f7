package totem

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with engine-specific context. This provides
// structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is
// nil, uses a default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPartition adds a partition id field to the logger.
func (l *Logger) WithPartition(pid int) *Logger {
	return &Logger{
		Logger: l.Logger.With("partition", pid),
	}
}

// WithPlatform adds a platform field to the logger.
func (l *Logger) WithPlatform(p Platform) *Logger {
	return &Logger{
		Logger: l.Logger.With("platform", p.String()),
	}
}

// LogInit logs the outcome of engine initialization.
func (l *Logger) LogInit(platform Platform, partitions int, err error) {
	if err != nil {
		l.Error("engine init failed",
			"platform", platform.String(),
			"error", err,
		)
	} else {
		l.Info("engine initialized",
			"platform", platform.String(),
			"partitions", partitions,
		)
	}
}

// LogFinalize logs the outcome of engine finalization.
func (l *Logger) LogFinalize(err error) {
	if err != nil {
		l.Error("engine finalize failed", "error", err)
	} else {
		l.Info("engine finalized")
	}
}
