package productcluster

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with productcluster-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithBatchSize adds a batch size field to the logger.
func (l *Logger) WithBatchSize(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("batch_size", n),
	}
}

// WithThreshold adds a similarity threshold field to the logger.
func (l *Logger) WithThreshold(t float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("threshold", t),
	}
}

// LogExtractBatch logs one batch extraction pass.
func (l *Logger) LogExtractBatch(ctx context.Context, total, failed int, degraded bool, elapsed time.Duration) {
	if failed > 0 {
		l.WarnContext(ctx, "extraction completed with failures",
			"total", total,
			"failed", failed,
			"success", total-failed,
			"degraded", degraded,
			"elapsed", elapsed,
		)
	} else {
		l.DebugContext(ctx, "extraction completed",
			"total", total,
			"degraded", degraded,
			"elapsed", elapsed,
		)
	}
}

// LogGraphBuild logs one similarity graph build.
func (l *Logger) LogGraphBuild(ctx context.Context, nodes, edges int, threshold float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "graph build failed",
			"nodes", nodes,
			"threshold", threshold,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "graph build completed",
			"nodes", nodes,
			"edges", edges,
			"threshold", threshold,
		)
	}
}

// LogCluster logs one full clustering run.
func (l *Logger) LogCluster(ctx context.Context, images, groups, ungrouped int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"images", images,
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "clustering completed",
			"images", images,
			"groups", groups,
			"ungrouped", ungrouped,
			"elapsed", elapsed,
		)
	}
}

// LogMutation logs one group mutation.
func (l *Logger) LogMutation(ctx context.Context, op string, err error) {
	if err != nil {
		l.WarnContext(ctx, "mutation rejected",
			"op", op,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "mutation applied",
			"op", op,
		)
	}
}

// LogSnapshot logs a cache snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache snapshot failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "cache snapshot completed",
			"entries", entries,
		)
	}
}
