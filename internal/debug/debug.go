// Package debug provides context-based debug mode with structured logging.
package debug

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type contextKey string

const debugKey contextKey = "debug_enabled"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// NewLogger builds a console logger on w. Debug mode logs at debug level;
// otherwise only warnings and errors are written.
func NewLogger(w io.Writer, debugEnabled bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.WarnLevel
	if debugEnabled {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// WithLogger attaches a logger for w to ctx and records the debug flag.
// Code that logs retrieves it with zerolog.Ctx.
func WithLogger(ctx context.Context, w io.Writer, debugEnabled bool) context.Context {
	logger := NewLogger(w, debugEnabled)
	return logger.WithContext(WithDebug(ctx, debugEnabled))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
