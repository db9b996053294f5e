// internal/debug/debug_test.go
package debug

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithDebug(t *testing.T) {
	ctx := WithDebug(context.Background(), true)
	if !IsEnabled(ctx) {
		t.Error("IsEnabled should return true when debug is enabled")
	}
}

func TestIsEnabled_DefaultFalse(t *testing.T) {
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
}

func TestNewLogger_DebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %s, want debug", logger.GetLevel())
	}
	logger.Debug().Str("method", "GET").Msg("request complete")
	if !strings.Contains(buf.String(), "request complete") || !strings.Contains(buf.String(), "method=GET") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestNewLogger_DebugDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output should be suppressed, got %q", buf.String())
	}
	logger.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn output missing: %q", buf.String())
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), &buf, true)

	if !IsEnabled(ctx) {
		t.Error("WithLogger should record the debug flag")
	}
	zerolog.Ctx(ctx).Debug().Msg("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("context logger did not write: %q", buf.String())
	}
}
