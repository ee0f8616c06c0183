package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New()
	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected logger to be enabled")
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	output := buf.String()
	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", output)
	}
}

func TestWithUser(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	scoped := WithUser(log, "user-123")
	scoped.Info().Msg("scoped")

	output := buf.String()
	if !strings.Contains(output, "user_id") || !strings.Contains(output, "user-123") {
		t.Errorf("Expected output to contain user_id field, got: %s", output)
	}
}

func TestWithContext(t *testing.T) {
	log := New()
	ctx := WithContext(context.Background(), log)

	if ctx.Value(LoggerKey) == nil {
		t.Error("Expected logger in context, got nil")
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	testLog := NewWithWriter(buf)
	ctx := WithContext(context.Background(), testLog)

	retrievedLog := FromContext(ctx)
	retrievedLog.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())

	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected default logger to be enabled")
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	fields := map[string]interface{}{
		"record_id": "rec-9",
		"action":    "toggle",
	}

	fieldLog := WithFields(log, fields)
	fieldLog.Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "record_id") || !strings.Contains(output, "rec-9") {
		t.Errorf("Expected output to contain record_id field, got: %s", output)
	}
	if !strings.Contains(output, "action") || !strings.Contains(output, "toggle") {
		t.Errorf("Expected output to contain action field, got: %s", output)
	}
}
