package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multillm/survey-stack/common/middleware"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo, "json").With(Service("submissions"))

	logger.Info("stored", SubmissionID(7))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "stored", line["msg"])
	assert.Equal(t, "submissions", line[FieldService])
	assert.Equal(t, float64(7), line[FieldSubmissionID])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelWarn, "text")

	logger.Info("hidden")
	logger.Warn("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo, "json")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-123")
	logger.InfoContext(ctx, "with id")
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)

	buf.Reset()
	logger.InfoContext(context.Background(), "without id")
	assert.NotContains(t, buf.String(), FieldRequestID)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.NotNil(t, logger)
	logger.Error("dropped")
}
