package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestContextualLogger_LogResult(t *testing.T) {
	var buf bytes.Buffer
	l := NewServiceLogger(slog.New(slog.NewJSONHandler(&buf, nil)), LogConfig{Service: "valentine", Component: "test"})

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	l.WithOperation(ctx, "generate_link").LogResult("link", nil)
	l.WithOperation(ctx, "generate_link").LogResult("link",
		fmt.Errorf("%w: %w", ErrMissingField, ValidationErrors{{Field: "from", Message: "is required", Rule: "required"}}))

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "generate_link operation success", lines[0]["msg"])
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.Equal(t, "valentine", lines[0]["service"])

	assert.Equal(t, "generate_link operation validation_error", lines[1]["msg"])
	assert.Equal(t, "WARN", lines[1]["level"])
	assert.Equal(t, float64(1), lines[1]["validation_errors_count"])

	assert.Equal(t, "Validation failed", lines[2]["msg"])
}

func TestFormatError(t *testing.T) {
	assert.Nil(t, FormatError(nil))

	f := FormatError(fmt.Errorf("%w: %w", ErrIncompleteQuizDefinition, ValidationErrors{{Field: "quiz[0].a", Rule: "required"}}))
	assert.Equal(t, "validation", f["type"])
	assert.Equal(t, 1, f["count"])

	f = FormatError(&RateLimitError{Limit: 3, RetryAfter: 9})
	assert.Equal(t, "rate_limit", f["type"])

	assert.Equal(t, "invalid_payload", FormatError(fmt.Errorf("x: %w", ErrInvalidPayload))["type"])
	assert.Equal(t, "not_found", FormatError(ErrNoHint)["type"])
	assert.Equal(t, "unknown", FormatError(ErrInternalError)["type"])
}
