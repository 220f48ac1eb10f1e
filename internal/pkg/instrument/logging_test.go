package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestHandler_CorrelationAndService(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "opcode-profile", nil, nil))
	ctx := SetCorrelationID(context.Background(), "cid-123")

	// Act
	logger.InfoContext(ctx, "profile updated", "user_id", 7)

	// Assert
	line := decodeLine(t, buf)
	assert.Equal(t, "cid-123", line["_cID"])
	assert.Equal(t, "opcode-profile", line["service"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "ts")
}

func TestHandler_MasksConfiguredKeys(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "svc", nil, []string{" Authorization ", "token"}))

	// Act
	logger.Info("outbound call",
		"authorization", "Bearer abc",
		"body", `{"token":"secret","slack_id":"U123"}`,
		"headers", map[string]string{"Token": "x", "Accept": "json"},
	)

	// Assert
	line := decodeLine(t, buf)
	assert.Equal(t, maskedValue, line["authorization"])
	assert.JSONEq(t, `{"token":"***","slack_id":"U123"}`, line["body"].(string))
	assert.Equal(t, map[string]any{"Token": maskedValue, "Accept": "json"}, line["headers"])
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "abc", GetCorrelationID(SetCorrelationID(context.Background(), "abc")))
}

func TestNewNoop(t *testing.T) {
	ins, err := New(context.Background(), nil)
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "noop")
	span.End()

	assert.NoError(t, ins.Shutdown(context.Background()))
}
