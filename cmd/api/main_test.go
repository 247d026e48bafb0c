package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"pdfnarrator/internal/app"
)

func TestRun_ReturnsStartupError(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")
	t.Setenv("OCR_ENGINE", "tesserect")
	t.Setenv("MINIO_ENDPOINT", "")

	var logs bytes.Buffer
	err := run(slog.New(slog.NewJSONHandler(&logs, nil)))

	assert.ErrorIs(t, err, app.ErrUnknownCapability)
	assert.ErrorContains(t, err, "initialize pipeline")
	assert.Contains(t, logs.String(), "tracing_configured")
}
