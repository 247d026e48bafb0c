package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_ObservePage(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPipeline(reg)
	require.NoError(t, err)

	p.ObservePage("tesseract", 200*time.Millisecond, nil)
	p.ObservePage("tesseract", time.Second, nil)
	p.ObservePage("tesseract", time.Second, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(p.pagesProcessed.WithLabelValues("tesseract", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.pagesProcessed.WithLabelValues("tesseract", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(p.ocrDuration))
}

func TestPipeline_Outcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPipeline(reg)
	require.NoError(t, err)

	p.ObserveTranscript("ok")
	p.ObserveTranscript("document_format")
	p.ObserveSynthesis("google", "fr", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(p.transcripts.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.transcripts.WithLabelValues("document_format")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.synthesis.WithLabelValues("google", "fr", "ok")))
}

func TestPipeline_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPipeline(reg)
	require.NoError(t, err)

	_, err = NewPipeline(reg)
	assert.Error(t, err)
}

func TestPipeline_NilIsNoop(t *testing.T) {
	var p *Pipeline
	assert.NotPanics(t, func() {
		p.ObservePage("gemini", time.Second, nil)
		p.ObserveTranscript("ok")
		p.ObserveSynthesis("openai", "en", "ok")
	})
}
