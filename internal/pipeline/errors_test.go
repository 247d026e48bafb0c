package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageError_Is(t *testing.T) {
	cause := errors.New("bad xref")
	err := fmt.Errorf("build: %w", &PageError{Page: 4, Kind: ErrRasterization, Err: cause})

	assert.ErrorIs(t, err, ErrRasterization)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrOCREngine)
	assert.EqualError(t, err, "build: page 4: rasterization error: bad xref")
}

func TestRemediation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"format", fmt.Errorf("%w: eof", ErrDocumentFormat), "The upload could not be read as a PDF. Check that the file is a valid, unencrypted PDF."},
		{"raster page", &PageError{Page: 7, Kind: ErrRasterization, Err: errors.New("x")}, "Page 7 could not be rendered. The PDF may be corrupt; try re-exporting it."},
		{"raster no page", ErrRasterization, "A page could not be rendered. The PDF may be corrupt; try re-exporting it."},
		{"ocr", &PageError{Page: 1, Kind: ErrOCREngine, Err: errors.New("x")}, "Text recognition failed. Verify the Tesseract OCR engine is installed (https://github.com/tesseract-ocr/tesseract) or that the Gemini API key is valid."},
		{"language", fmt.Errorf("%w: %w", ErrSynthesis, ErrUnsupportedLanguage), "Choose one of: en, es, fr, de, hi."},
		{"empty", ErrEmptyTranscript, "Extract text from a PDF before requesting speech."},
		{"synthesis", fmt.Errorf("%w: timeout", ErrSynthesis), "Speech synthesis failed. Check network connectivity and speech provider credentials."},
		{"other", errors.New("boom"), "An unexpected error occurred. Try again with a different file."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Remediation(tt.err))
		})
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "document_format", Kind(ErrDocumentFormat))
	assert.Equal(t, "rasterization", Kind(&PageError{Page: 1, Kind: ErrRasterization, Err: errors.New("x")}))
	assert.Equal(t, "ocr_engine", Kind(&PageError{Page: 1, Kind: ErrOCREngine, Err: errors.New("x")}))
	assert.Equal(t, "unsupported_language", Kind(fmt.Errorf("%w: %w", ErrSynthesis, ErrUnsupportedLanguage)))
	assert.Equal(t, "empty_transcript", Kind(ErrEmptyTranscript))
	assert.Equal(t, "synthesis", Kind(ErrSynthesis))
	assert.Equal(t, "timeout", Kind(fmt.Errorf("wait: %w", context.DeadlineExceeded)))
	assert.Equal(t, "canceled", Kind(context.Canceled))
	assert.Equal(t, "error", Kind(errors.New("boom")))
}
