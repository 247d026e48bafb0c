package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pdfnarrator/internal/model"
)

var (
	// ErrDocumentFormat means the upload could not be parsed as a PDF.
	ErrDocumentFormat = errors.New("document format error")
	// ErrRasterization means a page could not be rendered to a bitmap.
	ErrRasterization = errors.New("rasterization error")
	// ErrOCREngine means text recognition failed, including a missing engine.
	ErrOCREngine = errors.New("ocr engine error")
	// ErrSynthesis means speech generation failed.
	ErrSynthesis = errors.New("synthesis error")

	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrEmptyTranscript     = errors.New("transcript is empty")
)

// PageError reports a failure on a single page. It matches both Kind and the
// underlying cause with errors.Is.
type PageError struct {
	Page int // 1-based
	Kind error
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v: %v", e.Page, e.Kind, e.Err)
}

func (e *PageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Remediation returns a user-facing hint for err, specific to its kind.
func Remediation(err error) string {
	var pe *PageError
	page := ""
	if errors.As(err, &pe) {
		page = fmt.Sprintf("Page %d ", pe.Page)
	}

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDocumentFormat):
		return "The upload could not be read as a PDF. Check that the file is a valid, unencrypted PDF."
	case errors.Is(err, ErrRasterization):
		if page == "" {
			page = "A page "
		}
		return page + "could not be rendered. The PDF may be corrupt; try re-exporting it."
	case errors.Is(err, ErrOCREngine):
		return "Text recognition failed. Verify the Tesseract OCR engine is installed (https://github.com/tesseract-ocr/tesseract) or that the Gemini API key is valid."
	case errors.Is(err, ErrUnsupportedLanguage):
		return "Choose one of: " + languageList() + "."
	case errors.Is(err, ErrEmptyTranscript):
		return "Extract text from a PDF before requesting speech."
	case errors.Is(err, ErrSynthesis):
		return "Speech synthesis failed. Check network connectivity and speech provider credentials."
	default:
		return "An unexpected error occurred. Try again with a different file."
	}
}

func languageList() string {
	langs := model.Languages()
	codes := make([]string, len(langs))
	for i, l := range langs {
		codes[i] = string(l)
	}
	return strings.Join(codes, ", ")
}

// Kind returns a stable, low-cardinality label for err, suitable for metrics
// and machine-readable error codes.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDocumentFormat):
		return "document_format"
	case errors.Is(err, ErrRasterization):
		return "rasterization"
	case errors.Is(err, ErrOCREngine):
		return "ocr_engine"
	case errors.Is(err, ErrUnsupportedLanguage):
		return "unsupported_language"
	case errors.Is(err, ErrEmptyTranscript):
		return "empty_transcript"
	case errors.Is(err, ErrSynthesis):
		return "synthesis"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
