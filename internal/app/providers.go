// Package app builds the pipeline capabilities selected by configuration.
// It is shared by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"pdfnarrator/internal/config"
	"pdfnarrator/internal/ocr/gemini"
	"pdfnarrator/internal/ocr/tesseract"
	"pdfnarrator/internal/pdf"
	"pdfnarrator/internal/pipeline"
	"pdfnarrator/internal/service"
	"pdfnarrator/internal/speech/googletts"
	"pdfnarrator/internal/speech/openaitts"
)

// ErrUnknownCapability means the configured OCR engine or speech provider name
// is not one this build supports.
var ErrUnknownCapability = errors.New("unknown capability")

// NewRecognizer returns the OCR engine chosen by cfg. The returned closer
// releases engine resources and is never nil.
func NewRecognizer(ctx context.Context, cfg *config.AppConfig) (pipeline.Recognizer, io.Closer, error) {
	switch engine := cfg.ResolveOCREngine(); engine {
	case "gemini":
		e, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("init gemini ocr: %w", err)
		}
		return e, e, nil
	case "tesseract":
		return tesseract.New(cfg.Pipeline.OCRLanguages...), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: ocr engine %q (want auto, tesseract or gemini)", ErrUnknownCapability, engine)
	}
}

// NewSynthesizer returns the speech provider chosen by cfg.
func NewSynthesizer(ctx context.Context, cfg *config.AppConfig) (pipeline.Synthesizer, io.Closer, error) {
	switch provider := cfg.ResolveSpeechProvider(); provider {
	case "openai":
		s, err := openaitts.New(cfg.Speech.OpenAIAPIKey, cfg.Speech.OpenAIBaseURL, cfg.Speech.OpenAIModel, cfg.Speech.OpenAIVoice)
		if err != nil {
			return nil, nil, fmt.Errorf("init openai speech: %w", err)
		}
		return s, nopCloser{}, nil
	case "google":
		s, err := googletts.New(ctx, cfg.Speech.GoogleAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("init google speech: %w", err)
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("%w: speech provider %q (want auto, google or openai)", ErrUnknownCapability, provider)
	}
}

// NewLoader adapts the PDF loader to the service contract.
func NewLoader(cfg *config.AppConfig) service.DocumentLoader {
	return pdfLoader{l: pdf.NewLoader(cfg.Pipeline.DPI)}
}

type pdfLoader struct {
	l *pdf.Loader
}

func (p pdfLoader) Open(ctx context.Context, data []byte) (service.Document, error) {
	doc, err := p.l.Open(ctx, data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
