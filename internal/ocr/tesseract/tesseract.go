// Package tesseract recognizes page images with a local Tesseract install.
package tesseract

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"pdfnarrator/internal/ocr"
)

// Engine runs Tesseract through gosseract. A fresh client is created per
// call, so Engine is safe for concurrent use.
type Engine struct {
	languages []string
}

// New returns a Tesseract engine using the given trained-data languages
// (e.g. "eng", "deu"). No languages means Tesseract's default.
func New(languages ...string) *Engine {
	return &Engine{languages: languages}
}

func (e *Engine) Name() string { return "tesseract" }

// Version reports the linked Tesseract version.
func (e *Engine) Version() string { return gosseract.Version() }

// Recognize returns the plain text Tesseract finds in img.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := ocr.EncodePNG(img)
	if err != nil {
		return "", err
	}

	c := gosseract.NewClient()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
