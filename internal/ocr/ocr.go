// Package ocr holds helpers shared by the OCR engines. Engines live in
// subpackages so that the cgo-backed Tesseract binding is only linked by
// binaries that select it.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// EncodePNG encodes img losslessly for engines that take encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
