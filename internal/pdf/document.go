// Package pdf opens uploaded PDFs and renders their pages to bitmaps.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdfnarrator/internal/model"
	"pdfnarrator/internal/pipeline"
)

// DefaultDPI matches the default pixmap resolution of common PDF renderers.
const DefaultDPI = 72

// Loader validates raw bytes as a PDF and opens them for rendering.
type Loader struct {
	dpi float64
}

// NewLoader returns a Loader rendering at dpi. Non-positive values use DefaultDPI.
func NewLoader(dpi float64) *Loader {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Loader{dpi: dpi}
}

// DPI returns the rendering resolution.
func (l *Loader) DPI() float64 { return l.dpi }

// Open parses data and returns the opened document. The caller owns the
// document and must Close it. Errors wrap pipeline.ErrDocumentFormat.
func (l *Loader) Open(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", pipeline.ErrDocumentFormat)
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrDocumentFormat, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: document has no pages", pipeline.ErrDocumentFormat)
	}

	fd, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: open for rendering: %v", pipeline.ErrDocumentFormat, err)
	}

	return &Document{fd: fd, dpi: l.dpi, pages: fd.NumPage()}, nil
}

// Document is an opened PDF. Rendering is serialized because the underlying
// MuPDF context is not goroutine-safe.
type Document struct {
	mu     sync.Mutex
	fd     *fitz.Document
	dpi    float64
	pages  int
	closed bool
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

// Pages returns one handle per page in document order.
func (d *Document) Pages() []model.PageHandle {
	handles := make([]model.PageHandle, d.pages)
	for i := range handles {
		handles[i] = model.NewPageHandle(d, i)
	}
	return handles
}

// Rasterize renders page index (0-based) at the loader's DPI.
func (d *Document) Rasterize(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= d.pages {
		return nil, fmt.Errorf("page index %d out of range [0,%d)", index, d.pages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, fmt.Errorf("document is closed")
	}
	img, err := d.fd.ImageDPI(index, d.dpi)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return img, nil
}

// Close releases the native document. It is safe to call more than once.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.fd.Close()
}
