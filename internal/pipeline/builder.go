package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pdfnarrator/internal/model"
)

// Recognizer turns a page bitmap into plain text.
// Implementations must be safe for concurrent use when the builder runs with
// more than one worker.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Progress is emitted once per recognized page.
type Progress struct {
	Page      int `json:"page"`      // 1-based page that just finished
	Completed int `json:"completed"` // pages finished so far
	Total     int `json:"total"`
}

// Message renders p the way it is shown to users.
func (p Progress) Message() string {
	return fmt.Sprintf("Processed page %d/%d", p.Completed, p.Total)
}

// ProgressFunc receives progress notifications. Calls are serialized.
type ProgressFunc func(Progress)

// PageObserver is notified after every OCR call.
type PageObserver interface {
	ObservePage(engine string, d time.Duration, err error)
}

// Builder assembles a transcript by running OCR over every page of a document.
type Builder struct {
	recognizer Recognizer
	workers    int
	observer   PageObserver
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWorkers bounds the number of concurrent OCR calls. Values below 1 mean 1.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n < 1 {
			n = 1
		}
		b.workers = n
	}
}

// WithPageObserver registers an observer for per-page OCR results.
func WithPageObserver(o PageObserver) BuilderOption {
	return func(b *Builder) { b.observer = o }
}

// NewBuilder returns a Builder using r for recognition.
func NewBuilder(r Recognizer, opts ...BuilderOption) *Builder {
	b := &Builder{recognizer: r, workers: 1}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Engine returns the name of the OCR capability in use.
func (b *Builder) Engine() string { return b.recognizer.Name() }

// Build rasterizes pages in order and recognizes them on up to b.workers
// goroutines. Results are merged by position, so the transcript is the same
// as with sequential processing. The first failure aborts the run and no
// partial transcript is returned.
func (b *Builder) Build(ctx context.Context, pages []model.PageHandle, progress ProgressFunc) (*model.Transcript, error) {
	if progress == nil {
		progress = func(Progress) {}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	total := len(pages)
	texts := make([]string, total)

	var (
		mu        sync.Mutex
		completed int
		rasterErr *PageError
	)

	for i, page := range pages {
		if gctx.Err() != nil {
			break
		}
		img, err := page.Rasterize(gctx)
		if err != nil {
			if gctx.Err() != nil {
				break
			}
			rasterErr = &PageError{Page: page.Number(), Kind: ErrRasterization, Err: err}
			cancel()
			break
		}

		g.Go(func() error {
			text, err := b.recognize(gctx, img)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				return &PageError{Page: page.Number(), Kind: ErrOCREngine, Err: err}
			}
			texts[i] = text

			mu.Lock()
			defer mu.Unlock()
			completed++
			progress(Progress{Page: page.Number(), Completed: completed, Total: total})
			return nil
		})
	}

	werr := g.Wait()
	if rasterErr != nil {
		var pe *PageError
		if errors.As(werr, &pe) && pe.Page < rasterErr.Page {
			return nil, werr
		}
		return nil, rasterErr
	}
	if werr != nil {
		return nil, werr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &model.Transcript{Pages: make([]model.PageText, total)}
	for i, page := range pages {
		out.Pages[i] = model.PageText{Index: page.Index, Text: texts[i]}
	}
	return out, nil
}

func (b *Builder) recognize(ctx context.Context, img image.Image) (string, error) {
	start := time.Now()
	text, err := b.recognizer.Recognize(ctx, img)
	if b.observer != nil {
		b.observer.ObservePage(b.recognizer.Name(), time.Since(start), err)
	}
	return text, err
}
