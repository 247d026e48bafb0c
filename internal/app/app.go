package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"pdfnarrator/internal/config"
	"pdfnarrator/internal/metrics"
	"pdfnarrator/internal/model"
	"pdfnarrator/internal/pipeline"
	"pdfnarrator/internal/service"
	"pdfnarrator/internal/storage"
)

// Options tunes Build beyond what AppConfig carries.
type Options struct {
	Logger *slog.Logger
	// Registerer receives pipeline metrics. Nil disables them.
	Registerer prometheus.Registerer
	// Source overrides the MinIO source built from cfg.MinIO.
	Source storage.Source
	// MaxDocumentBytes caps document reads. Zero means no limit.
	MaxDocumentBytes int64
}

// Components is a wired TranscriptService plus everything that must be released with it.
type Components struct {
	Service service.TranscriptService
	closers []io.Closer
}

// Close releases OCR and speech clients.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	return errors.Join(errs...)
}

// Build selects OCR and speech capabilities from cfg and wires the service.
// An unknown engine or provider name is an error. A known speech provider that
// cannot be initialized does not stop extraction; narration requests then fail
// with pipeline.ErrSynthesis.
func Build(ctx context.Context, cfg *config.AppConfig, opts Options) (*Components, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var m *metrics.Pipeline
	if opts.Registerer != nil {
		var err error
		if m, err = metrics.NewPipeline(opts.Registerer); err != nil {
			return nil, fmt.Errorf("register pipeline metrics: %w", err)
		}
	}

	rec, recCloser, err := NewRecognizer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := &Components{closers: []io.Closer{recCloser}}

	synth, synthCloser, err := NewSynthesizer(ctx, cfg)
	if errors.Is(err, ErrUnknownCapability) {
		c.Close()
		return nil, err
	}
	if err != nil {
		logger.Warn("speech provider unavailable", "provider", cfg.ResolveSpeechProvider(), "error", err)
		synth, synthCloser = unavailableSynthesizer{name: cfg.ResolveSpeechProvider(), err: err}, nopCloser{}
	}
	c.closers = append(c.closers, synthCloser)

	src := opts.Source
	if src == nil && cfg.MinIO.Enabled() {
		if src, err = storage.NewMinIO(cfg.MinIO); err != nil {
			c.Close()
			return nil, fmt.Errorf("init object source: %w", err)
		}
	}

	builder := pipeline.NewBuilder(rec,
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithPageObserver(m),
	)

	svcOpts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithMaxDocumentBytes(opts.MaxDocumentBytes),
	}
	if src != nil {
		svcOpts = append(svcOpts, service.WithSource(src))
	}
	c.Service = service.NewTranscriptService(NewLoader(cfg), builder, pipeline.NewNarrator(synth), svcOpts...)

	logger.Info("pipeline ready",
		"ocr_engine", rec.Name(),
		"ocr_detail", engineDetail(rec),
		"speech_provider", synth.Name(),
		"workers", cfg.Pipeline.Workers,
		"dpi", cfg.Pipeline.DPI,
		"object_source", src != nil,
	)
	return c, nil
}

// engineDetail is the Tesseract version or the Gemini model name.
func engineDetail(rec pipeline.Recognizer) string {
	switch r := rec.(type) {
	case interface{ Version() string }:
		return r.Version()
	case interface{ Model() string }:
		return r.Model()
	default:
		return ""
	}
}

// unavailableSynthesizer stands in for a provider whose client failed to start.
type unavailableSynthesizer struct {
	name string
	err  error
}

func (u unavailableSynthesizer) Name() string { return u.name }

func (u unavailableSynthesizer) Synthesize(context.Context, string, model.Language, bool) ([]byte, error) {
	return nil, u.err
}
