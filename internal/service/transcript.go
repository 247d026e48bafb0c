package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pdfnarrator/internal/metrics"
	"pdfnarrator/internal/model"
	"pdfnarrator/internal/pipeline"
	"pdfnarrator/internal/storage"
)

var (
	ErrReaderNil         = errors.New("reader is nil")
	ErrKeyRequired       = errors.New("object key is required")
	ErrSourceUnavailable = errors.New("object source is not configured")
	ErrDocumentTooLarge  = errors.New("document exceeds size limit")
)

var tracer = otel.Tracer("pdfnarrator/internal/service")

// Document is an opened PDF owned by a single extraction run.
type Document interface {
	PageCount() int
	Pages() []model.PageHandle
	Close() error
}

// DocumentLoader opens raw PDF bytes. Errors wrap pipeline.ErrDocumentFormat.
type DocumentLoader interface {
	Open(ctx context.Context, data []byte) (Document, error)
}

// Capabilities names the external collaborators in use.
type Capabilities struct {
	OCREngine      string `json:"ocr_engine"`
	SpeechProvider string `json:"speech_provider"`
	ObjectSource   bool   `json:"object_source"`
}

// TranscriptService defines the use cases of the application.
type TranscriptService interface {
	// Extract reads a PDF from r, runs OCR over every page and returns the transcript.
	// progress is called once per page and may be nil.
	Extract(ctx context.Context, r io.Reader, filename string, progress pipeline.ProgressFunc) (*model.TranscriptResult, error)

	// ExtractObject does the same as Extract for a PDF stored under key in the object source.
	ExtractObject(ctx context.Context, key string, progress pipeline.ProgressFunc) (*model.TranscriptResult, error)

	// Narrate synthesizes MP3 speech for text. It is never called by Extract.
	Narrate(ctx context.Context, text string, language string, slow bool) (*model.AudioClip, error)

	Capabilities() Capabilities
}

// transcriptService is a concrete implementation of TranscriptService.
type transcriptService struct {
	loader   DocumentLoader
	builder  *pipeline.Builder
	narrator *pipeline.Narrator
	source   storage.Source
	metrics  *metrics.Pipeline
	logger   *slog.Logger
	maxBytes int64
	now      func() time.Time
}

// Option configures the service.
type Option func(*transcriptService)

// WithSource enables ExtractObject.
func WithSource(src storage.Source) Option {
	return func(s *transcriptService) { s.source = src }
}

// WithMetrics records run outcomes to m.
func WithMetrics(m *metrics.Pipeline) Option {
	return func(s *transcriptService) { s.metrics = m }
}

// WithLogger overrides slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *transcriptService) { s.logger = l }
}

// WithMaxDocumentBytes caps how much of a document is read. Zero means no limit.
func WithMaxDocumentBytes(n int64) Option {
	return func(s *transcriptService) { s.maxBytes = n }
}

// NewTranscriptService constructs a new TranscriptService.
func NewTranscriptService(loader DocumentLoader, builder *pipeline.Builder, narrator *pipeline.Narrator, opts ...Option) TranscriptService {
	s := &transcriptService{
		loader:   loader,
		builder:  builder,
		narrator: narrator,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *transcriptService) Capabilities() Capabilities {
	return Capabilities{
		OCREngine:      s.builder.Engine(),
		SpeechProvider: s.narrator.Provider(),
		ObjectSource:   s.source != nil,
	}
}

func (s *transcriptService) Extract(ctx context.Context, r io.Reader, filename string, progress pipeline.ProgressFunc) (*model.TranscriptResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	id := uuid.NewString()
	ctx, span := tracer.Start(ctx, "TranscriptService.Extract", trace.WithAttributes(
		attribute.String("transcript.id", id),
		attribute.String("document.filename", filename),
	))
	defer span.End()

	log := s.logger.With("transcript_id", id, "filename", filename)

	res, err := s.extract(ctx, id, r, filename, progress, log)
	s.metrics.ObserveTranscript(pipeline.Kind(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, pipeline.Kind(err))
		log.Error("extraction failed", "kind", pipeline.Kind(err), "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("document.pages", res.PageCount))
	log.Info("extraction complete", "pages", res.PageCount, "engine", res.Engine, "chars", len(res.Text))
	return res, nil
}

func (s *transcriptService) extract(ctx context.Context, id string, r io.Reader, filename string, progress pipeline.ProgressFunc, log *slog.Logger) (*model.TranscriptResult, error) {
	run := model.NewRun()

	data, err := s.readAll(r)
	if err != nil {
		run.Fail()
		return nil, err
	}

	doc, err := s.loader.Open(ctx, data)
	if err != nil {
		run.Fail()
		return nil, err
	}
	defer doc.Close()

	if err := run.Advance(model.StateLoaded); err != nil {
		return nil, err
	}
	total := doc.PageCount()
	log.Info("document loaded", "pages", total, "bytes", len(data))

	onPage := func(p pipeline.Progress) {
		// Builder serializes progress calls, so run is not shared concurrently.
		_ = run.EnterPage(p.Page)
		log.Debug(p.Message(), "page", p.Page)
		if progress != nil {
			progress(p)
		}
	}

	transcript, err := s.builder.Build(ctx, doc.Pages(), onPage)
	if err != nil {
		run.Fail()
		return nil, err
	}
	if err := run.Advance(model.StateTranscriptReady); err != nil {
		return nil, err
	}

	return &model.TranscriptResult{
		ID:        id,
		Filename:  filename,
		PageCount: total,
		Engine:    s.builder.Engine(),
		Text:      transcript.String(),
		Pages:     transcript.Pages,
		State:     run.State(),
		CreatedAt: s.now().UTC(),
	}, nil
}

func (s *transcriptService) readAll(r io.Reader) ([]byte, error) {
	if s.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrDocumentTooLarge
	}
	return data, nil
}

func (s *transcriptService) ExtractObject(ctx context.Context, key string, progress pipeline.ProgressFunc) (*model.TranscriptResult, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if s.source == nil {
		return nil, ErrSourceUnavailable
	}

	rc, info, err := s.source.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer rc.Close()

	s.logger.Info("reading document from object source", "key", key, "size", info.Size)
	return s.Extract(ctx, rc, path.Base(key), progress)
}

func (s *transcriptService) Narrate(ctx context.Context, text string, language string, slow bool) (*model.AudioClip, error) {
	provider := s.narrator.Provider()
	ctx, span := tracer.Start(ctx, "TranscriptService.Narrate", trace.WithAttributes(
		attribute.String("speech.provider", provider),
		attribute.String("speech.language", language),
		attribute.Int("speech.chars", len(text)),
	))
	defer span.End()

	run := model.NewRunAt(model.StateTranscriptReady)
	clip, err := s.narrate(ctx, run, text, language, slow)

	label := "unsupported"
	if l, ok := model.ParseLanguage(language); ok {
		label = string(l)
	}
	s.metrics.ObserveSynthesis(provider, label, pipeline.Kind(err))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, pipeline.Kind(err))
		s.logger.Error("synthesis failed", "provider", provider, "language", language, "kind", pipeline.Kind(err), "error", err)
		return nil, err
	}
	s.logger.Info("synthesis complete", "provider", provider, "language", language, "bytes", len(clip.Data), "state", run.State())
	return clip, nil
}

func (s *transcriptService) narrate(ctx context.Context, run *model.Run, text string, language string, slow bool) (*model.AudioClip, error) {
	lang, ok := model.ParseLanguage(language)
	if !ok {
		// Let the narrator reject it so the error carries ErrSynthesis.
		lang = model.Language(language)
	}
	if err := run.Advance(model.StateSynthesizing); err != nil {
		return nil, err
	}
	clip, err := s.narrator.Narrate(ctx, text, lang, slow)
	if err != nil {
		run.Fail()
		return nil, err
	}
	if err := run.Advance(model.StateAudioReady); err != nil {
		return nil, err
	}
	return clip, nil
}
