package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline holds the collectors for extraction and synthesis runs.
// A nil *Pipeline is valid and records nothing.
type Pipeline struct {
	pagesProcessed *prometheus.CounterVec
	ocrDuration    *prometheus.HistogramVec
	transcripts    *prometheus.CounterVec
	synthesis      *prometheus.CounterVec
}

// NewPipeline creates the collectors and registers them with reg.
func NewPipeline(reg prometheus.Registerer) (*Pipeline, error) {
	p := &Pipeline{
		pagesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdfnarrator_pages_processed_total",
				Help: "Pages passed through OCR, by engine and result.",
			},
			[]string{"engine", "result"},
		),
		ocrDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pdfnarrator_ocr_duration_seconds",
				Help:    "Time spent recognizing a single page.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"engine"},
		),
		transcripts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdfnarrator_transcripts_total",
				Help: "Extraction runs, by result (ok or the error kind).",
			},
			[]string{"result"},
		),
		synthesis: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdfnarrator_synthesis_total",
				Help: "Speech synthesis requests, by provider, language and result.",
			},
			[]string{"provider", "language", "result"},
		),
	}

	for _, c := range []prometheus.Collector{p.pagesProcessed, p.ocrDuration, p.transcripts, p.synthesis} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ObservePage records one OCR call.
func (p *Pipeline) ObservePage(engine string, d time.Duration, err error) {
	if p == nil {
		return
	}
	p.pagesProcessed.WithLabelValues(engine, result(err)).Inc()
	p.ocrDuration.WithLabelValues(engine).Observe(d.Seconds())
}

// ObserveTranscript records the outcome of an extraction run.
func (p *Pipeline) ObserveTranscript(outcome string) {
	if p == nil {
		return
	}
	p.transcripts.WithLabelValues(outcome).Inc()
}

// ObserveSynthesis records the outcome of a synthesis request.
func (p *Pipeline) ObserveSynthesis(provider, language, outcome string) {
	if p == nil {
		return
	}
	p.synthesis.WithLabelValues(provider, language, outcome).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
