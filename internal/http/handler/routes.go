package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pdfnarrator/internal/service"
)

// RouteOptions carries per-route deadlines.
type RouteOptions struct {
	PipelineTimeout time.Duration
	SpeechTimeout   time.Duration
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; all pipeline work happens in the service.
func RegisterRoutes(app *fiber.App, svc service.TranscriptService, opts RouteOptions) {
	app.Get("/", Index())

	app.Get("/health", HealthCheck(svc))
	app.Get("/healthz", LivenessProbe())

	app.Get("/languages", ListLanguages())

	// Extraction never triggers synthesis; /speech is the only way to get audio.
	app.Post("/transcripts", CreateTranscript(svc, opts.PipelineTimeout))
	app.Post("/transcripts/stream", StreamTranscript(svc, opts.PipelineTimeout))
	app.Post("/transcripts/object", CreateTranscriptFromObject(svc, opts.PipelineTimeout))

	app.Post("/speech", Synthesize(svc, opts.SpeechTimeout))
}
