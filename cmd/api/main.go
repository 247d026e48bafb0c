package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfnarrator/docs"
	"pdfnarrator/internal/app"
	"pdfnarrator/internal/config"
	handlers "pdfnarrator/internal/http/handler"
	"pdfnarrator/internal/http/middleware"
	"pdfnarrator/internal/otel"
)

// @title PDF Narrator API
// @version 1.0
// @description OCR transcripts of scanned PDFs and on-demand MP3 narration.
// @BasePath /
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// run owns every resource of the server, so its deferred cleanup always runs
// before main exits.
func run(logger *slog.Logger) error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	maxBytes := int64(cfg.MaxUploadMB) << 20

	// OCR engine, speech provider and optional MinIO source, chosen by configuration
	components, err := app.Build(ctx, cfg, app.Options{
		Logger:           logger,
		Registerer:       prometheus.DefaultRegisterer,
		MaxDocumentBytes: maxBytes,
	})
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer components.Close()

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(maxBytes) + 1<<20, // multipart overhead
		ReadTimeout:  cfg.Pipeline.Timeout,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	fiberApp.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	fiberApp.Use(middleware.Logger())
	fiberApp.Use(otelfiber.Middleware())
	fiberApp.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(fiberApp, components.Service, handlers.RouteOptions{
		PipelineTimeout: cfg.Pipeline.Timeout,
		SpeechTimeout:   cfg.Speech.Timeout,
	})

	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	fiberApp.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = fiberApp.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "host", cfg.AppHost)
	if err := fiberApp.Listen(addr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}
