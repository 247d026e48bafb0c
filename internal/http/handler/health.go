package handler

import (
	"github.com/gofiber/fiber/v2"

	"pdfnarrator/internal/service"
)

// HealthCheck reports which OCR engine and speech provider this instance runs with.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func HealthCheck(svc service.TranscriptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caps := svc.Capabilities()
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":          "healthy",
			"ocr_engine":      caps.OCREngine,
			"speech_provider": caps.SpeechProvider,
			"object_source":   caps.ObjectSource,
		})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
