package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"pdfnarrator/internal/model"
	"pdfnarrator/internal/service"
)

// SpeechRequest is the body of POST /speech. Text is whatever the client
// holds, which may be an edited transcript.
type SpeechRequest struct {
	Text     string `json:"text" form:"text"`
	Language string `json:"language" form:"language"`
	Slow     bool   `json:"slow" form:"slow"`
}

// LanguagesResponse lists the languages accepted by POST /speech.
type LanguagesResponse struct {
	Languages []model.Language `json:"languages"`
	Default   model.Language   `json:"default"`
}

// Synthesize godoc
// @Summary Convert transcript text to MP3 speech
// @Tags speech
// @Accept json
// @Produce audio/mpeg
// @Param request body SpeechRequest true "Text and language"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /speech [post]
func Synthesize(svc service.TranscriptService, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SpeechRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Language == "" {
			req.Language = string(model.DefaultLanguage)
		}

		ctx, cancel := withTimeout(c.UserContext(), timeout)
		defer cancel()

		clip, err := svc.Narrate(ctx, req.Text, req.Language, req.Slow)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, clip.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", clip.Filename))
		c.Set("X-Speech-Provider", clip.Provider)
		return c.Status(fiber.StatusOK).Send(clip.Data)
	}
}

// ListLanguages godoc
// @Summary List supported speech languages
// @Tags speech
// @Produce json
// @Success 200 {object} LanguagesResponse
// @Router /languages [get]
func ListLanguages() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(LanguagesResponse{
			Languages: model.Languages(),
			Default:   model.DefaultLanguage,
		})
	}
}
