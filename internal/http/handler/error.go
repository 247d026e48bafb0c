package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"pdfnarrator/internal/http/middleware"
	"pdfnarrator/internal/pipeline"
	"pdfnarrator/internal/service"
	"pdfnarrator/internal/storage"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "DOCUMENT_FORMAT", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorHint(c, status, code, message, "")
}

func writeErrorHint(c *fiber.Ctx, status int, code, message, hint string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Hint:    hint,
		},
	}
	return c.Status(status).JSON(res)
}

// classify maps a service or pipeline error to an HTTP status and a safe envelope.
// Each pipeline error kind gets its own remediation hint.
func classify(err error) (int, errorEnvelope) {
	hint := pipeline.Remediation(err)
	switch {
	case errors.Is(err, service.ErrReaderNil):
		return fiber.StatusBadRequest, errorEnvelope{Code: "FILE_REQUIRED", Message: "file is required"}
	case errors.Is(err, service.ErrKeyRequired):
		return fiber.StatusBadRequest, errorEnvelope{Code: "KEY_REQUIRED", Message: "object key is required"}
	case errors.Is(err, service.ErrSourceUnavailable):
		return fiber.StatusServiceUnavailable, errorEnvelope{Code: "SOURCE_UNAVAILABLE", Message: "object source is not configured"}
	case errors.Is(err, storage.ErrObjectNotFound):
		return fiber.StatusNotFound, errorEnvelope{Code: "NOT_FOUND", Message: "document not found"}
	case errors.Is(err, service.ErrDocumentTooLarge):
		return fiber.StatusRequestEntityTooLarge, errorEnvelope{Code: "DOCUMENT_TOO_LARGE", Message: "document exceeds size limit"}
	case errors.Is(err, pipeline.ErrDocumentFormat):
		return fiber.StatusUnprocessableEntity, errorEnvelope{Code: "DOCUMENT_FORMAT", Message: "upload is not a readable PDF", Hint: hint}
	case errors.Is(err, pipeline.ErrRasterization):
		return fiber.StatusUnprocessableEntity, errorEnvelope{Code: "RASTERIZATION_FAILED", Message: "a page could not be rendered", Hint: hint}
	case errors.Is(err, pipeline.ErrOCREngine):
		return fiber.StatusBadGateway, errorEnvelope{Code: "OCR_FAILED", Message: "text recognition failed", Hint: hint}
	case errors.Is(err, pipeline.ErrUnsupportedLanguage):
		return fiber.StatusBadRequest, errorEnvelope{Code: "UNSUPPORTED_LANGUAGE", Message: "unsupported language", Hint: hint}
	case errors.Is(err, pipeline.ErrEmptyTranscript):
		return fiber.StatusBadRequest, errorEnvelope{Code: "EMPTY_TRANSCRIPT", Message: "transcript is empty", Hint: hint}
	case errors.Is(err, pipeline.ErrSynthesis):
		return fiber.StatusBadGateway, errorEnvelope{Code: "SYNTHESIS_FAILED", Message: "speech synthesis failed", Hint: hint}
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, errorEnvelope{Code: "TIMEOUT", Message: "processing timed out"}
	default:
		return fiber.StatusInternalServerError, errorEnvelope{Code: "INTERNAL_ERROR", Message: "internal server error"}
	}
}

// writeServiceError translates err with classify and writes the envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	status, env := classify(err)
	return writeErrorHint(c, status, env.Code, env.Message, env.Hint)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "DOCUMENT_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
