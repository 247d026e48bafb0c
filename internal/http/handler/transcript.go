package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"pdfnarrator/internal/model"
	"pdfnarrator/internal/pipeline"
	"pdfnarrator/internal/service"
)

const pdfContentType = "application/pdf"

// ObjectRequest is the body of POST /transcripts/object.
type ObjectRequest struct {
	Key string `json:"key"`
}

// StreamEvent is one NDJSON line written by POST /transcripts/stream.
type StreamEvent struct {
	Type       string                  `json:"type"`
	Page       int                     `json:"page,omitempty"`
	Completed  int                     `json:"completed,omitempty"`
	Total      int                     `json:"total,omitempty"`
	Message    string                  `json:"message,omitempty"`
	Transcript *model.TranscriptResult `json:"transcript,omitempty"`
	RequestID  string                  `json:"request_id,omitempty"`
	Error      *errorEnvelope          `json:"error,omitempty"`
}

// isPDFUpload accepts a part named *.pdf or declared as application/pdf.
func isPDFUpload(fh *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return true
	}
	ct := strings.ToLower(fh.Header.Get("Content-Type"))
	return strings.HasPrefix(ct, pdfContentType)
}

// pdfFormFile returns the uploaded "file" part or writes the error response.
func pdfFormFile(c *fiber.Ctx) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	if !isPDFUpload(fh) {
		return nil, writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "only PDF uploads are accepted")
	}
	return fh, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// CreateTranscript godoc
// @Summary Extract a transcript from a PDF
// @Tags transcripts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Success 201 {object} model.TranscriptResult
// @Failure 400 {object} errorPayload
// @Failure 415 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /transcripts [post]
func CreateTranscript(svc service.TranscriptService, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := pdfFormFile(c)
		if fh == nil {
			return err
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ctx, cancel := withTimeout(c.UserContext(), timeout)
		defer cancel()

		res, err := svc.Extract(ctx, f, fh.Filename, nil)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// CreateTranscriptFromObject godoc
// @Summary Extract a transcript from a PDF in the object store
// @Tags transcripts
// @Accept json
// @Produce json
// @Param request body ObjectRequest true "Object key"
// @Success 201 {object} model.TranscriptResult
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /transcripts/object [post]
func CreateTranscriptFromObject(svc service.TranscriptService, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ObjectRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		ctx, cancel := withTimeout(c.UserContext(), timeout)
		defer cancel()

		res, err := svc.ExtractObject(ctx, strings.TrimSpace(req.Key), nil)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// StreamTranscript godoc
// @Summary Extract a transcript and stream per-page progress
// @Description Responds with newline-delimited JSON: progress events, then one transcript or error event.
// @Tags transcripts
// @Accept multipart/form-data
// @Produce application/x-ndjson
// @Param file formData file true "PDF document"
// @Success 200 {object} StreamEvent
// @Router /transcripts/stream [post]
func StreamTranscript(svc service.TranscriptService, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := pdfFormFile(c)
		if fh == nil {
			return err
		}

		// The multipart form does not outlive the handler, so buffer the upload first.
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}

		filename := fh.Filename
		requestID := requestIDFromCtx(c)
		parent := context.WithoutCancel(c.UserContext())

		c.Set(fiber.HeaderContentType, "application/x-ndjson")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Status(fiber.StatusOK)
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ctx, cancel := withTimeout(parent, timeout)
			defer cancel()

			enc := json.NewEncoder(w)
			emit := func(ev StreamEvent) {
				ev.RequestID = requestID
				if err := enc.Encode(ev); err != nil {
					cancel()
					return
				}
				if err := w.Flush(); err != nil {
					// Client went away.
					cancel()
				}
			}

			res, err := svc.Extract(ctx, bytes.NewReader(data), filename, func(p pipeline.Progress) {
				emit(StreamEvent{
					Type:      "progress",
					Page:      p.Page,
					Completed: p.Completed,
					Total:     p.Total,
					Message:   p.Message(),
				})
			})
			if err != nil {
				_, env := classify(err)
				emit(StreamEvent{Type: "error", Error: &env})
				return
			}
			emit(StreamEvent{Type: "transcript", Transcript: res})
		})
		return nil
	}
}
