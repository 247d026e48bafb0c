// Package gemini recognizes page images with a Gemini vision model.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"pdfnarrator/internal/ocr"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

const transcribePrompt = `Transcribe all text visible in this page image.
Return only the text, in reading order, as plain text without markdown or commentary.
If the page contains no text, return an empty response.`

// contentGenerator is the subset of *genai.GenerativeModel used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Engine sends page images to Gemini. It is safe for concurrent use.
type Engine struct {
	client *genai.Client
	model  contentGenerator
	name   string
}

// New creates a Gemini client authenticated with apiKey.
func New(ctx context.Context, apiKey, model string) (*Engine, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0)

	return &Engine{client: client, model: m, name: model}, nil
}

func (e *Engine) Name() string { return "gemini" }

// Model returns the configured model name.
func (e *Engine) Model() string { return e.name }

// Recognize returns the text the model reads from img.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := ocr.EncodePNG(img)
	if err != nil {
		return "", err
	}
	resp, err := e.model.GenerateContent(ctx, genai.ImageData("png", data), genai.Text(transcribePrompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return responseText(resp), nil
}

// Close releases the underlying client.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
