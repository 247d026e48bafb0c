// Package openaitts synthesizes speech with the OpenAI audio API.
package openaitts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pdfnarrator/internal/model"
	"pdfnarrator/internal/speech"
)

// maxInputChars is the request limit of the speech endpoint. Chunk measures
// bytes, which is never less than the character count.
const maxInputChars = 4096

const slowSpeed = 0.75

type speechCreator interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// Synthesizer produces MP3 audio via OpenAI text-to-speech. The model infers
// the language from the text, so lang only gates what callers may request.
type Synthesizer struct {
	client speechCreator
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

// New returns a Synthesizer. Empty model/voice fall back to tts-1/alloy; an
// empty baseURL uses the public API.
func New(apiKey, baseURL, model, voice string) (*Synthesizer, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	s := &Synthesizer{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.TTSModel1,
		voice:  openai.VoiceAlloy,
	}
	if model != "" {
		s.model = openai.SpeechModel(model)
	}
	if voice != "" {
		s.voice = openai.SpeechVoice(voice)
	}
	return s, nil
}

func (s *Synthesizer) Name() string { return "openai" }

// Synthesize converts text to MP3, one request per chunk.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, lang model.Language, slow bool) ([]byte, error) {
	if !lang.Supported() {
		return nil, fmt.Errorf("language %q is not supported", lang)
	}
	speed := 1.0
	if slow {
		speed = slowSpeed
	}

	chunks := speech.Chunk(text, maxInputChars)
	if len(chunks) == 0 {
		return nil, errors.New("nothing to synthesize")
	}

	var out bytes.Buffer
	for i, chunk := range chunks {
		if err := s.synthesizeChunk(ctx, &out, chunk, speed); err != nil {
			return nil, fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return out.Bytes(), nil
}

func (s *Synthesizer) synthesizeChunk(ctx context.Context, w io.Writer, text string, speed float64) error {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          speed,
	})
	if err != nil {
		return err
	}
	defer resp.Close()

	_, err = io.Copy(w, resp)
	return err
}
